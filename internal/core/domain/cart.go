package domain

// FoodRef is the catalog snapshot a cart item resolved to at fetch time.
// No live re-lookup happens after the snapshot.
type FoodRef struct {
	Name      string
	UnitPrice float64
}

// CartItem references a catalog item with a quantity. Food is nil when the
// catalog reference could not be resolved.
type CartItem struct {
	ID       string
	Quantity int
	Food     *FoodRef
}

// Cart is owned by the cart subsystem and consumed here read-only: the
// converter snapshots it into order items and then destroys it.
type Cart struct {
	ID    string
	Items []CartItem
}

// BuildOrderItems snapshots the cart into immutable order line items.
// Items without a resolvable catalog reference are dropped silently.
func (c *Cart) BuildOrderItems() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, ci := range c.Items {
		if ci.Food == nil {
			continue
		}
		items = append(items, OrderItem{
			FoodName:  ci.Food.Name,
			Quantity:  ci.Quantity,
			UnitPrice: ci.Food.UnitPrice,
		})
	}
	return items
}
