package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campusmess/foodcourt/internal/core/domain"
)

// MySQLCartAdapter reads and destroys carts on behalf of the checkout flow.
// Carts are created and mutated by the cart subsystem; this adapter only
// materializes a snapshot and deletes.
type MySQLCartAdapter struct {
	db *sql.DB
}

func NewMySQLCartAdapter(db *sql.DB) *MySQLCartAdapter {
	return &MySQLCartAdapter{db: db}
}

// FindCart returns the cart with items and their catalog snapshots resolved
// in one pass. Items whose food reference no longer resolves keep a nil Food.
// Returns (nil, nil) when the cart does not exist.
func (m *MySQLCartAdapter) FindCart(ctx context.Context, id string) (*domain.Cart, error) {
	var cartID string
	err := m.db.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = ?`, id).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT ci.id, ci.quantity, f.name, f.unit_price
		FROM cart_items ci
		LEFT JOIN food_items f ON f.id = ci.food_id
		WHERE ci.cart_id = ?
		ORDER BY ci.id`, id)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	cart := &domain.Cart{ID: cartID}
	for rows.Next() {
		var (
			item      domain.CartItem
			foodName  sql.NullString
			unitPrice sql.NullFloat64
		)
		if err := rows.Scan(&item.ID, &item.Quantity, &foodName, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if foodName.Valid {
			item.Food = &domain.FoodRef{Name: foodName.String, UnitPrice: unitPrice.Float64}
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return cart, nil
}

func (m *MySQLCartAdapter) DeleteCart(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (m *MySQLCartAdapter) DeleteCartItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := m.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}
