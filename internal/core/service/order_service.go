package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/port"
)

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoOrderableItems   = errors.New("no orderable items in cart")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUnauthorized       = errors.New("not allowed to act on this order")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IncompleteProfileError lists every required customer field still empty
// after merging the request payload with the session identity.
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("customer profile is incomplete: %s", strings.Join(e.Missing, ", "))
}

type OrderService struct {
	orders       port.OrderRepository
	carts        port.CartRepository
	counter      port.CounterRepository
	ticketPrefix string
	nowFunc      func() time.Time
	idFunc       func() string
}

func NewOrderService(orders port.OrderRepository, carts port.CartRepository, counter port.CounterRepository, ticketPrefix string) *OrderService {
	return &OrderService{
		orders:       orders,
		carts:        carts,
		counter:      counter,
		ticketPrefix: ticketPrefix,
		nowFunc:      time.Now,
		idFunc:       uuid.NewString,
	}
}

// CustomerInput is the customer payload supplied at checkout. Empty fields
// fall back to the session identity.
type CustomerInput struct {
	MessID     string
	Name       string
	RollNumber string
	Contact    string
}

// PlaceOrderInput carries the request-scoped checkout data. The cart
// reference is explicit; nothing is read from ambient session state.
type PlaceOrderInput struct {
	CartID              string
	Customer            CustomerInput
	DeliveryDate        *time.Time
	SpecialInstructions string
	PickupWindow        string
}

// PlaceOrder converts the cart into a Queued order: snapshot the items,
// assign a queue number and ticket, estimate the pickup time, persist the
// order and destroy the cart. The order is durably persisted before the cart
// is touched, so a failure mid-sequence never loses both.
func (s *OrderService) PlaceOrder(ctx context.Context, ident domain.Identity, in PlaceOrderInput) (*domain.Order, error) {
	if !ident.IsStudent() {
		return nil, ErrUnauthorized
	}

	cart, err := s.carts.FindCart(ctx, in.CartID)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	customer, err := buildCustomerProfile(ident, in.Customer)
	if err != nil {
		return nil, err
	}

	orderItems := cart.BuildOrderItems()
	if len(orderItems) == 0 {
		return nil, ErrNoOrderableItems
	}

	queueNumber, err := s.counter.NextQueueNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	ticketID := domain.FormatTicketID(s.ticketPrefix, queueNumber)

	pendingAhead, err := s.orders.CountByStatus(ctx, domain.PrepProgressStatuses)
	if err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}

	now := s.nowFunc()
	order := domain.Order{
		ID:                  s.idFunc(),
		QueueNumber:         queueNumber,
		TicketID:            ticketID,
		Status:              domain.StatusQueued,
		OrderItems:          orderItems,
		Customer:            customer,
		EstimatedPickup:     domain.EstimatePickup(now, pendingAhead),
		DeliveryDate:        domain.ResolveDeliveryDate(now, in.DeliveryDate),
		SpecialInstructions: in.SpecialInstructions,
		PickupWindow:        in.PickupWindow,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	order.LogStatusChange(domain.StatusQueued, "Order placed digitally", now)
	order.RecordNotification(fmt.Sprintf("Ticket %s generated. Queue number %d.", ticketID, queueNumber), now)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		// The counter advance is burned; a queue-number gap is acceptable.
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.clearCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return &order, nil
}

func (s *OrderService) clearCart(ctx context.Context, cart *domain.Cart) error {
	if len(cart.Items) > 0 {
		ids := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ID)
		}
		if err := s.carts.DeleteCartItems(ctx, ids); err != nil {
			return err
		}
	}
	return s.carts.DeleteCart(ctx, cart.ID)
}

func buildCustomerProfile(ident domain.Identity, in CustomerInput) (domain.Customer, error) {
	firstNonEmpty := func(values ...string) string {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
		return ""
	}

	customer := domain.Customer{
		MessID:     firstNonEmpty(in.MessID, ident.Profile.MessID, ident.Identifier),
		Name:       firstNonEmpty(in.Name, ident.Name),
		RollNumber: firstNonEmpty(in.RollNumber, ident.Profile.RollNumber),
		Contact:    firstNonEmpty(in.Contact, ident.Profile.Contact),
	}

	var missing []string
	if customer.MessID == "" {
		missing = append(missing, "customer.messId")
	}
	if customer.Name == "" {
		missing = append(missing, "customer.name")
	}
	if customer.RollNumber == "" {
		missing = append(missing, "customer.rollNumber")
	}
	if len(missing) > 0 {
		return domain.Customer{}, &IncompleteProfileError{Missing: missing}
	}
	return customer, nil
}

// UpdateStatus applies a validated transition and persists it under the
// order's optimistic version. A concurrent loser observes
// port.ErrVersionConflict and may retry against the winner's state.
func (s *OrderService) UpdateStatus(ctx context.Context, ident domain.Identity, orderID string, next domain.OrderStatus, note string) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ident, order); err != nil {
		return nil, err
	}

	if order.Status == next {
		return order, nil
	}
	if err := order.ApplyTransition(next, note, s.nowFunc()); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	order.Version++
	return order, nil
}

// CancelOrder cancels from any non-terminal state. Cancelling an already
// cancelled order is a successful no-op for an authorized caller.
func (s *OrderService) CancelOrder(ctx context.Context, ident domain.Identity, orderID string) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ident, order); err != nil {
		return nil, err
	}
	if order.Status == domain.StatusCancelled {
		return order, nil
	}

	note := "Order cancelled by student"
	if ident.IsStaff() {
		note = "Order cancelled by staff"
	}
	if err := order.ApplyTransition(domain.StatusCancelled, note, s.nowFunc()); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	order.Version++
	return order, nil
}

func (s *OrderService) loadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
