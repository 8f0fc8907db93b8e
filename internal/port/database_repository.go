package port

import (
	"context"
	"errors"

	"github.com/campusmess/foodcourt/internal/core/domain"
)

var (
	// ErrNotFound is returned when an update targets a missing order.
	ErrNotFound = errors.New("order not found")

	// ErrVersionConflict is returned when an optimistic update lost a race;
	// the caller may reload and retry.
	ErrVersionConflict = errors.New("order version conflict")
)

// OrderSort selects the ordering of a list query.
type OrderSort int

const (
	SortCreatedDesc OrderSort = iota
	SortQueueAsc              // queue number ascending, creation time breaking ties
)

// OrderFilter narrows and orders a list query. Zero value lists everything,
// newest first.
type OrderFilter struct {
	Statuses []domain.OrderStatus
	MessID   string
	Sort     OrderSort
	Limit    int
}

type OrderRepository interface {
	// CreateOrder persists a new order. The queue number and ticket id must
	// already be assigned.
	CreateOrder(ctx context.Context, order domain.Order) error

	// GetOrder retrieves an order by id. Returns (nil, nil) if not found.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// GetOrderByTicket retrieves an order by ticket id. Returns (nil, nil) if not found.
	GetOrderByTicket(ctx context.Context, ticketID string) (*domain.Order, error)

	// GetOrderByQueueNumber retrieves an order by queue number. Returns (nil, nil) if not found.
	GetOrderByQueueNumber(ctx context.Context, queueNumber int64) (*domain.Order, error)

	// UpdateOrder persists status, history, notification and timestamp fields
	// with a version check for optimistic locking. Returns ErrVersionConflict
	// when the stored version moved on, ErrNotFound when the order is gone.
	UpdateOrder(ctx context.Context, order domain.Order) error

	// ListOrders returns orders matching the filter.
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)

	// CountByStatus counts orders currently in any of the given statuses.
	CountByStatus(ctx context.Context, statuses []domain.OrderStatus) (int64, error)

	// StatusCounts returns the number of orders per status.
	StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

type CartRepository interface {
	// FindCart returns a cart with its items and catalog snapshots fully
	// materialized. Returns (nil, nil) if the cart does not exist.
	FindCart(ctx context.Context, id string) (*domain.Cart, error)

	// DeleteCart removes the cart record.
	DeleteCart(ctx context.Context, id string) error

	// DeleteCartItems removes the given cart items.
	DeleteCartItems(ctx context.Context, ids []string) error
}
