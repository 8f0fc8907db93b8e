package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/port"
)

// Mock CounterRepository
type mockCounter struct {
	n    atomic.Int64
	fail bool
}

func (m *mockCounter) NextQueueNumber(ctx context.Context) (int64, error) {
	if m.fail {
		return 0, errors.New("counter store down")
	}
	return m.n.Add(1), nil
}

// Mock OrderRepository
type mockOrderRepo struct {
	mu           sync.Mutex
	orders       map[string]domain.Order
	createErr    error
	conflictOnce bool
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]domain.Order)}
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (m *mockOrderRepo) GetOrderByTicket(ctx context.Context, ticketID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TicketID == ticketID {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) GetOrderByQueueNumber(ctx context.Context, queueNumber int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.QueueNumber == queueNumber {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) UpdateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflictOnce {
		m.conflictOnce = false
		return port.ErrVersionConflict
	}
	stored, ok := m.orders[order.ID]
	if !ok {
		return port.ErrNotFound
	}
	if stored.Version != order.Version {
		return port.ErrVersionConflict
	}
	order.Version++
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.Order
	for _, o := range m.orders {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, o.Status) {
			continue
		}
		if filter.MessID != "" && o.Customer.MessID != filter.MessID {
			continue
		}
		result = append(result, o)
	}

	switch filter.Sort {
	case port.SortQueueAsc:
		sort.Slice(result, func(i, j int) bool {
			if result[i].QueueNumber != result[j].QueueNumber {
				return result[i].QueueNumber < result[j].QueueNumber
			}
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
	default:
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *mockOrderRepo) CountByStatus(ctx context.Context, statuses []domain.OrderStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, o := range m.orders {
		if containsStatus(statuses, o.Status) {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepo) StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[domain.OrderStatus]int64)
	for _, o := range m.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func containsStatus(statuses []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

// Mock CartRepository
type mockCartRepo struct {
	mu           sync.Mutex
	carts        map[string]domain.Cart
	deletedCarts []string
	deletedItems []string
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]domain.Cart)}
}

func (m *mockCartRepo) put(cart domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.ID] = cart
}

func (m *mockCartRepo) FindCart(ctx context.Context, id string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *mockCartRepo) DeleteCart(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, id)
	m.deletedCarts = append(m.deletedCarts, id)
	return nil
}

func (m *mockCartRepo) DeleteCartItems(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedItems = append(m.deletedItems, ids...)
	return nil
}
