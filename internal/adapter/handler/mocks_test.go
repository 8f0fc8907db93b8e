package handler

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/port"
)

type fakeCounter struct {
	n atomic.Int64
}

func (f *fakeCounter) NextQueueNumber(ctx context.Context) (int64, error) {
	return f.n.Add(1), nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]domain.Order)}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetOrderByTicket(ctx context.Context, ticketID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.TicketID == ticketID {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetOrderByQueueNumber(ctx context.Context, queueNumber int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.QueueNumber == queueNumber {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateOrder(ctx context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[order.ID]
	if !ok {
		return port.ErrNotFound
	}
	if stored.Version != order.Version {
		return port.ErrVersionConflict
	}
	order.Version++
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Order
	for _, o := range f.orders {
		if len(filter.Statuses) > 0 && !statusIn(filter.Statuses, o.Status) {
			continue
		}
		if filter.MessID != "" && o.Customer.MessID != filter.MessID {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		if filter.Sort == port.SortQueueAsc {
			return result[i].QueueNumber < result[j].QueueNumber
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context, statuses []domain.OrderStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, o := range f.orders {
		if statusIn(statuses, o.Status) {
			count++
		}
	}
	return count, nil
}

func (f *fakeOrderRepo) StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.OrderStatus]int64)
	for _, o := range f.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func statusIn(statuses []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]domain.Cart)}
}

func (f *fakeCartRepo) put(cart domain.Cart) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[cart.ID] = cart
}

func (f *fakeCartRepo) FindCart(ctx context.Context, id string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCartRepo) DeleteCart(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, id)
	return nil
}

func (f *fakeCartRepo) DeleteCartItems(ctx context.Context, ids []string) error {
	return nil
}
