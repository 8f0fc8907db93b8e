package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/port"
)

const reportRecentLimit = 50

// OrderRef identifies a single order for lookup, checked in priority order:
// ticket id, then queue number, then order id.
type OrderRef struct {
	TicketID    string
	QueueNumber int64
	OrderID     string
}

// Report is the aggregate view for the kitchen dashboard.
type Report struct {
	Summary map[domain.OrderStatus]int64 `json:"summary"`
	Total   int64                        `json:"total"`
	Orders  []domain.Order               `json:"orders"`
}

// TicketView is the reduced public projection returned for ticket tracking.
type TicketView struct {
	ID              string                `json:"id"`
	TicketID        string                `json:"ticketId"`
	QueueNumber     int64                 `json:"queueNumber"`
	Status          domain.OrderStatus    `json:"status"`
	Customer        domain.Customer       `json:"customer"`
	OrderItems      []domain.OrderItem    `json:"orderItems"`
	EstimatedPickup time.Time             `json:"estimatedPickup"`
	LastUpdated     time.Time             `json:"lastUpdated"`
	NotificationLog []domain.Notification `json:"notificationLog"`
}

// ListOrders returns orders newest first, optionally narrowed by status.
func (s *OrderService) ListOrders(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx, port.OrderFilter{
		Statuses: statuses,
		Sort:     port.SortCreatedDesc,
	})
}

// ListCustomerOrders returns the caller's own orders, newest first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, ident domain.Identity) ([]domain.Order, error) {
	messID := ident.Profile.MessID
	if messID == "" {
		messID = ident.Identifier
	}
	return s.orders.ListOrders(ctx, port.OrderFilter{
		MessID: messID,
		Sort:   port.SortCreatedDesc,
	})
}

// QueueSnapshot returns the live queue in preparation order: queue number
// ascending, creation time breaking ties. Defaults to the active statuses.
func (s *OrderService) QueueSnapshot(ctx context.Context, statuses []domain.OrderStatus) ([]domain.Order, error) {
	if len(statuses) == 0 {
		statuses = domain.ActiveQueueStatuses
	}
	return s.orders.ListOrders(ctx, port.OrderFilter{
		Statuses: statuses,
		Sort:     port.SortQueueAsc,
	})
}

// GetReport returns per-status counts, the grand total and the 50 most
// recently created orders.
func (s *OrderService) GetReport(ctx context.Context) (*Report, error) {
	counts, err := s.orders.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	recent, err := s.orders.ListOrders(ctx, port.OrderFilter{
		Sort:  port.SortCreatedDesc,
		Limit: reportRecentLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	return &Report{Summary: counts, Total: total, Orders: recent}, nil
}

// GetOrder resolves a single order by ticket id, queue number or order id.
func (s *OrderService) GetOrder(ctx context.Context, ref OrderRef) (*domain.Order, error) {
	var (
		order *domain.Order
		err   error
	)
	switch {
	case ref.TicketID != "":
		order, err = s.orders.GetOrderByTicket(ctx, ref.TicketID)
	case ref.QueueNumber > 0:
		order, err = s.orders.GetOrderByQueueNumber(ctx, ref.QueueNumber)
	case ref.OrderID != "":
		order, err = s.orders.GetOrder(ctx, ref.OrderID)
	default:
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// TrackByTicket returns the reduced public view for a ticket id.
func (s *OrderService) TrackByTicket(ctx context.Context, ticketID string) (*TicketView, error) {
	order, err := s.orders.GetOrderByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get order by ticket: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return &TicketView{
		ID:              order.ID,
		TicketID:        order.TicketID,
		QueueNumber:     order.QueueNumber,
		Status:          order.Status,
		Customer:        order.Customer,
		OrderItems:      order.OrderItems,
		EstimatedPickup: order.EstimatedPickup,
		LastUpdated:     order.LastUpdated(),
		NotificationLog: order.NotificationLog,
	}, nil
}
