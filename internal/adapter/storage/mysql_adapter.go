package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/port"
)

const orderColumns = `id, queue_number, ticket_id, status, order_items,
	customer_mess_id, customer_name, customer_roll_number, customer_contact,
	estimated_pickup, delivery_date, status_history, notification_log,
	pickup_notified_at, picked_up_at, special_instructions, pickup_window,
	version, created_at, updated_at`

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	items, history, notifications, err := marshalOrderDocs(order)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.QueueNumber, order.TicketID, order.Status, items,
		order.Customer.MessID, order.Customer.Name, order.Customer.RollNumber, order.Customer.Contact,
		order.EstimatedPickup, order.DeliveryDate, history, notifications,
		order.PickupNotifiedAt, order.PickedUpAt, order.SpecialInstructions, order.PickupWindow,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return m.getOrderWhere(ctx, "id = ?", id)
}

func (m *MySQLAdapter) GetOrderByTicket(ctx context.Context, ticketID string) (*domain.Order, error) {
	return m.getOrderWhere(ctx, "ticket_id = ?", ticketID)
}

func (m *MySQLAdapter) GetOrderByQueueNumber(ctx context.Context, queueNumber int64) (*domain.Order, error) {
	return m.getOrderWhere(ctx, "queue_number = ?", queueNumber)
}

func (m *MySQLAdapter) getOrderWhere(ctx context.Context, where string, arg interface{}) (*domain.Order, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return order, nil
}

// UpdateOrder persists the mutable order fields guarded by the version
// column. Zero affected rows means either a lost optimistic race or a
// missing order; a follow-up existence check distinguishes the two.
func (m *MySQLAdapter) UpdateOrder(ctx context.Context, order domain.Order) error {
	_, history, notifications, err := marshalOrderDocs(order)
	if err != nil {
		return err
	}

	result, err := m.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, status_history = ?, notification_log = ?,
			pickup_notified_at = ?, picked_up_at = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		order.Status, history, notifications,
		order.PickupNotifiedAt, order.PickedUpAt,
		order.UpdatedAt, order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		existing, err := m.GetOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return port.ErrNotFound
		}
		return port.ErrVersionConflict
	}
	return nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.Statuses) > 0 {
		conds = append(conds, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, s := range filter.Statuses {
			args = append(args, s)
		}
	}
	if filter.MessID != "" {
		conds = append(conds, "customer_mess_id = ?")
		args = append(args, filter.MessID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	switch filter.Sort {
	case port.SortQueueAsc:
		query += " ORDER BY queue_number ASC, created_at ASC"
	default:
		query += " ORDER BY created_at DESC"
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (m *MySQLAdapter) CountByStatus(ctx context.Context, statuses []domain.OrderStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	args := make([]interface{}, 0, len(statuses))
	for _, s := range statuses {
		args = append(args, s)
	}

	var count int64
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE status IN (`+placeholders(len(statuses))+`)`,
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (m *MySQLAdapter) StatusCounts(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatus]int64)
	for rows.Next() {
		var (
			status domain.OrderStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o                          domain.Order
		items, history, notifs     []byte
		pickupNotified, pickedUp   sql.NullTime
		specialInstr, pickupWindow sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.QueueNumber, &o.TicketID, &o.Status, &items,
		&o.Customer.MessID, &o.Customer.Name, &o.Customer.RollNumber, &o.Customer.Contact,
		&o.EstimatedPickup, &o.DeliveryDate, &history, &notifs,
		&pickupNotified, &pickedUp, &specialInstr, &pickupWindow,
		&o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.OrderItems); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(history, &o.StatusHistory); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	if err := json.Unmarshal(notifs, &o.NotificationLog); err != nil {
		return nil, fmt.Errorf("unmarshal notification log: %w", err)
	}
	if pickupNotified.Valid {
		o.PickupNotifiedAt = &pickupNotified.Time
	}
	if pickedUp.Valid {
		o.PickedUpAt = &pickedUp.Time
	}
	o.SpecialInstructions = specialInstr.String
	o.PickupWindow = pickupWindow.String
	return &o, nil
}

func marshalOrderDocs(order domain.Order) (items, history, notifications []byte, err error) {
	if items, err = json.Marshal(order.OrderItems); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal order items: %w", err)
	}
	if history, err = json.Marshal(order.StatusHistory); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal status history: %w", err)
	}
	if notifications, err = json.Marshal(order.NotificationLog); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal notification log: %w", err)
	}
	return items, history, notifications, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
