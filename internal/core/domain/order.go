package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusQueued    OrderStatus = "Queued"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusCollected OrderStatus = "Collected"
	StatusCancelled OrderStatus = "Cancelled"
)

// ActiveQueueStatuses is the default filter for the kitchen queue view.
var ActiveQueueStatuses = []OrderStatus{StatusQueued, StatusPreparing, StatusReady}

// PrepProgressStatuses count toward the pickup estimate of a new order.
var PrepProgressStatuses = []OrderStatus{StatusQueued, StatusPreparing}

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusQueued:    {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCollected, StatusCancelled},
	StatusCollected: {},
	StatusCancelled: {},
}

// ParseStatus validates a status string received from a caller.
func ParseStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := allowedTransitions[status]
	return status, ok
}

func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the edge s -> next is in the transition graph.
// A self-transition is not an edge; callers treat it as a no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvalidTransitionError carries the rejected edge.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition from %s to %s is not allowed", e.From, e.To)
}

// OrderItem is a price/name snapshot taken at order time, independent of
// later catalog changes.
type OrderItem struct {
	FoodName  string  `json:"foodName"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type Customer struct {
	MessID     string `json:"messId"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Contact    string `json:"contact,omitempty"`
}

type StatusChange struct {
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note"`
	ChangedAt time.Time   `json:"changedAt"`
}

type Notification struct {
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Order is the unit of work through the kitchen queue. Version guards
// concurrent status updates (optimistic locking).
type Order struct {
	ID                  string         `json:"id"`
	QueueNumber         int64          `json:"queueNumber"`
	TicketID            string         `json:"ticketId"`
	Status              OrderStatus    `json:"status"`
	OrderItems          []OrderItem    `json:"orderItems"`
	Customer            Customer       `json:"customer"`
	EstimatedPickup     time.Time      `json:"estimatedPickup"`
	DeliveryDate        time.Time      `json:"deliveryDate"`
	StatusHistory       []StatusChange `json:"statusHistory"`
	NotificationLog     []Notification `json:"notificationLog"`
	PickupNotifiedAt    *time.Time     `json:"pickupNotifiedAt,omitempty"`
	PickedUpAt          *time.Time     `json:"pickedUpAt,omitempty"`
	SpecialInstructions string         `json:"specialInstructions,omitempty"`
	PickupWindow        string         `json:"pickupWindow,omitempty"`
	Version             int            `json:"-"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// LogStatusChange appends a history entry without validating the edge.
func (o *Order) LogStatusChange(status OrderStatus, note string, at time.Time) {
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    status,
		Note:      note,
		ChangedAt: at,
	})
}

// RecordNotification appends an in-app entry to the notification log.
// The log is bookkeeping only; nothing is delivered.
func (o *Order) RecordNotification(message string, at time.Time) {
	o.NotificationLog = append(o.NotificationLog, Notification{
		Channel:   "in-app",
		Message:   message,
		Timestamp: at,
	})
}

// ApplyTransition moves the order along the transition graph. Re-applying the
// current status is a no-op. A disallowed edge returns InvalidTransitionError
// with the order unmodified. Entering Ready stamps PickupNotifiedAt and logs a
// pickup notification; entering Collected stamps PickedUpAt.
func (o *Order) ApplyTransition(next OrderStatus, note string, now time.Time) error {
	if next == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}

	if note == "" {
		note = fmt.Sprintf("Status updated to %s", next)
	}

	o.Status = next
	o.LogStatusChange(next, note, now)

	switch next {
	case StatusReady:
		at := now
		o.PickupNotifiedAt = &at
		o.RecordNotification(fmt.Sprintf("Ticket %s is ready for pickup.", o.TicketID), now)
	case StatusCollected:
		at := now
		o.PickedUpAt = &at
	}

	o.UpdatedAt = now
	return nil
}

// LastUpdated is the timestamp of the most recent status change, falling back
// to the order's own last-modified time when history is empty.
func (o *Order) LastUpdated() time.Time {
	if n := len(o.StatusHistory); n > 0 {
		return o.StatusHistory[n-1].ChangedAt
	}
	return o.UpdatedAt
}

// FormatTicketID derives the customer-facing ticket identifier from the queue
// number. The format (prefix + zero-padded 4-digit number, e.g. MM0042) is an
// external contract; numbers beyond 9999 widen naturally.
func FormatTicketID(prefix string, queueNumber int64) string {
	return fmt.Sprintf("%s%04d", prefix, queueNumber)
}

// EstimatePickup computes the point-in-time pickup estimate for a new order
// given the number of orders already in preparation ahead of it. Five minutes
// per order ahead, never less than one slot. Not recalculated afterwards.
func EstimatePickup(now time.Time, pendingAhead int64) time.Time {
	if pendingAhead < 1 {
		pendingAhead = 1
	}
	return now.Add(time.Duration(pendingAhead) * 5 * time.Minute)
}

// ResolveDeliveryDate keeps a requested time only if it is strictly in the
// future, defaulting to 30 minutes out otherwise.
func ResolveDeliveryDate(now time.Time, requested *time.Time) time.Time {
	if requested != nil && requested.After(now) {
		return *requested
	}
	return now.Add(30 * time.Minute)
}
