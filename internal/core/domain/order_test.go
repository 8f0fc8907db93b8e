package domain

import (
	"errors"
	"testing"
	"time"
)

func newQueuedOrder(now time.Time) *Order {
	o := &Order{
		ID:          "order-1",
		QueueNumber: 7,
		TicketID:    "MM0007",
		Status:      StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	o.LogStatusChange(StatusQueued, "Order placed digitally", now)
	return o
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusQueued, StatusPreparing, true},
		{StatusQueued, StatusCancelled, true},
		{StatusQueued, StatusReady, false},
		{StatusQueued, StatusCollected, false},
		{StatusPreparing, StatusReady, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusPreparing, StatusQueued, false},
		{StatusPreparing, StatusCollected, false},
		{StatusReady, StatusCollected, true},
		{StatusReady, StatusCancelled, true},
		{StatusReady, StatusQueued, false},
		{StatusReady, StatusPreparing, false},
		{StatusCollected, StatusQueued, false},
		{StatusCollected, StatusPreparing, false},
		{StatusCollected, StatusReady, false},
		{StatusCollected, StatusCancelled, false},
		{StatusCancelled, StatusQueued, false},
		{StatusCancelled, StatusPreparing, false},
		{StatusCancelled, StatusReady, false},
		{StatusCancelled, StatusCollected, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected allowed=%v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestApplyTransition_RejectedEdgeLeavesOrderUnchanged(t *testing.T) {
	now := time.Now()
	order := newQueuedOrder(now)

	err := order.ApplyTransition(StatusReady, "", now.Add(time.Minute))

	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.From != StatusQueued || invalid.To != StatusReady {
		t.Errorf("expected edge Queued->Ready, got %s->%s", invalid.From, invalid.To)
	}
	if order.Status != StatusQueued {
		t.Errorf("status changed to %s on rejected transition", order.Status)
	}
	if len(order.StatusHistory) != 1 {
		t.Errorf("history grew to %d entries on rejected transition", len(order.StatusHistory))
	}
}

func TestApplyTransition_SelfTransitionIsNoOp(t *testing.T) {
	now := time.Now()
	order := newQueuedOrder(now)

	if err := order.ApplyTransition(StatusQueued, "again", now.Add(time.Minute)); err != nil {
		t.Fatalf("expected no-op, got error: %v", err)
	}
	if len(order.StatusHistory) != 1 {
		t.Errorf("expected 1 history entry after no-op, got %d", len(order.StatusHistory))
	}
}

func TestApplyTransition_ReadyStampsPickupNotification(t *testing.T) {
	now := time.Now()
	order := newQueuedOrder(now)

	if err := order.ApplyTransition(StatusPreparing, "", now); err != nil {
		t.Fatalf("Queued->Preparing failed: %v", err)
	}

	readyAt := now.Add(10 * time.Minute)
	if err := order.ApplyTransition(StatusReady, "", readyAt); err != nil {
		t.Fatalf("Preparing->Ready failed: %v", err)
	}

	if order.PickupNotifiedAt == nil || !order.PickupNotifiedAt.Equal(readyAt) {
		t.Errorf("expected PickupNotifiedAt %v, got %v", readyAt, order.PickupNotifiedAt)
	}
	if len(order.NotificationLog) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(order.NotificationLog))
	}
	if order.NotificationLog[0].Message != "Ticket MM0007 is ready for pickup." {
		t.Errorf("unexpected notification message: %q", order.NotificationLog[0].Message)
	}
	if order.PickedUpAt != nil {
		t.Error("PickedUpAt should not be set on Ready")
	}
}

func TestApplyTransition_CollectedStampsPickedUpAt(t *testing.T) {
	now := time.Now()
	order := newQueuedOrder(now)
	order.ApplyTransition(StatusPreparing, "", now)
	order.ApplyTransition(StatusReady, "", now)

	collectedAt := now.Add(20 * time.Minute)
	if err := order.ApplyTransition(StatusCollected, "", collectedAt); err != nil {
		t.Fatalf("Ready->Collected failed: %v", err)
	}
	if order.PickedUpAt == nil || !order.PickedUpAt.Equal(collectedAt) {
		t.Errorf("expected PickedUpAt %v, got %v", collectedAt, order.PickedUpAt)
	}
}

func TestApplyTransition_FullPathHistory(t *testing.T) {
	now := time.Now()
	order := newQueuedOrder(now)

	for _, next := range []OrderStatus{StatusPreparing, StatusReady, StatusCollected} {
		if err := order.ApplyTransition(next, "", now); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	if len(order.StatusHistory) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(order.StatusHistory))
	}
	if order.StatusHistory[0].Status != StatusQueued {
		t.Errorf("history must start Queued, got %s", order.StatusHistory[0].Status)
	}
	if last := order.StatusHistory[len(order.StatusHistory)-1].Status; last != order.Status {
		t.Errorf("last history status %s != current status %s", last, order.Status)
	}
}

func TestApplyTransition_DefaultNote(t *testing.T) {
	now := time.Now()
	order := newQueuedOrder(now)

	order.ApplyTransition(StatusPreparing, "", now)
	if got := order.StatusHistory[1].Note; got != "Status updated to Preparing" {
		t.Errorf("unexpected default note: %q", got)
	}

	order.ApplyTransition(StatusReady, "custom note", now)
	if got := order.StatusHistory[2].Note; got != "custom note" {
		t.Errorf("expected custom note kept, got %q", got)
	}
}

func TestFormatTicketID(t *testing.T) {
	if got := FormatTicketID("MM", 42); got != "MM0042" {
		t.Errorf("expected MM0042, got %s", got)
	}
	if got := FormatTicketID("MM", 12345); got != "MM12345" {
		t.Errorf("expected MM12345, got %s", got)
	}
}

func TestEstimatePickup(t *testing.T) {
	now := time.Now()

	if got := EstimatePickup(now, 3); !got.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("3 ahead: expected +15m, got %v", got.Sub(now))
	}
	if got := EstimatePickup(now, 0); !got.Equal(now.Add(5 * time.Minute)) {
		t.Errorf("first order: expected +5m, got %v", got.Sub(now))
	}
}

func TestResolveDeliveryDate(t *testing.T) {
	now := time.Now()

	future := now.Add(time.Hour)
	if got := ResolveDeliveryDate(now, &future); !got.Equal(future) {
		t.Errorf("future request not kept: %v", got)
	}

	past := now.Add(-time.Hour)
	if got := ResolveDeliveryDate(now, &past); !got.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("past request not defaulted: %v", got)
	}

	if got := ResolveDeliveryDate(now, nil); !got.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("nil request not defaulted: %v", got)
	}
}

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("Preparing"); !ok {
		t.Error("Preparing should parse")
	}
	if _, ok := ParseStatus("Shipped"); ok {
		t.Error("Shipped should not parse")
	}
}

func TestBuildOrderItems_DropsUnresolvedReferences(t *testing.T) {
	cart := &Cart{
		ID: "cart-1",
		Items: []CartItem{
			{ID: "ci-1", Quantity: 2, Food: &FoodRef{Name: "Burger", UnitPrice: 5}},
			{ID: "ci-2", Quantity: 1, Food: nil},
			{ID: "ci-3", Quantity: 1, Food: &FoodRef{Name: "Fries", UnitPrice: 2}},
		},
	}

	items := cart.BuildOrderItems()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].FoodName != "Burger" || items[0].Quantity != 2 || items[0].UnitPrice != 5 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].FoodName != "Fries" || items[1].Quantity != 1 || items[1].UnitPrice != 2 {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}
