package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicReservationCreated       = "reservation.created"
	TopicReservationStatusChanged = "reservation.status_changed"
	TopicReservationUpdated       = "reservation.updated"
	TopicReservationDeleted       = "reservation.deleted"
	TopicChargeAdded              = "ledger.charge_added"
	TopicPaymentRecorded          = "ledger.payment_recorded"
)

// Event is what gets published after a unit of work commits.
type Event struct {
	Topic         string           `json:"topic"`
	ReservationID uint             `json:"reservation_id"`
	RoomID        uint             `json:"room_id,omitempty"`
	GuestID       uint             `json:"guest_id,omitempty"`
	Status        string           `json:"status,omitempty"`
	PreviousState string           `json:"previous_status,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Flagged       bool             `json:"flagged,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// Publisher delivers events. Failures never undo the committed change.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
