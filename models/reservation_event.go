package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventCreated         = "created"
	EventStatusChanged   = "status_changed"
	EventDiscountChanged = "discount_changed"
)

// ReservationEvent is the audit row written alongside every lifecycle change.
// Flagged marks a status change outside the transition table.
type ReservationEvent struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ReservationID uint              `gorm:"not null;index" json:"reservation_id"`
	Kind          string            `gorm:"size:32;not null" json:"kind"`
	FromStatus    ReservationStatus `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus      ReservationStatus `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Flagged       bool              `gorm:"not null;default:false" json:"flagged"`
	Details       datatypes.JSON    `json:"details,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
