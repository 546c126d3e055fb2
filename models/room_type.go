package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType carries the nightly base price copied into every new reservation.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"type_id"`

	TypeName    string          `gorm:"size:100;not null" json:"type_name"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Capacity    uint            `gorm:"not null;default:0" json:"capacity"`
	Description string          `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}
