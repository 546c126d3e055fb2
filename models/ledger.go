package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultChargeCategory = "Other"

type ServiceCharge struct {
	ID            uint            `gorm:"primaryKey" json:"charge_id"`
	ReservationID uint            `gorm:"not null;index" json:"reservation_id"`
	Description   string          `gorm:"size:255;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Category      string          `gorm:"size:50;not null;default:Other" json:"category"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Cash"
	PaymentCard     PaymentMethod = "Card"
	PaymentTransfer PaymentMethod = "Transfer"
	PaymentOther    PaymentMethod = "Other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"payment_id"`
	ReservationID uint            `gorm:"not null;index" json:"reservation_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        PaymentMethod   `gorm:"column:payment_method;size:20;not null" json:"method"`
	Reference     string          `gorm:"column:reference_number;size:100" json:"reference"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
}

// Folio is an informational balance; nothing enforces it.
type Folio struct {
	ReservationID uint            `json:"reservation_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Discount      decimal.Decimal `json:"discount"`
	Charges       decimal.Decimal `json:"charges"`
	Payments      decimal.Decimal `json:"payments"`
	Balance       decimal.Decimal `json:"balance"`
}
