package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	StatusPending    ReservationStatus = "Pending"
	StatusConfirmed  ReservationStatus = "Confirmed"
	StatusCheckedIn  ReservationStatus = "Checked_In"
	StatusCheckedOut ReservationStatus = "Checked_Out"
	StatusCancelled  ReservationStatus = "Cancelled"
)

var reservationStatuses = map[ReservationStatus]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusCheckedIn:  true,
	StatusCheckedOut: true,
	StatusCancelled:  true,
}

func (s ReservationStatus) Valid() bool { return reservationStatuses[s] }

// BlockingStatuses are the states that hold a room against other bookings.
var BlockingStatuses = []ReservationStatus{StatusConfirmed, StatusCheckedIn}

func (s ReservationStatus) Blocking() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// Reservation covers the stay [CheckInDate, CheckOutDate). TotalAmount and
// PricePerNightAtBooking are written once at creation and never recomputed.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"res_id"`

	GuestID uint `gorm:"not null;index" json:"guest_id"`
	RoomID  uint `gorm:"not null;index:idx_reservations_room_dates" json:"room_id"`

	CheckInDate  time.Time `gorm:"type:date;not null;index:idx_reservations_room_dates" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"type:date;not null" json:"check_out_date"`

	Nights                 int               `gorm:"not null" json:"nights"`
	PricePerNightAtBooking decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price_per_night_at_booking"`
	TotalAmount            decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Discount               decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Status                 ReservationStatus `gorm:"column:res_status;type:varchar(20);not null;index" json:"res_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Guest    *Guest          `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room     *Room           `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Charges  []ServiceCharge `gorm:"foreignKey:ReservationID" json:"charges,omitempty"`
	Payments []Payment       `gorm:"foreignKey:ReservationID" json:"payments,omitempty"`
}
