package models

import "time"

type Guest struct {
	ID uint `gorm:"primaryKey" json:"guest_id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Email     string `gorm:"size:255" json:"email"`
	Phone     string `gorm:"size:50" json:"phone"`
	Address   string `gorm:"type:text" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// filled on detail reads only
	Reservations []Reservation `gorm:"foreignKey:GuestID" json:"reservations,omitempty"`
}
