package models

import (
	"encoding/json"
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomDirty       RoomStatus = "Dirty"
	RoomMaintenance RoomStatus = "Maintenance"
)

var roomStatuses = map[RoomStatus]bool{
	RoomAvailable:   true,
	RoomOccupied:    true,
	RoomDirty:       true,
	RoomMaintenance: true,
}

func (s RoomStatus) Valid() bool { return roomStatuses[s] }

type Room struct {
	ID uint `gorm:"primaryKey" json:"room_id"`

	RoomNumber string     `gorm:"column:room_number;uniqueIndex;type:varchar(50);not null" json:"room_number"`
	TypeID     uint       `gorm:"column:type_id;not null;index" json:"type_id"`
	Status     RoomStatus `gorm:"type:varchar(20);not null;default:Available" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoomType RoomType `gorm:"foreignKey:TypeID" json:"type"`
}

// Floor is the first character of the room number ("305" is on floor "3").
func (r Room) Floor() string {
	if r.RoomNumber == "" {
		return ""
	}
	return r.RoomNumber[:1]
}

func (r Room) MarshalJSON() ([]byte, error) {
	type plain Room
	return json.Marshal(struct {
		plain
		Floor string `json:"floor"`
	}{plain(r), r.Floor()})
}
