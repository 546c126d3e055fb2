// Package repository holds the persistence port used by the services and its
// MySQL (gorm) and in-memory implementations.
package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"hotel-backoffice/models"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type ReservationFilter struct {
	RoomID  *uint
	GuestID *uint
	Status  *models.ReservationStatus
}

// BlockingQuery selects reservations that may hold a room: status in
// models.BlockingStatuses and check-in strictly before Before. The exact
// overlap decision is left to the caller.
type BlockingQuery struct {
	RoomID *uint
	Before time.Time
}

// ReservationPatch is a partial update; nil fields are left alone.
type ReservationPatch struct {
	Status   *models.ReservationStatus
	Discount *decimal.Decimal
}

type RoomTypePatch struct {
	BasePrice   *decimal.Decimal
	Capacity    *uint
	Description *string
}

type GuestPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
}

// Store is everything the services need from persistence. Methods return
// ErrNotFound for missing rows and ErrDuplicate for unique violations.
type Store interface {
	// Transaction runs fn as one unit of work; a non-nil error rolls it back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateRoomType(ctx context.Context, rt *models.RoomType) error
	GetRoomType(ctx context.Context, id uint) (*models.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]models.RoomType, error)
	UpdateRoomType(ctx context.Context, id uint, patch RoomTypePatch) error
	DeleteRoomType(ctx context.Context, id uint) error
	CountRoomsByType(ctx context.Context, typeID uint) (int64, error)

	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	// GetRoomForUpdate reads the room and holds its row lock until the
	// surrounding transaction ends.
	GetRoomForUpdate(ctx context.Context, id uint) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error

	CreateGuest(ctx context.Context, g *models.Guest) error
	GetGuest(ctx context.Context, id uint) (*models.Guest, error)
	ListGuests(ctx context.Context) ([]models.Guest, error)
	UpdateGuest(ctx context.Context, id uint, patch GuestPatch) error
	DeleteGuest(ctx context.Context, id uint) error
	CountGuests(ctx context.Context) (int64, error)

	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	// GetReservationDetail also loads guest, room with type, charges and payments.
	GetReservationDetail(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error)
	ListBlockingReservations(ctx context.Context, q BlockingQuery) ([]models.Reservation, error)
	CountReservationsByGuest(ctx context.Context, guestID uint) (int64, error)
	UpdateReservation(ctx context.Context, id uint, patch ReservationPatch) error
	// DeleteReservation removes the reservation with its charges, payments and events.
	DeleteReservation(ctx context.Context, id uint) error

	AppendEvent(ctx context.Context, ev *models.ReservationEvent) error
	ListEvents(ctx context.Context, reservationID uint) ([]models.ReservationEvent, error)

	CreateCharge(ctx context.Context, c *models.ServiceCharge) error
	ListCharges(ctx context.Context, reservationID uint) ([]models.ServiceCharge, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, reservationID uint) ([]models.Payment, error)

	CreateStaff(ctx context.Context, s *models.Staff) error
	GetStaffByUsername(ctx context.Context, username string) (*models.Staff, error)
	GetStaff(ctx context.Context, id uint) (*models.Staff, error)
	CountStaff(ctx context.Context) (int64, error)

	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// occupancyRate is checked-in stays over bookable rooms, as a percentage
// rounded to two places.
func occupancyRate(checkedIn, rooms int64) float64 {
	if rooms == 0 {
		return 0
	}
	return math.Round(float64(checkedIn)/float64(rooms)*10000) / 100
}
