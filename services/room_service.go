package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/shopspring/decimal"
)

var roomNumberPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// RoomService is the room catalog: rooms, room types and the date-filtered
// availability listing.
type RoomService struct {
	store repository.Store
	opts  Options
}

func NewRoomService(store repository.Store, opts Options) *RoomService {
	return &RoomService{store: store, opts: opts.normalize()}
}

// ----------------------------------------------------
// Room types
// ----------------------------------------------------

type RoomTypeInput struct {
	TypeName    string
	BasePrice   *decimal.Decimal
	Capacity    uint
	Description string
}

func (s *RoomService) CreateRoomType(ctx context.Context, in RoomTypeInput) (*models.RoomType, error) {
	name := strings.TrimSpace(in.TypeName)
	if name == "" || in.BasePrice == nil {
		return nil, invalid("type_name and base_price are required")
	}
	if in.BasePrice.IsNegative() {
		return nil, invalid("base_price must not be negative")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	rt := models.RoomType{
		TypeName:    name,
		BasePrice:   *in.BasePrice,
		Capacity:    in.Capacity,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.store.CreateRoomType(ctx, &rt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("room type '%s' already exists", name)
		}
		return nil, storeErr("create room type", "room type", err)
	}
	return &rt, nil
}

func (s *RoomService) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	out, err := s.store.ListRoomTypes(ctx)
	if err != nil {
		return nil, storeErr("list room types", "room type", err)
	}
	return out, nil
}

// UpdateRoomType changes price, capacity or description. Existing
// reservations keep their booked price.
func (s *RoomService) UpdateRoomType(ctx context.Context, id uint, patch repository.RoomTypePatch) (*models.RoomType, error) {
	if patch.BasePrice == nil && patch.Capacity == nil && patch.Description == nil {
		return nil, invalid("nothing to update: provide base_price, capacity and/or description")
	}
	if patch.BasePrice != nil && patch.BasePrice.IsNegative() {
		return nil, invalid("base_price must not be negative")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if err := s.store.UpdateRoomType(ctx, id, patch); err != nil {
		return nil, storeErr("update room type", "room type", err)
	}
	rt, err := s.store.GetRoomType(ctx, id)
	if err != nil {
		return nil, storeErr("update room type", "room type", err)
	}
	return rt, nil
}

func (s *RoomService) DeleteRoomType(ctx context.Context, id uint) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	return storeErr("delete room type", "room type", s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetRoomType(ctx, id); err != nil {
			return storeErr("delete room type", "room type", err)
		}
		n, err := tx.CountRoomsByType(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflict("room type is used by %d room(s)", n)
		}
		return tx.DeleteRoomType(ctx, id)
	}))
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

type RoomInput struct {
	RoomNumber string
	TypeID     uint
}

func (s *RoomService) CreateRoom(ctx context.Context, in RoomInput) (*models.Room, error) {
	number := strings.TrimSpace(in.RoomNumber)
	if number == "" {
		return nil, invalid("room_number is required")
	}
	if !roomNumberPattern.MatchString(number) {
		return nil, invalid("room_number must be alphanumeric")
	}
	if in.TypeID == 0 {
		return nil, invalid("type_id is required")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if _, err := s.store.GetRoomType(ctx, in.TypeID); err != nil {
		return nil, storeErr("create room", "room type", err)
	}
	room := models.Room{RoomNumber: number, TypeID: in.TypeID, Status: models.RoomAvailable}
	if err := s.store.CreateRoom(ctx, &room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Printf("❌ Duplicate Room Number: %s", number)
			return nil, conflict("Room Number '%s' already exists.", number)
		}
		return nil, storeErr("create room", "room", err)
	}
	return &room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, storeErr("load room", "room", err)
	}
	return room, nil
}

// ListRooms returns every room ordered by number. With a date range only
// rooms bookable for the whole range are returned.
func (s *RoomService) ListRooms(ctx context.Context, stay *DateRange) ([]models.Room, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, storeErr("list rooms", "room", err)
	}
	if stay == nil {
		return rooms, nil
	}
	out, err := availableRooms(ctx, s.store, rooms, *stay)
	if err != nil {
		return nil, storeErr("list rooms", "room", err)
	}
	return out, nil
}

// UpdateStatus is the housekeeping override; it does not consult reservations.
func (s *RoomService) UpdateStatus(ctx context.Context, id uint, status models.RoomStatus) (*models.Room, error) {
	if status == "" {
		return nil, invalid("status is required")
	}
	if !status.Valid() {
		return nil, invalid("status must be one of Available, Occupied, Dirty, Maintenance")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if err := s.store.UpdateRoomStatus(ctx, id, status); err != nil {
		return nil, storeErr("update room status", "room", err)
	}
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, storeErr("update room status", "room", err)
	}
	return room, nil
}
