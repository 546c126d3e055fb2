package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ReservationService owns the reservation lifecycle: creation with the
// availability re-check and price snapshot, status changes with their room
// side effects, and deletion of cancelled reservations.
type ReservationService struct {
	store  repository.Store
	locker Locker
	opts   Options

	// StrictTransitions rejects status changes outside the state machine
	// instead of applying and flagging them.
	StrictTransitions bool
	// LockWait bounds how long a booking waits for the room lock.
	LockWait time.Duration
}

func NewReservationService(store repository.Store, locker Locker, opts Options) *ReservationService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &ReservationService{
		store:    store,
		locker:   locker,
		opts:     opts.normalize(),
		LockWait: 5 * time.Second,
	}
}

type CreateReservationInput struct {
	GuestID  uint
	RoomID   uint
	CheckIn  string
	CheckOut string
}

type UpdateReservationInput struct {
	Status   *models.ReservationStatus
	Discount *decimal.Decimal
}

func eventDetails(v map[string]interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// isToday compares a stored calendar date with today's date in the hotel zone.
func (s *ReservationService) isToday(date time.Time) bool {
	return sameDay(date, s.opts.Now().In(s.opts.Location))
}

// ----------------------------------------------------
// Create
// ----------------------------------------------------

func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if in.GuestID == 0 {
		return nil, invalid("guest_id is required")
	}
	if in.RoomID == 0 {
		return nil, invalid("room_id is required")
	}
	stay, err := ParseDateRange(in.CheckIn, in.CheckOut, s.opts.Location)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	lockCtx, lockCancel := context.WithTimeout(ctx, s.LockWait)
	unlock, err := s.locker.Lock(lockCtx, roomLockKey(in.RoomID))
	lockCancel()
	if err != nil {
		return nil, &TransientError{Op: "create reservation", Err: err}
	}
	defer unlock()

	var created models.Reservation
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		room, err := tx.GetRoomForUpdate(ctx, in.RoomID)
		if err != nil {
			return storeErr("create reservation", "room", err)
		}
		if _, err := tx.GetGuest(ctx, in.GuestID); err != nil {
			return storeErr("create reservation", "guest", err)
		}
		if room.RoomType.ID == 0 {
			return &NotFoundError{Entity: "room type"}
		}
		if room.Status == models.RoomMaintenance {
			return conflict("room %s is under maintenance", room.RoomNumber)
		}
		free, err := roomAvailable(ctx, tx, room, stay)
		if err != nil {
			return err
		}
		if !free {
			return conflict("room %s is not available for the requested dates", room.RoomNumber)
		}

		from, to := stay.bounds()
		quote := PriceStay(room.RoomType.BasePrice, from, to)

		status := models.StatusConfirmed
		if s.isToday(stay.CheckIn) {
			status = models.StatusCheckedIn
		}

		res := models.Reservation{
			GuestID:                in.GuestID,
			RoomID:                 room.ID,
			CheckInDate:            stay.CheckIn,
			CheckOutDate:           stay.CheckOut,
			Nights:                 quote.Nights,
			PricePerNightAtBooking: quote.PricePerNight,
			TotalAmount:            quote.Total,
			Discount:               decimal.Zero,
			Status:                 status,
		}
		if err := tx.CreateReservation(ctx, &res); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, &models.ReservationEvent{
			ReservationID: res.ID,
			Kind:          models.EventCreated,
			ToStatus:      status,
			Details: eventDetails(map[string]interface{}{
				"nights":          quote.Nights,
				"price_per_night": quote.PricePerNight,
				"total_amount":    quote.Total,
			}),
		}); err != nil {
			return err
		}
		if status == models.StatusCheckedIn {
			if err := tx.UpdateRoomStatus(ctx, room.ID, models.RoomOccupied); err != nil {
				return err
			}
		}
		created = res
		return nil
	})
	if err != nil {
		log.Printf("❌ ReservationService.Create room=%d guest=%d: %v", in.RoomID, in.GuestID, err)
		return nil, storeErr("create reservation", "reservation", err)
	}

	total := created.TotalAmount
	s.opts.publish(ctx, Event{
		Topic:         TopicReservationCreated,
		ReservationID: created.ID,
		RoomID:        created.RoomID,
		GuestID:       created.GuestID,
		Status:        string(created.Status),
		Amount:        &total,
	})
	return &created, nil
}

// ----------------------------------------------------
// Update (status and/or discount)
// ----------------------------------------------------

func (s *ReservationService) Update(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	if in.Status == nil && in.Discount == nil {
		return nil, invalid("nothing to update: provide res_status and/or discount")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("invalid res_status %q", *in.Status)
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	var (
		before, after *models.Reservation
		flagged       bool
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cur, err := tx.GetReservation(ctx, id)
		if err != nil {
			return storeErr("update reservation", "reservation", err)
		}
		before = cur

		if in.Status != nil && *in.Status != cur.Status {
			from, to := cur.Status, *in.Status
			if !TransitionAllowed(from, to) {
				if s.StrictTransitions {
					return conflict("cannot change reservation from %s to %s", from, to)
				}
				flagged = true
				log.Printf("⚠️ reservation %d: transition %s -> %s is outside the state machine, applying anyway", id, from, to)
			}
			if to.Blocking() && !from.Blocking() {
				room, err := tx.GetRoomForUpdate(ctx, cur.RoomID)
				if err != nil {
					return storeErr("update reservation", "room", err)
				}
				stay := DateRange{CheckIn: cur.CheckInDate, CheckOut: cur.CheckOutDate}
				blocked, err := blockedRooms(ctx, tx, &room.ID, stay)
				if err != nil {
					return err
				}
				if blocked[room.ID] {
					return conflict("room %s is no longer available for these dates", room.RoomNumber)
				}
			}
		}

		if err := tx.UpdateReservation(ctx, id, repository.ReservationPatch{
			Status:   in.Status,
			Discount: in.Discount,
		}); err != nil {
			return err
		}

		if in.Status != nil && *in.Status != cur.Status {
			from, to := cur.Status, *in.Status
			if err := tx.AppendEvent(ctx, &models.ReservationEvent{
				ReservationID: id,
				Kind:          models.EventStatusChanged,
				FromStatus:    from,
				ToStatus:      to,
				Flagged:       flagged,
			}); err != nil {
				return err
			}
			if rs := roomStatusAfter(from, to); rs != "" {
				if err := tx.UpdateRoomStatus(ctx, cur.RoomID, rs); err != nil {
					return err
				}
			}
		}
		if in.Discount != nil {
			if err := tx.AppendEvent(ctx, &models.ReservationEvent{
				ReservationID: id,
				Kind:          models.EventDiscountChanged,
				Details: eventDetails(map[string]interface{}{
					"from": cur.Discount,
					"to":   *in.Discount,
				}),
			}); err != nil {
				return err
			}
		}

		after, err = tx.GetReservation(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr("update reservation", "reservation", err)
	}

	if after.Status != before.Status {
		s.opts.publish(ctx, Event{
			Topic:         TopicReservationStatusChanged,
			ReservationID: id,
			RoomID:        after.RoomID,
			GuestID:       after.GuestID,
			Status:        string(after.Status),
			PreviousState: string(before.Status),
			Flagged:       flagged,
		})
	}
	if in.Discount != nil {
		discount := after.Discount
		s.opts.publish(ctx, Event{
			Topic:         TopicReservationUpdated,
			ReservationID: id,
			Status:        string(after.Status),
			Amount:        &discount,
		})
	}
	return after, nil
}

// ----------------------------------------------------
// Delete (cancelled only)
// ----------------------------------------------------

func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	var deleted *models.Reservation
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cur, err := tx.GetReservation(ctx, id)
		if err != nil {
			return storeErr("delete reservation", "reservation", err)
		}
		if cur.Status != models.StatusCancelled {
			return conflict("only cancelled reservations can be deleted (current status %s)", cur.Status)
		}
		deleted = cur
		return tx.DeleteReservation(ctx, id)
	})
	if err != nil {
		return storeErr("delete reservation", "reservation", err)
	}
	s.opts.publish(ctx, Event{
		Topic:         TopicReservationDeleted,
		ReservationID: id,
		RoomID:        deleted.RoomID,
		GuestID:       deleted.GuestID,
		Status:        string(deleted.Status),
	})
	return nil
}

// ----------------------------------------------------
// Reads
// ----------------------------------------------------

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	r, err := s.store.GetReservationDetail(ctx, id)
	if err != nil {
		return nil, storeErr("load reservation", "reservation", err)
	}
	return r, nil
}

func (s *ReservationService) List(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, invalid("invalid status filter %q", *f.Status)
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	out, err := s.store.ListReservations(ctx, f)
	if err != nil {
		return nil, storeErr("list reservations", "reservation", err)
	}
	return out, nil
}

func (s *ReservationService) History(ctx context.Context, id uint) ([]models.ReservationEvent, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if _, err := s.store.GetReservation(ctx, id); err != nil {
		return nil, storeErr("load reservation history", "reservation", err)
	}
	events, err := s.store.ListEvents(ctx, id)
	if err != nil {
		return nil, storeErr("load reservation history", "reservation", err)
	}
	return events, nil
}

// IsLockBusy reports whether err came from waiting on another booking of
// the same room.
func IsLockBusy(err error) bool {
	return errors.Is(err, ErrLockBusy)
}
