package services

import (
	"context"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
)

const day = 24 * time.Hour

// DateRange is a half-open stay [CheckIn, CheckOut) on calendar dates.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time

	// exact instants when parsed from timestamps; used for night counting
	checkInAt, checkOutAt time.Time
}

// bounds returns the instants to price the stay over.
func (r DateRange) bounds() (time.Time, time.Time) {
	if r.checkInAt.IsZero() || r.checkOutAt.IsZero() {
		return r.CheckIn, r.CheckOut
	}
	return r.checkInAt, r.checkOutAt
}

// effectiveEnd widens a zero-length (day-use) stay to one full day.
func effectiveEnd(start, end time.Time) time.Time {
	if start.Equal(end) {
		return end.Add(day)
	}
	return end
}

// Overlaps reports whether an existing stay blocks the candidate range.
// Back-to-back stays (one ends the day the other starts) do not overlap.
func Overlaps(existing, candidate DateRange) bool {
	candEnd := effectiveEnd(candidate.CheckIn, candidate.CheckOut)
	return existing.CheckIn.Before(candEnd) &&
		effectiveEnd(existing.CheckIn, existing.CheckOut).After(candidate.CheckIn)
}

// blockedRooms returns the ids of rooms holding a blocking reservation that
// overlaps want. roomID narrows the lookup to a single room.
func blockedRooms(ctx context.Context, store repository.Store, roomID *uint, want DateRange) (map[uint]bool, error) {
	candidates, err := store.ListBlockingReservations(ctx, repository.BlockingQuery{
		RoomID: roomID,
		Before: effectiveEnd(want.CheckIn, want.CheckOut),
	})
	if err != nil {
		return nil, err
	}
	blocked := map[uint]bool{}
	for _, r := range candidates {
		if !r.Status.Blocking() {
			continue
		}
		if Overlaps(DateRange{CheckIn: r.CheckInDate, CheckOut: r.CheckOutDate}, want) {
			blocked[r.RoomID] = true
		}
	}
	return blocked, nil
}

// roomAvailable is the single-room form of the availability rule.
func roomAvailable(ctx context.Context, store repository.Store, room *models.Room, want DateRange) (bool, error) {
	if room.Status == models.RoomMaintenance {
		return false, nil
	}
	id := room.ID
	blocked, err := blockedRooms(ctx, store, &id, want)
	if err != nil {
		return false, err
	}
	return !blocked[room.ID], nil
}

// availableRooms filters rooms down to those bookable over want.
func availableRooms(ctx context.Context, store repository.Store, rooms []models.Room, want DateRange) ([]models.Room, error) {
	blocked, err := blockedRooms(ctx, store, nil, want)
	if err != nil {
		return nil, err
	}
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Status == models.RoomMaintenance || blocked[room.ID] {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}
