package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Options carries the collaborators every service shares. Zero values get
// sensible defaults in normalize.
type Options struct {
	Now       func() time.Time
	Location  *time.Location // hotel time zone, decides what "today" is
	OpTimeout time.Duration  // bound on the store work of one call
	Publisher Publisher
}

func (o Options) normalize() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Publisher == nil {
		o.Publisher = NopPublisher{}
	}
	return o
}

func (o Options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.OpTimeout)
}

// publish is best effort: the change it reports is already committed.
func (o Options) publish(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = o.Now().UTC()
	}
	if err := o.Publisher.Publish(ctx, ev); err != nil {
		log.Printf("⚠️ publish %s for reservation %d failed: %v", ev.Topic, ev.ReservationID, err)
	}
}

const dateLayout = "2006-01-02"

// parseStayDate accepts YYYY-MM-DD or RFC 3339. It returns the instant used
// for night counting and the calendar date (UTC midnight) that is stored.
// Timestamps are placed on the hotel's calendar via loc.
func parseStayDate(field, raw string, loc *time.Location) (instant, date time.Time, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, time.Time{}, invalid("%s is required", field)
	}
	if t, perr := time.Parse(dateLayout, raw); perr == nil {
		return t, t, nil
	}
	t, perr := time.Parse(time.RFC3339, raw)
	if perr != nil {
		return time.Time{}, time.Time{}, invalid("%s must be YYYY-MM-DD or RFC 3339, got %q", field, raw)
	}
	local := t.In(loc)
	return t, time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseDateRange validates a check-in/check-out pair. Equal dates are a
// day-use stay; check-out before check-in is rejected.
func ParseDateRange(checkIn, checkOut string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	ciInstant, ci, err := parseStayDate("check_in_date", checkIn, loc)
	if err != nil {
		return DateRange{}, err
	}
	coInstant, co, err := parseStayDate("check_out_date", checkOut, loc)
	if err != nil {
		return DateRange{}, err
	}
	if coInstant.Before(ciInstant) || co.Before(ci) {
		return DateRange{}, invalid("check_out_date must not be before check_in_date")
	}
	return DateRange{CheckIn: ci, CheckOut: co, checkInAt: ciInstant, checkOutAt: coInstant}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func roomLockKey(roomID uint) string {
	return fmt.Sprintf("booking:room:%d", roomID)
}
