package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
)

// today in the tests is 2024-03-01 (hotel zone UTC).
var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	}
}

type fixture struct {
	store    *repository.MemoryStore
	rooms    *RoomService
	guests   *GuestService
	resv     *ReservationService
	ledger   *LedgerService
	suite    *models.RoomType
	room101  *models.Room
	room102  *models.Room
	guest    *models.Guest
	recorder *recordingPublisher
}

type recordingPublisher struct {
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) topics() []string {
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Topic)
	}
	return out
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	rec := &recordingPublisher{}
	opts := testOptions()
	opts.Publisher = rec

	f := &fixture{
		store:    store,
		rooms:    NewRoomService(store, opts),
		guests:   NewGuestService(store, opts),
		resv:     NewReservationService(store, NewLocalLocker(), opts),
		ledger:   NewLedgerService(store, opts),
		recorder: rec,
	}

	price := decimal.NewFromInt(5500)
	var err error
	if f.suite, err = f.rooms.CreateRoomType(ctx, RoomTypeInput{TypeName: "Suite", BasePrice: &price, Capacity: 2}); err != nil {
		t.Fatalf("create room type: %v", err)
	}
	if f.room101, err = f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: "101", TypeID: f.suite.ID}); err != nil {
		t.Fatalf("create room 101: %v", err)
	}
	if f.room102, err = f.rooms.CreateRoom(ctx, RoomInput{RoomNumber: "102", TypeID: f.suite.ID}); err != nil {
		t.Fatalf("create room 102: %v", err)
	}
	if f.guest, err = f.guests.Create(ctx, GuestInput{FirstName: "Somchai", LastName: "Jaidee", Email: "somchai@example.com"}); err != nil {
		t.Fatalf("create guest: %v", err)
	}
	return f
}

func (f *fixture) book(t *testing.T, roomID uint, in, out string) *models.Reservation {
	t.Helper()
	res, err := f.resv.Create(context.Background(), CreateReservationInput{
		GuestID: f.guest.ID, RoomID: roomID, CheckIn: in, CheckOut: out,
	})
	if err != nil {
		t.Fatalf("book room %d %s..%s: %v", roomID, in, out, err)
	}
	return res
}

func (f *fixture) setStatus(t *testing.T, resID uint, status models.ReservationStatus) *models.Reservation {
	t.Helper()
	res, err := f.resv.Update(context.Background(), resID, UpdateReservationInput{Status: &status})
	if err != nil {
		t.Fatalf("set status %s on %d: %v", status, resID, err)
	}
	return res
}

func (f *fixture) roomStatus(t *testing.T, roomID uint) models.RoomStatus {
	t.Helper()
	room, err := f.store.GetRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("load room %d: %v", roomID, err)
	}
	return room.Status
}

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var target *ValidationError
	if !errors.As(err, &target) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var target *NotFoundError
	if !errors.As(err, &target) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func assertConflict(t *testing.T, err error) {
	t.Helper()
	var target *ConflictError
	if !errors.As(err, &target) {
		t.Fatalf("expected ConflictError, got %T: %v", err, err)
	}
}
