package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-backoffice/models"

	"github.com/shopspring/decimal"
)

type memData struct {
	roomTypes    map[uint]models.RoomType
	rooms        map[uint]models.Room
	guests       map[uint]models.Guest
	reservations map[uint]models.Reservation
	events       map[uint]models.ReservationEvent
	charges      map[uint]models.ServiceCharge
	payments     map[uint]models.Payment
	staff        map[uint]models.Staff
	nextID       uint
}

func newMemData() memData {
	return memData{
		roomTypes:    map[uint]models.RoomType{},
		rooms:        map[uint]models.Room{},
		guests:       map[uint]models.Guest{},
		reservations: map[uint]models.Reservation{},
		events:       map[uint]models.ReservationEvent{},
		charges:      map[uint]models.ServiceCharge{},
		payments:     map[uint]models.Payment{},
		staff:        map[uint]models.Staff{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d memData) clone() memData {
	return memData{
		roomTypes:    cloneMap(d.roomTypes),
		rooms:        cloneMap(d.rooms),
		guests:       cloneMap(d.guests),
		reservations: cloneMap(d.reservations),
		events:       cloneMap(d.events),
		charges:      cloneMap(d.charges),
		payments:     cloneMap(d.payments),
		staff:        cloneMap(d.staff),
		nextID:       d.nextID,
	}
}

// memCore holds the data and implements every Store method except
// Transaction. Each method takes mu for its own duration only.
type memCore struct {
	mu   sync.Mutex
	data memData
	now  func() time.Time
}

// MemoryStore is a process-local Store for STORE_DRIVER=memory and tests.
// Transactions are serialised on txMu and roll back by restoring a snapshot.
// Writes made outside a transaction take txMu too, so a rollback never
// discards them.
type MemoryStore struct {
	*memCore
	txMu sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{memCore: &memCore{data: newMemData(), now: time.Now}}
}

// memTx is the view handed to a transaction body; it writes to the core
// directly and nested calls join it.
type memTx struct {
	*memCore
}

func (t memTx) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(memTx{s.memCore}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memCore) id() uint {
	s.data.nextID++
	return s.data.nextID
}

func checkCtx(ctx context.Context) error {
	return ctx.Err()
}

// ----------------------------------------------------
// Room types
// ----------------------------------------------------

func (s *memCore) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rt.ID = s.id()
	rt.CreatedAt = s.now()
	s.data.roomTypes[rt.ID] = *rt
	return nil
}

func (s *memCore) GetRoomType(ctx context.Context, id uint) (*models.RoomType, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.data.roomTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (s *memCore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RoomType, 0, len(s.data.roomTypes))
	for _, rt := range s.data.roomTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCore) UpdateRoomType(ctx context.Context, id uint, patch RoomTypePatch) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.data.roomTypes[id]
	if !ok {
		return ErrNotFound
	}
	if patch.BasePrice != nil {
		rt.BasePrice = *patch.BasePrice
	}
	if patch.Capacity != nil {
		rt.Capacity = *patch.Capacity
	}
	if patch.Description != nil {
		rt.Description = *patch.Description
	}
	s.data.roomTypes[id] = rt
	return nil
}

func (s *memCore) DeleteRoomType(ctx context.Context, id uint) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.roomTypes[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.roomTypes, id)
	return nil
}

func (s *memCore) CountRoomsByType(ctx context.Context, typeID uint) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.data.rooms {
		if r.TypeID == typeID {
			n++
		}
	}
	return n, nil
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

// withType must be called with mu held.
func (s *memCore) withType(r models.Room) models.Room {
	r.RoomType = s.data.roomTypes[r.TypeID]
	return r
}

func (s *memCore) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data.rooms {
		if strings.EqualFold(r.RoomNumber, room.RoomNumber) {
			return ErrDuplicate
		}
	}
	now := s.now()
	room.ID = s.id()
	room.CreatedAt, room.UpdatedAt = now, now
	room.RoomType = models.RoomType{}
	s.data.rooms[room.ID] = *room
	*room = s.withType(*room)
	return nil
}

func (s *memCore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	r = s.withType(r)
	return &r, nil
}

// GetRoomForUpdate needs no row lock here: transactions are already serialised.
func (s *memCore) GetRoomForUpdate(ctx context.Context, id uint) (*models.Room, error) {
	return s.GetRoom(ctx, id)
}

func (s *memCore) ListRooms(ctx context.Context) ([]models.Room, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Room, 0, len(s.data.rooms))
	for _, r := range s.data.rooms {
		out = append(out, s.withType(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *memCore) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.rooms[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = s.now()
	s.data.rooms[id] = r
	return nil
}

// ----------------------------------------------------
// Guests
// ----------------------------------------------------

func (s *memCore) CreateGuest(ctx context.Context, g *models.Guest) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	g.ID = s.id()
	g.CreatedAt, g.UpdatedAt = now, now
	g.Reservations = nil
	s.data.guests[g.ID] = *g
	return nil
}

func (s *memCore) GetGuest(ctx context.Context, id uint) (*models.Guest, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.guests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *memCore) ListGuests(ctx context.Context) ([]models.Guest, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Guest, 0, len(s.data.guests))
	for _, g := range s.data.guests {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCore) UpdateGuest(ctx context.Context, id uint, patch GuestPatch) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.guests[id]
	if !ok {
		return ErrNotFound
	}
	if patch.FirstName != nil {
		g.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		g.LastName = *patch.LastName
	}
	if patch.Email != nil {
		g.Email = *patch.Email
	}
	if patch.Phone != nil {
		g.Phone = *patch.Phone
	}
	if patch.Address != nil {
		g.Address = *patch.Address
	}
	g.UpdatedAt = s.now()
	s.data.guests[id] = g
	return nil
}

func (s *memCore) DeleteGuest(ctx context.Context, id uint) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.guests[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.guests, id)
	return nil
}

func (s *memCore) CountGuests(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data.guests)), nil
}

// ----------------------------------------------------
// Reservations
// ----------------------------------------------------

func (s *memCore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	r.ID = s.id()
	r.CreatedAt, r.UpdatedAt = now, now
	r.Guest, r.Room, r.Charges, r.Payments = nil, nil, nil, nil
	s.data.reservations[r.ID] = *r
	return nil
}

func (s *memCore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// withRelations must be called with mu held.
func (s *memCore) withRelations(r models.Reservation) models.Reservation {
	if g, ok := s.data.guests[r.GuestID]; ok {
		r.Guest = &g
	}
	if room, ok := s.data.rooms[r.RoomID]; ok {
		room = s.withType(room)
		r.Room = &room
	}
	return r
}

func (s *memCore) GetReservationDetail(ctx context.Context, id uint) (*models.Reservation, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	r = s.withRelations(r)
	r.Charges = s.chargesFor(id)
	r.Payments = s.paymentsFor(id)
	return &r, nil
}

func (s *memCore) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Reservation{}
	for _, r := range s.data.reservations {
		if f.RoomID != nil && r.RoomID != *f.RoomID {
			continue
		}
		if f.GuestID != nil && r.GuestID != *f.GuestID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, s.withRelations(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckInDate.Equal(out[j].CheckInDate) {
			return out[i].CheckInDate.After(out[j].CheckInDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memCore) ListBlockingReservations(ctx context.Context, q BlockingQuery) ([]models.Reservation, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Reservation{}
	for _, r := range s.data.reservations {
		if q.RoomID != nil && r.RoomID != *q.RoomID {
			continue
		}
		if r.Status.Blocking() && r.CheckInDate.Before(q.Before) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCore) CountReservationsByGuest(ctx context.Context, guestID uint) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.data.reservations {
		if r.GuestID == guestID {
			n++
		}
	}
	return n, nil
}

func (s *memCore) UpdateReservation(ctx context.Context, id uint, patch ReservationPatch) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.Discount != nil {
		r.Discount = *patch.Discount
	}
	r.UpdatedAt = s.now()
	s.data.reservations[id] = r
	return nil
}

func (s *memCore) DeleteReservation(ctx context.Context, id uint) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.reservations, id)
	for k, c := range s.data.charges {
		if c.ReservationID == id {
			delete(s.data.charges, k)
		}
	}
	for k, p := range s.data.payments {
		if p.ReservationID == id {
			delete(s.data.payments, k)
		}
	}
	for k, ev := range s.data.events {
		if ev.ReservationID == id {
			delete(s.data.events, k)
		}
	}
	return nil
}

func (s *memCore) AppendEvent(ctx context.Context, ev *models.ReservationEvent) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = s.id()
	ev.CreatedAt = s.now()
	s.data.events[ev.ID] = *ev
	return nil
}

func (s *memCore) ListEvents(ctx context.Context, reservationID uint) ([]models.ReservationEvent, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ReservationEvent{}
	for _, ev := range s.data.events {
		if ev.ReservationID == reservationID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ----------------------------------------------------
// Ledger
// ----------------------------------------------------

func (s *memCore) CreateCharge(ctx context.Context, c *models.ServiceCharge) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = s.now()
	s.data.charges[c.ID] = *c
	return nil
}

// chargesFor must be called with mu held. Newest first.
func (s *memCore) chargesFor(reservationID uint) []models.ServiceCharge {
	out := []models.ServiceCharge{}
	for _, c := range s.data.charges {
		if c.ReservationID == reservationID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *memCore) ListCharges(ctx context.Context, reservationID uint) ([]models.ServiceCharge, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chargesFor(reservationID), nil
}

func (s *memCore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = s.now()
	}
	s.data.payments[p.ID] = *p
	return nil
}

// paymentsFor must be called with mu held. Newest first.
func (s *memCore) paymentsFor(reservationID uint) []models.Payment {
	out := []models.Payment{}
	for _, p := range s.data.payments {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *memCore) ListPayments(ctx context.Context, reservationID uint) ([]models.Payment, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentsFor(reservationID), nil
}

// ----------------------------------------------------
// Staff
// ----------------------------------------------------

func (s *memCore) CreateStaff(ctx context.Context, st *models.Staff) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.staff {
		if existing.Username == st.Username {
			return ErrDuplicate
		}
	}
	now := s.now()
	st.ID = s.id()
	st.CreatedAt, st.UpdatedAt = now, now
	s.data.staff[st.ID] = *st
	return nil
}

func (s *memCore) GetStaffByUsername(ctx context.Context, username string) (*models.Staff, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.data.staff {
		if st.Username == username {
			return &st, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCore) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

func (s *memCore) CountStaff(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data.staff)), nil
}

// ----------------------------------------------------
// Dashboard
// ----------------------------------------------------

func (s *memCore) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	if err := checkCtx(ctx); err != nil {
		return models.DashboardStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.DashboardStats{
		TotalRevenue: decimal.Zero,
		TotalGuests:  int64(len(s.data.guests)),
	}
	var checkedIn, rooms int64
	for _, r := range s.data.reservations {
		switch r.Status {
		case models.StatusCheckedOut:
			stats.TotalRevenue = stats.TotalRevenue.Add(r.TotalAmount)
		case models.StatusCheckedIn:
			checkedIn++
		}
		if r.Status.Blocking() {
			stats.ActiveBookings++
		}
	}
	for _, room := range s.data.rooms {
		if room.Status != models.RoomMaintenance {
			rooms++
		}
	}
	stats.OccupancyRate = occupancyRate(checkedIn, rooms)
	return stats, nil
}

// ----------------------------------------------------
// Writes outside a transaction wait for any open one
// ----------------------------------------------------

func (s *MemoryStore) serial(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn()
}

func (s *MemoryStore) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	return s.serial(func() error { return s.memCore.CreateRoomType(ctx, rt) })
}

func (s *MemoryStore) UpdateRoomType(ctx context.Context, id uint, patch RoomTypePatch) error {
	return s.serial(func() error { return s.memCore.UpdateRoomType(ctx, id, patch) })
}

func (s *MemoryStore) DeleteRoomType(ctx context.Context, id uint) error {
	return s.serial(func() error { return s.memCore.DeleteRoomType(ctx, id) })
}

func (s *MemoryStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return s.serial(func() error { return s.memCore.CreateRoom(ctx, room) })
}

func (s *MemoryStore) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	return s.serial(func() error { return s.memCore.UpdateRoomStatus(ctx, id, status) })
}

func (s *MemoryStore) CreateGuest(ctx context.Context, g *models.Guest) error {
	return s.serial(func() error { return s.memCore.CreateGuest(ctx, g) })
}

func (s *MemoryStore) UpdateGuest(ctx context.Context, id uint, patch GuestPatch) error {
	return s.serial(func() error { return s.memCore.UpdateGuest(ctx, id, patch) })
}

func (s *MemoryStore) DeleteGuest(ctx context.Context, id uint) error {
	return s.serial(func() error { return s.memCore.DeleteGuest(ctx, id) })
}

func (s *MemoryStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return s.serial(func() error { return s.memCore.CreateReservation(ctx, r) })
}

func (s *MemoryStore) UpdateReservation(ctx context.Context, id uint, patch ReservationPatch) error {
	return s.serial(func() error { return s.memCore.UpdateReservation(ctx, id, patch) })
}

func (s *MemoryStore) DeleteReservation(ctx context.Context, id uint) error {
	return s.serial(func() error { return s.memCore.DeleteReservation(ctx, id) })
}

func (s *MemoryStore) AppendEvent(ctx context.Context, ev *models.ReservationEvent) error {
	return s.serial(func() error { return s.memCore.AppendEvent(ctx, ev) })
}

func (s *MemoryStore) CreateCharge(ctx context.Context, c *models.ServiceCharge) error {
	return s.serial(func() error { return s.memCore.CreateCharge(ctx, c) })
}

func (s *MemoryStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	return s.serial(func() error { return s.memCore.CreatePayment(ctx, p) })
}

func (s *MemoryStore) CreateStaff(ctx context.Context, st *models.Staff) error {
	return s.serial(func() error { return s.memCore.CreateStaff(ctx, st) })
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
