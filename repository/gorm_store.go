package repository

import (
	"context"
	"errors"

	"hotel-backoffice/models"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const mysqlDuplicateEntry = 1062

// GormStore implements Store on a *gorm.DB. The handle is injected; inside
// Transaction it is the transaction handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}

// affected turns a zero-row update into ErrNotFound. The DSN sets
// clientFoundRows so unchanged rows still count.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// ----------------------------------------------------
// Room types
// ----------------------------------------------------

func (s *GormStore) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	return translate(s.conn(ctx).Create(rt).Error)
}

func (s *GormStore) GetRoomType(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.conn(ctx).First(&rt, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

func (s *GormStore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.conn(ctx).Order("id ASC").Find(&types).Error
	return types, translate(err)
}

func (s *GormStore) UpdateRoomType(ctx context.Context, id uint, patch RoomTypePatch) error {
	updates := map[string]interface{}{}
	if patch.BasePrice != nil {
		updates["base_price"] = *patch.BasePrice
	}
	if patch.Capacity != nil {
		updates["capacity"] = *patch.Capacity
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if len(updates) == 0 {
		_, err := s.GetRoomType(ctx, id)
		return err
	}
	return affected(s.conn(ctx).Model(&models.RoomType{}).Where("id = ?", id).Updates(updates))
}

func (s *GormStore) DeleteRoomType(ctx context.Context, id uint) error {
	return affected(s.conn(ctx).Delete(&models.RoomType{}, id))
}

func (s *GormStore) CountRoomsByType(ctx context.Context, typeID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Room{}).Where("type_id = ?", typeID).Count(&n).Error
	return n, translate(err)
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := s.conn(ctx).Omit("RoomType").Create(room).Error; err != nil {
		return translate(err)
	}
	return translate(s.conn(ctx).Preload("RoomType").First(room, room.ID).Error)
}

func (s *GormStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.conn(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (s *GormStore) GetRoomForUpdate(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("RoomType").
		First(&room, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.conn(ctx).Preload("RoomType").Order("room_number ASC").Find(&rooms).Error
	return rooms, translate(err)
}

func (s *GormStore) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	return affected(s.conn(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status))
}

// ----------------------------------------------------
// Guests
// ----------------------------------------------------

func (s *GormStore) CreateGuest(ctx context.Context, g *models.Guest) error {
	return translate(s.conn(ctx).Omit("Reservations").Create(g).Error)
}

func (s *GormStore) GetGuest(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	if err := s.conn(ctx).First(&g, id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *GormStore) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	err := s.conn(ctx).Order("id ASC").Find(&guests).Error
	return guests, translate(err)
}

func (s *GormStore) UpdateGuest(ctx context.Context, id uint, patch GuestPatch) error {
	updates := map[string]interface{}{}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if len(updates) == 0 {
		_, err := s.GetGuest(ctx, id)
		return err
	}
	return affected(s.conn(ctx).Model(&models.Guest{}).Where("id = ?", id).Updates(updates))
}

func (s *GormStore) DeleteGuest(ctx context.Context, id uint) error {
	return affected(s.conn(ctx).Delete(&models.Guest{}, id))
}

func (s *GormStore) CountGuests(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Guest{}).Count(&n).Error
	return n, translate(err)
}

// ----------------------------------------------------
// Reservations
// ----------------------------------------------------

func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(r).Error)
}

func (s *GormStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.conn(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) GetReservationDetail(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.conn(ctx).
		Preload("Guest").
		Preload("Room.RoomType").
		Preload("Charges", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date DESC, id DESC") }).
		First(&r, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormStore) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.conn(ctx).Preload("Guest").Preload("Room.RoomType")
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.GuestID != nil {
		q = q.Where("guest_id = ?", *f.GuestID)
	}
	if f.Status != nil {
		q = q.Where("res_status = ?", *f.Status)
	}
	var out []models.Reservation
	err := q.Order("check_in_date DESC, id DESC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) ListBlockingReservations(ctx context.Context, bq BlockingQuery) ([]models.Reservation, error) {
	q := s.conn(ctx).
		Where("res_status IN ?", models.BlockingStatuses).
		Where("check_in_date < ?", bq.Before)
	if bq.RoomID != nil {
		q = q.Where("room_id = ?", *bq.RoomID)
	}
	var out []models.Reservation
	err := q.Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) CountReservationsByGuest(ctx context.Context, guestID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Reservation{}).Where("guest_id = ?", guestID).Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) UpdateReservation(ctx context.Context, id uint, patch ReservationPatch) error {
	updates := map[string]interface{}{}
	if patch.Status != nil {
		updates["res_status"] = *patch.Status
	}
	if patch.Discount != nil {
		updates["discount"] = *patch.Discount
	}
	if len(updates) == 0 {
		_, err := s.GetReservation(ctx, id)
		return err
	}
	return affected(s.conn(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(updates))
}

func (s *GormStore) DeleteReservation(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.ServiceCharge{}, &models.Payment{}, &models.ReservationEvent{}} {
			if err := tx.Where("reservation_id = ?", id).Delete(child).Error; err != nil {
				return translate(err)
			}
		}
		return affected(tx.Delete(&models.Reservation{}, id))
	})
}

func (s *GormStore) AppendEvent(ctx context.Context, ev *models.ReservationEvent) error {
	return translate(s.conn(ctx).Create(ev).Error)
}

func (s *GormStore) ListEvents(ctx context.Context, reservationID uint) ([]models.ReservationEvent, error) {
	var out []models.ReservationEvent
	err := s.conn(ctx).Where("reservation_id = ?", reservationID).Order("id ASC").Find(&out).Error
	return out, translate(err)
}

// ----------------------------------------------------
// Ledger
// ----------------------------------------------------

func (s *GormStore) CreateCharge(ctx context.Context, c *models.ServiceCharge) error {
	return translate(s.conn(ctx).Create(c).Error)
}

func (s *GormStore) ListCharges(ctx context.Context, reservationID uint) ([]models.ServiceCharge, error) {
	var out []models.ServiceCharge
	err := s.conn(ctx).Where("reservation_id = ?", reservationID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(s.conn(ctx).Create(p).Error)
}

func (s *GormStore) ListPayments(ctx context.Context, reservationID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := s.conn(ctx).Where("reservation_id = ?", reservationID).Order("payment_date DESC, id DESC").Find(&out).Error
	return out, translate(err)
}

// ----------------------------------------------------
// Staff
// ----------------------------------------------------

func (s *GormStore) CreateStaff(ctx context.Context, st *models.Staff) error {
	return translate(s.conn(ctx).Create(st).Error)
}

func (s *GormStore) GetStaffByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var st models.Staff
	if err := s.conn(ctx).Where("username = ?", username).First(&st).Error; err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

func (s *GormStore) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	var st models.Staff
	if err := s.conn(ctx).First(&st, id).Error; err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

func (s *GormStore) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Staff{}).Count(&n).Error
	return n, translate(err)
}

// ----------------------------------------------------
// Dashboard
// ----------------------------------------------------

func (s *GormStore) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	db := s.conn(ctx)

	var revenue decimal.NullDecimal
	err := db.Model(&models.Reservation{}).
		Select("SUM(total_amount)").
		Where("res_status = ?", models.StatusCheckedOut).
		Row().Scan(&revenue)
	if err != nil {
		return stats, translate(err)
	}
	stats.TotalRevenue = decimal.Zero
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}

	if err := db.Model(&models.Guest{}).Count(&stats.TotalGuests).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Reservation{}).
		Where("res_status IN ?", models.BlockingStatuses).
		Count(&stats.ActiveBookings).Error; err != nil {
		return stats, translate(err)
	}

	var checkedIn, rooms int64
	if err := db.Model(&models.Reservation{}).Where("res_status = ?", models.StatusCheckedIn).Count(&checkedIn).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Room{}).Where("status <> ?", models.RoomMaintenance).Count(&rooms).Error; err != nil {
		return stats, translate(err)
	}
	stats.OccupancyRate = occupancyRate(checkedIn, rooms)
	return stats, nil
}
