package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type CreateReservationInput struct {
	CustomerID uint   `json:"cliente_id" binding:"required"`
	TableID    uint   `json:"mesa_id" binding:"required"`
	Date       string `json:"fecha" binding:"required"`
	Time       string `json:"hora" binding:"required"`
	PartySize  int    `json:"num_personas" binding:"required,min=1"`
}

// UpdateReservationInput -> nil fields are left unchanged.
type UpdateReservationInput struct {
	CustomerID *uint                     `json:"cliente_id"`
	TableID    *uint                     `json:"mesa_id"`
	Date       *string                   `json:"fecha"`
	Time       *string                   `json:"hora"`
	PartySize  *int                      `json:"num_personas"`
	Status     *models.ReservationStatus `json:"estado"`
}

type ReservationFilter struct {
	Date       string
	CustomerID *uint
	Status     models.ReservationStatus
}

type ReservationService struct {
	DB     *gorm.DB
	Events EventPublisher
}

func NewReservationService(db *gorm.DB, events EventPublisher) *ReservationService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ReservationService{DB: db, Events: events}
}

// IsAvailable reports whether no active reservation other than excludeID
// holds the table at date and clock.
func (s *ReservationService) IsAvailable(ctx context.Context, tableID uint, date, clock string, excludeID *uint) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("mesa_id = ? AND fecha = ? AND hora = ?", tableID, date, clock).
		Where("estado NOT IN ?", models.InactiveReservationStatuses)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, Internal(err, "database error: %v", err)
	}
	return count == 0, nil
}

func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if in.CustomerID == 0 || in.TableID == 0 || in.Date == "" || in.Time == "" || in.PartySize == 0 {
		return nil, InvalidArgument("cliente_id, mesa_id, fecha, hora and num_personas are required")
	}
	if in.PartySize < 1 {
		return nil, InvalidArgument("num_personas must be at least 1")
	}
	date, clock, err := normalizeSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var customer models.Customer
	if err := db.First(&customer, in.CustomerID).Error; err != nil {
		return nil, lookupError(err, "customer %d not found", in.CustomerID)
	}
	table, err := s.tableWithCapacity(db, in.TableID, in.PartySize)
	if err != nil {
		return nil, err
	}

	ok, err := s.IsAvailable(ctx, table.ID, date, clock, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, slotTaken(table.ID, date, clock)
	}

	reservation := models.Reservation{
		CustomerID: in.CustomerID,
		TableID:    table.ID,
		Date:       date,
		Time:       clock,
		PartySize:  in.PartySize,
		Status:     models.ReservationPending,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		// Only a free table is flagged; an occupied one stays occupied.
		return tx.Model(&models.Table{}).
			Where("id = ? AND estado = ?", table.ID, models.TableAvailable).
			Update("estado", models.TableReserved).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slotTaken(table.ID, date, clock)
		}
		return nil, txError(err, "failed to create reservation")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"table_id":       table.ID,
		"slot":           date + " " + clock,
	}).Info("Reservation created")
	publish(ctx, s.Events, Event{Type: EventReservationCreated, ID: reservation.ID, Status: string(reservation.Status)})

	return s.Get(ctx, reservation.ID)
}

// Update applies a partial change. Moving the reservation to another table,
// date or hour re-checks capacity and the slot, ignoring the reservation itself.
func (s *ReservationService) Update(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	db := s.DB.WithContext(ctx)

	var r models.Reservation
	if err := db.First(&r, id).Error; err != nil {
		return nil, lookupError(err, "reservation %d not found", id)
	}

	if in.Status != nil && !in.Status.Valid() {
		return nil, InvalidArgument("invalid estado %q, valid values: pendiente, confirmada, cancelada, completada", *in.Status)
	}
	if in.PartySize != nil && *in.PartySize < 1 {
		return nil, InvalidArgument("num_personas must be at least 1")
	}

	if in.CustomerID != nil && *in.CustomerID != r.CustomerID {
		var customer models.Customer
		if err := db.First(&customer, *in.CustomerID).Error; err != nil {
			return nil, lookupError(err, "customer %d not found", *in.CustomerID)
		}
		r.CustomerID = *in.CustomerID
	}

	date, clock := r.Date, r.Time
	if in.Date != nil {
		d, err := utils.NormalizeDate(*in.Date)
		if err != nil {
			return nil, InvalidArgument("%v", err)
		}
		date = d
	}
	if in.Time != nil {
		c, err := utils.NormalizeClock(*in.Time)
		if err != nil {
			return nil, InvalidArgument("%v", err)
		}
		clock = c
	}

	tableID := r.TableID
	if in.TableID != nil {
		tableID = *in.TableID
	}
	partySize := r.PartySize
	if in.PartySize != nil {
		partySize = *in.PartySize
	}
	status := r.Status
	if in.Status != nil {
		status = *in.Status
	}

	moved := tableID != r.TableID || date != r.Date || clock != r.Time
	if moved || partySize != r.PartySize {
		if _, err := s.tableWithCapacity(db, tableID, partySize); err != nil {
			return nil, err
		}
	}
	reactivated := status.Active() && !r.Status.Active()
	if status.Active() && (moved || reactivated) {
		ok, err := s.IsAvailable(ctx, tableID, date, clock, &r.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, slotTaken(tableID, date, clock)
		}
	}

	r.TableID, r.Date, r.Time, r.PartySize, r.Status = tableID, date, clock, partySize, status
	if err := db.Save(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slotTaken(tableID, date, clock)
		}
		return nil, Internal(err, "failed to update reservation: %v", err)
	}
	return s.Get(ctx, r.ID)
}

// ChangeStatus sets the status without touching the table.
func (s *ReservationService) ChangeStatus(ctx context.Context, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, InvalidArgument("invalid estado %q, valid values: pendiente, confirmada, cancelada, completada", status)
	}

	db := s.DB.WithContext(ctx)
	var r models.Reservation
	if err := db.First(&r, id).Error; err != nil {
		return nil, lookupError(err, "reservation %d not found", id)
	}
	if r.Status == status {
		return s.Get(ctx, id)
	}

	r.Status = status
	if err := db.Save(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slotTaken(r.TableID, r.Date, r.Time)
		}
		return nil, Internal(err, "failed to update reservation status: %v", err)
	}

	publish(ctx, s.Events, Event{Type: EventReservationStatusChanged, ID: r.ID, Status: string(status)})
	return s.Get(ctx, id)
}

func (s *ReservationService) preloaded(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Preload("Customer").Preload("Table")
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.preloaded(ctx).First(&r, id).Error; err != nil {
		return nil, lookupError(err, "reservation %d not found", id)
	}
	return &r, nil
}

func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.preloaded(ctx)
	if f.Date != "" {
		date, err := utils.NormalizeDate(f.Date)
		if err != nil {
			return nil, InvalidArgument("%v", err)
		}
		q = q.Where("fecha = ?", date)
	}
	if f.CustomerID != nil {
		q = q.Where("cliente_id = ?", *f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("estado = ?", f.Status)
	}

	reservations := []models.Reservation{}
	if err := q.Order("fecha ASC").Order("hora ASC").Find(&reservations).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}
	return reservations, nil
}

// ByDate lists the day's reservations that were not cancelled, by hour.
func (s *ReservationService) ByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	d, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, InvalidArgument("%v", err)
	}

	reservations := []models.Reservation{}
	if err := s.preloaded(ctx).
		Where("fecha = ? AND estado <> ?", d, models.ReservationCanceled).
		Order("hora ASC").
		Find(&reservations).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}
	return reservations, nil
}

func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return Internal(res.Error, "failed to delete reservation: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("reservation %d not found", id)
	}
	return nil
}

// AvailableTables returns the tables seating partySize with no active
// reservation at date and clock.
func (s *ReservationService) AvailableTables(ctx context.Context, date, clock string, partySize int) ([]models.Table, error) {
	if partySize < 1 {
		return nil, InvalidArgument("num_personas must be at least 1")
	}
	date, clock, err := normalizeSlot(date, clock)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var candidates []models.Table
	if err := db.Where("capacidad >= ?", partySize).Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}
	if len(candidates) == 0 {
		return nil, NotFound("no tables with capacity for %d people", partySize)
	}

	var taken []uint
	if err := db.Model(&models.Reservation{}).
		Where("fecha = ? AND hora = ? AND estado NOT IN ?", date, clock, models.InactiveReservationStatuses).
		Pluck("mesa_id", &taken).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}
	reserved := make(map[uint]bool, len(taken))
	for _, id := range taken {
		reserved[id] = true
	}

	tables := make([]models.Table, 0, len(candidates))
	for _, t := range candidates {
		if !reserved[t.ID] {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// DeleteTable removes a table unless it still has active reservations from today on.
func (s *ReservationService) DeleteTable(ctx context.Context, id uint, today time.Time) error {
	db := s.DB.WithContext(ctx)

	var table models.Table
	if err := db.First(&table, id).Error; err != nil {
		return lookupError(err, "table %d not found", id)
	}

	var pending int64
	if err := db.Model(&models.Reservation{}).
		Where("mesa_id = ? AND fecha >= ? AND estado NOT IN ?", id, today.UTC().Format(utils.DateLayout), models.InactiveReservationStatuses).
		Count(&pending).Error; err != nil {
		return Internal(err, "database error: %v", err)
	}
	if pending > 0 {
		return Conflict("table %d has pending or confirmed reservations", id)
	}

	if err := db.Delete(&table).Error; err != nil {
		return Internal(err, "failed to delete table: %v", err)
	}
	return nil
}

func (s *ReservationService) tableWithCapacity(db *gorm.DB, tableID uint, partySize int) (*models.Table, error) {
	var table models.Table
	if err := db.First(&table, tableID).Error; err != nil {
		return nil, lookupError(err, "table %d not found", tableID)
	}
	if table.Capacity < partySize {
		return nil, InvalidArgument("table %d seats %d, cannot take %d people", table.ID, table.Capacity, partySize)
	}
	return &table, nil
}

func normalizeSlot(date, clock string) (string, string, error) {
	d, err := utils.NormalizeDate(date)
	if err != nil {
		return "", "", InvalidArgument("%v", err)
	}
	c, err := utils.NormalizeClock(clock)
	if err != nil {
		return "", "", InvalidArgument("%v", err)
	}
	return d, c, nil
}

func slotTaken(tableID uint, date, clock string) *Error {
	return Conflict("table %d is not available on %s at %s", tableID, date, clock)
}
