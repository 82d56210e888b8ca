package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/config"
	"github.com/mesaflow/restaurant-backoffice/models"
)

// Assignment targets
const (
	TargetReservation = "reservation"
	TargetOrder       = "order"
)

// Assignment is the caller-facing view of a (target, table) pairing,
// regardless of which junction table it lives in.
type Assignment struct {
	TargetKind string `json:"target_kind"`
	TargetID   uint   `json:"target_id"`
	TableID    uint   `json:"table_id"`
}

// AssignmentService binds tables to reservations and open orders and
// guarantees no table is double-booked for overlapping demand. Every
// batch is all-or-nothing: conflict and capacity checks run inside one
// transaction before any pairing is persisted.
type AssignmentService struct {
	DB       *gorm.DB
	Defaults *config.Defaults
}

func NewAssignmentService(db *gorm.DB, defaults *config.Defaults) *AssignmentService {
	return &AssignmentService{DB: db, Defaults: defaults}
}

// AssignTables binds the given tables to the target. Re-assigning an
// already bound table is idempotent and returns the existing pairing.
func (as *AssignmentService) AssignTables(restaurantID uint, kind string, targetID uint, tableIDs []uint) ([]Assignment, error) {
	if len(tableIDs) == 0 {
		return nil, fmt.Errorf("no tables requested")
	}

	switch kind {
	case TargetReservation:
		return as.assignToReservation(restaurantID, targetID, tableIDs)
	case TargetOrder:
		return as.assignToOrder(restaurantID, targetID, tableIDs)
	default:
		return nil, fmt.Errorf("unknown assignment target %q", kind)
	}
}

func (as *AssignmentService) assignToReservation(restaurantID, reservationID uint, tableIDs []uint) ([]Assignment, error) {
	// The holder scan and the insert must not interleave with a
	// concurrent assignment of the same table: at serializable
	// isolation the scan takes range locks, so the competing insert
	// blocks and one of the two transactions fails its conflict check.
	tx := as.DB.Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return nil, tx.Error
	}

	var reservation models.Reservation
	err := tx.Where("id = ? AND restaurant_id = ?", reservationID, restaurantID).First(&reservation).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if IsTerminalReservationStatus(reservation.Status) {
		tx.Rollback()
		return nil, ErrReservationClosed
	}

	duration, err := as.serviceDuration(tx, restaurantID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	tables, err := loadTables(tx, restaurantID, tableIDs)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var existing []models.ReservationTable
	if err := tx.Where("reservation_id = ?", reservation.ID).Find(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	alreadyAssigned := make(map[uint]bool, len(existing))
	for _, pair := range existing {
		alreadyAssigned[pair.TableID] = true
	}

	// Conflict scan first: every requested table must be free of any
	// other live reservation whose window overlaps ours.
	for _, table := range tables {
		if alreadyAssigned[table.ID] {
			continue
		}

		var holders []models.Reservation
		err := tx.Model(&models.Reservation{}).
			Joins("JOIN reservation_tables ON reservation_tables.reservation_id = reservations.id").
			Where("reservation_tables.table_id = ?", table.ID).
			Where("reservations.id <> ?", reservation.ID).
			Where("reservations.status IN ?", []string{ReservationStatusPending, ReservationStatusConfirmed}).
			Find(&holders).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		for _, holder := range holders {
			if windowsOverlap(reservation.RequestedAt, holder.RequestedAt, duration) {
				tx.Rollback()
				return nil, &TableConflictError{TableID: table.ID, ReservationID: holder.ID}
			}
		}
	}

	// Capacity over the whole post-call assignment set, checked before
	// anything is persisted so a failing batch leaves no partial state.
	capacity, err := assignedCapacity(tx, reservation.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, table := range tables {
		if !alreadyAssigned[table.ID] {
			capacity += table.Capacity
		}
	}
	if capacity < reservation.PartySize {
		tx.Rollback()
		return nil, &InsufficientCapacityError{PartySize: reservation.PartySize, Capacity: capacity}
	}

	for _, table := range tables {
		if alreadyAssigned[table.ID] {
			continue
		}
		pair := models.ReservationTable{ReservationID: reservation.ID, TableID: table.ID}
		if err := tx.Create(&pair).Error; err != nil {
			tx.Rollback()
			// The composite primary key is the last-resort guard: a
			// concurrent insert of the same pair surfaces here.
			if isDuplicateKey(err) {
				return as.AssignTables(restaurantID, TargetReservation, reservationID, tableIDs)
			}
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return buildAssignments(TargetReservation, reservation.ID, tableIDs), nil
}

func (as *AssignmentService) assignToOrder(restaurantID, orderID uint, tableIDs []uint) ([]Assignment, error) {
	// Same isolation requirement as the reservation path.
	tx := as.DB.Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return nil, tx.Error
	}

	var order models.Order
	err := tx.Where("id = ? AND restaurant_id = ?", orderID, restaurantID).First(&order).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status != OrderStatusOpen {
		tx.Rollback()
		return nil, ErrOrderClosed
	}

	tables, err := loadTables(tx, restaurantID, tableIDs)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var existing []models.OrderTable
	if err := tx.Where("order_id = ?", order.ID).Find(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	alreadyAssigned := make(map[uint]bool, len(existing))
	for _, pair := range existing {
		alreadyAssigned[pair.TableID] = true
	}

	// A table is occupied for as long as any other open order holds it.
	for _, table := range tables {
		if alreadyAssigned[table.ID] {
			continue
		}

		var holder models.OrderTable
		err := tx.Model(&models.OrderTable{}).
			Joins("JOIN orders ON orders.id = order_tables.order_id").
			Where("order_tables.table_id = ?", table.ID).
			Where("orders.id <> ?", order.ID).
			Where("orders.status = ?", OrderStatusOpen).
			First(&holder).Error
		if err == nil {
			tx.Rollback()
			return nil, &TableConflictError{TableID: table.ID, OrderID: holder.OrderID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, err
		}
	}

	for _, table := range tables {
		if alreadyAssigned[table.ID] {
			continue
		}
		pair := models.OrderTable{OrderID: order.ID, TableID: table.ID}
		if err := tx.Create(&pair).Error; err != nil {
			tx.Rollback()
			if isDuplicateKey(err) {
				return as.AssignTables(restaurantID, TargetOrder, orderID, tableIDs)
			}
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return buildAssignments(TargetOrder, order.ID, tableIDs), nil
}

// Unassign removes one pairing. Removal never conflicts, so no checks
// are needed; removing an absent pairing is a no-op.
func (as *AssignmentService) Unassign(restaurantID uint, kind string, targetID, tableID uint) error {
	switch kind {
	case TargetReservation:
		var reservation models.Reservation
		err := as.DB.Where("id = ? AND restaurant_id = ?", targetID, restaurantID).First(&reservation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		return as.DB.Where("reservation_id = ? AND table_id = ?", targetID, tableID).
			Delete(&models.ReservationTable{}).Error
	case TargetOrder:
		var order models.Order
		err := as.DB.Where("id = ? AND restaurant_id = ?", targetID, restaurantID).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		return as.DB.Where("order_id = ? AND table_id = ?", targetID, tableID).
			Delete(&models.OrderTable{}).Error
	default:
		return fmt.Errorf("unknown assignment target %q", kind)
	}
}

// ListForReservation returns the tables currently bound to a reservation.
func (as *AssignmentService) ListForReservation(restaurantID, reservationID uint) ([]models.Table, error) {
	var tables []models.Table
	err := as.DB.Joins("JOIN reservation_tables ON reservation_tables.table_id = tables.id").
		Where("reservation_tables.reservation_id = ? AND tables.restaurant_id = ?", reservationID, restaurantID).
		Find(&tables).Error
	return tables, err
}

// serviceDuration derives the reservation occupancy window from the
// restaurant's setting, falling back to the configured default.
func (as *AssignmentService) serviceDuration(tx *gorm.DB, restaurantID uint) (time.Duration, error) {
	var restaurant models.Restaurant
	if err := tx.First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRestaurantNotFound
		}
		return 0, err
	}

	minutes := restaurant.ReservationMinutes
	if minutes <= 0 {
		minutes = as.Defaults.Reservation.Minutes
	}
	return time.Duration(minutes) * time.Minute, nil
}

// windowsOverlap reports whether the service windows around two
// requested times intersect. Each window spans the requested time plus
// the service duration on either side.
func windowsOverlap(a, b time.Time, duration time.Duration) bool {
	aStart, aEnd := a.Add(-duration), a.Add(duration)
	bStart, bEnd := b.Add(-duration), b.Add(duration)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func loadTables(tx *gorm.DB, restaurantID uint, tableIDs []uint) ([]models.Table, error) {
	var tables []models.Table
	err := tx.Where("restaurant_id = ? AND id IN ?", restaurantID, tableIDs).Find(&tables).Error
	if err != nil {
		return nil, err
	}

	found := make(map[uint]bool, len(tables))
	for _, table := range tables {
		found[table.ID] = true
	}
	for _, id := range tableIDs {
		if !found[id] {
			return nil, ErrTableNotFound
		}
	}
	return tables, nil
}

func assignedCapacity(tx *gorm.DB, reservationID uint) (int, error) {
	var capacity int64
	err := tx.Model(&models.Table{}).
		Joins("JOIN reservation_tables ON reservation_tables.table_id = tables.id").
		Where("reservation_tables.reservation_id = ?", reservationID).
		Select("COALESCE(SUM(tables.capacity), 0)").
		Scan(&capacity).Error
	return int(capacity), err
}

func buildAssignments(kind string, targetID uint, tableIDs []uint) []Assignment {
	assignments := make([]Assignment, 0, len(tableIDs))
	seen := make(map[uint]bool, len(tableIDs))
	for _, id := range tableIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		assignments = append(assignments, Assignment{TargetKind: kind, TargetID: targetID, TableID: id})
	}
	return assignments
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
