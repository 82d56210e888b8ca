package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
)

// TableService manages the physical table registry.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

func (ts *TableService) Create(restaurantID uint, name string, capacity int, location *string) (*models.Table, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	table := models.Table{
		RestaurantID: restaurantID,
		Name:         name,
		Capacity:     capacity,
		Location:     location,
	}
	if err := ts.DB.Create(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (ts *TableService) Update(restaurantID, tableID uint, name string, capacity int, location *string) (*models.Table, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	var table models.Table
	err := ts.DB.Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	table.Name = name
	table.Capacity = capacity
	table.Location = location
	if err := ts.DB.Save(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// Delete removes a table unless it still backs an active reservation or
// an open order. Historical pairings to closed bookings go with it.
func (ts *TableService) Delete(restaurantID, tableID uint) error {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var table models.Table
	err := tx.Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		return err
	}

	var activeReservations int64
	err = tx.Model(&models.ReservationTable{}).
		Joins("JOIN reservations ON reservations.id = reservation_tables.reservation_id").
		Where("reservation_tables.table_id = ?", table.ID).
		Where("reservations.status IN ?", []string{ReservationStatusPending, ReservationStatusConfirmed}).
		Count(&activeReservations).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if activeReservations > 0 {
		tx.Rollback()
		return ErrTableInUse
	}

	var openOrders int64
	err = tx.Model(&models.OrderTable{}).
		Joins("JOIN orders ON orders.id = order_tables.order_id").
		Where("order_tables.table_id = ?", table.ID).
		Where("orders.status = ?", OrderStatusOpen).
		Count(&openOrders).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if openOrders > 0 {
		tx.Rollback()
		return ErrTableInUse
	}

	if err := tx.Where("table_id = ?", table.ID).Delete(&models.ReservationTable{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("table_id = ?", table.ID).Delete(&models.OrderTable{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&table).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (ts *TableService) Get(restaurantID, tableID uint) (*models.Table, error) {
	var table models.Table
	err := ts.DB.Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (ts *TableService) List(restaurantID uint) ([]models.Table, error) {
	var tables []models.Table
	err := ts.DB.Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}
