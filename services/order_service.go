package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
)

// Order lifecycle. The status column is free-form in storage; these are
// the conventional values. Anything other than open counts as closed.
const (
	OrderStatusOpen      = "open"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderService owns the order ledger: line items snapshot the catalog
// price when added and the total is recomputed inside the same
// transaction as every mutation, never cached stale.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// Open starts a new order, optionally tied to a customer and a
// reservation.
func (s *OrderService) Open(restaurantID uint, customerID, reservationID *uint) (*models.Order, error) {
	if customerID != nil {
		var customer models.Customer
		err := s.DB.Where("id = ? AND restaurant_id = ?", *customerID, restaurantID).First(&customer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
	}

	if reservationID != nil {
		var reservation models.Reservation
		err := s.DB.Where("id = ? AND restaurant_id = ?", *reservationID, restaurantID).First(&reservation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrReservationNotFound
			}
			return nil, err
		}
	}

	order := models.Order{
		RestaurantID:  restaurantID,
		CustomerID:    customerID,
		ReservationID: reservationID,
		Status:        OrderStatusOpen,
		TotalAmount:   0,
		PlacedAt:      time.Now(),
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// AddLineItem appends a dish to an open order, snapshotting the current
// catalog price. The snapshot and the total update commit together.
func (s *OrderService) AddLineItem(restaurantID, orderID, dishID uint, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	order, err := lockOpenOrder(tx, restaurantID, orderID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	price, err := activeDishPrice(tx, restaurantID, dishID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	item := models.OrderItem{
		OrderID:  order.ID,
		DishID:   dishID,
		Quantity: quantity,
		Price:    price,
	}
	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := recomputeTotal(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveLineItem drops a line item from an open order and recomputes
// the total.
func (s *OrderService) RemoveLineItem(restaurantID, lineItemID uint) error {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var item models.OrderItem
	err := tx.Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.id = ? AND orders.restaurant_id = ?", lineItemID, restaurantID).
		First(&item).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return err
	}

	order, err := lockOpenOrder(tx, restaurantID, item.OrderID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recomputeTotal(tx, order); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Close moves an open order to a terminal status and freezes its line
// items. Closing with zero items is allowed and yields total 0.
func (s *OrderService) Close(restaurantID, orderID uint, finalStatus string) (*models.Order, error) {
	if finalStatus != OrderStatusCompleted && finalStatus != OrderStatusCancelled {
		return nil, ErrInvalidStatus
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	order, err := lockOpenOrder(tx, restaurantID, orderID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := recomputeTotal(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	order.Status = finalStatus
	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns one order with items and tables.
func (s *OrderService) Get(restaurantID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("Items.Dish").Preload("Tables").Preload("Customer").
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOpen returns the orders still accepting line items, oldest first.
func (s *OrderService) ListOpen(restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").Preload("Tables").
		Where("restaurant_id = ? AND status = ?", restaurantID, OrderStatusOpen).
		Order("placed_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// lockOpenOrder loads an order inside the transaction and rejects any
// mutation once it left the open status.
func lockOpenOrder(tx *gorm.DB, restaurantID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Where("id = ? AND restaurant_id = ?", orderID, restaurantID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status != OrderStatusOpen {
		return nil, ErrOrderClosed
	}
	return &order, nil
}

// recomputeTotal derives the total from the committed line items. The
// sum is always exact: quantity times the immutable price snapshot.
func recomputeTotal(tx *gorm.DB, order *models.Order) error {
	var total float64
	err := tx.Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).
		Select("COALESCE(SUM(quantity * price), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}

	order.TotalAmount = total
	return tx.Save(order).Error
}
