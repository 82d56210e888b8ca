package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
)

// CatalogService answers price lookups against the menu. The order
// ledger calls it exactly once per line item and stores the result, so
// later menu edits never rewrite history.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ActivePrice returns the current sell price of an active dish in the
// restaurant's catalog.
func (cs *CatalogService) ActivePrice(restaurantID, dishID uint) (float64, error) {
	return activeDishPrice(cs.DB, restaurantID, dishID)
}

// activeDishPrice is the transaction-aware lookup shared with the order
// ledger, so the snapshot is read inside the same unit of work as the
// line-item insert.
func activeDishPrice(tx *gorm.DB, restaurantID, dishID uint) (float64, error) {
	var dish models.Dish
	err := tx.Joins("JOIN menu_categories ON menu_categories.id = dishes.category_id").
		Where("dishes.id = ? AND menu_categories.restaurant_id = ?", dishID, restaurantID).
		First(&dish).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrDishNotFound
		}
		return 0, err
	}

	if !dish.Active {
		return 0, ErrDishInactive
	}

	return dish.SellPrice, nil
}
