package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
)

// Reservation lifecycle
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
	ReservationStatusNoShow    = "no_show"
)

// reservationTransitions holds the allowed edges of the status machine.
// A pending reservation cannot jump straight to no_show: an unconfirmed
// slot was never guaranteed, so there is nothing to fail to show up for.
var reservationTransitions = map[string][]string{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled, ReservationStatusNoShow},
}

var reservationStatuses = map[string]bool{
	ReservationStatusPending:   true,
	ReservationStatusConfirmed: true,
	ReservationStatusCancelled: true,
	ReservationStatusCompleted: true,
	ReservationStatusNoShow:    true,
}

// IsTerminalReservationStatus reports whether a reservation can no
// longer change or occupy tables.
func IsTerminalReservationStatus(status string) bool {
	switch status {
	case ReservationStatusCancelled, ReservationStatusCompleted, ReservationStatusNoShow:
		return true
	}
	return false
}

func transitionAllowed(from, to string) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReservationService owns the booking ledger.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

// Create books a new pending reservation. The requested time is checked
// against the clock here, at the service boundary, not by the caller.
func (rs *ReservationService) Create(restaurantID, customerID uint, partySize int, requestedAt time.Time, notes *string) (*models.Reservation, error) {
	if partySize < 1 {
		return nil, ErrInvalidPartySize
	}
	if requestedAt.Before(time.Now()) {
		return nil, ErrInvalidTimestamp
	}

	var customer models.Customer
	err := rs.DB.Where("id = ? AND restaurant_id = ?", customerID, restaurantID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	reservation := models.Reservation{
		RestaurantID: restaurantID,
		CustomerID:   customer.ID,
		RequestedAt:  requestedAt,
		PartySize:    partySize,
		Status:       ReservationStatusPending,
		Notes:        notes,
	}

	if err := rs.DB.Create(&reservation).Error; err != nil {
		return nil, err
	}

	reservation.Customer = customer
	return &reservation, nil
}

// Transition moves a reservation along the status machine. A disallowed
// edge fails and leaves the stored status untouched.
func (rs *ReservationService) Transition(restaurantID, reservationID uint, newStatus string) (*models.Reservation, error) {
	if !reservationStatuses[newStatus] {
		return nil, ErrInvalidStatus
	}

	tx := rs.DB.Begin()
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

	if !transitionAllowed(reservation.Status, newStatus) {
		tx.Rollback()
		return nil, &InvalidTransitionError{From: reservation.Status, To: newStatus}
	}

	reservation.Status = newStatus
	if err := tx.Save(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &reservation, nil
}

// Get returns one reservation with its customer and assigned tables.
func (rs *ReservationService) Get(restaurantID, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := rs.DB.Preload("Customer").Preload("Tables").
		Where("id = ? AND restaurant_id = ?", reservationID, restaurantID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// ListUpcoming returns reservations that still demand a table, soonest
// first, which is the ordering the "next reservations" view expects.
func (rs *ReservationService) ListUpcoming(restaurantID uint, limit int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := rs.DB.Preload("Customer").Preload("Tables").
		Where("restaurant_id = ?", restaurantID).
		Where("status IN ?", []string{ReservationStatusPending, ReservationStatusConfirmed}).
		Where("requested_at >= ?", time.Now()).
		Order("requested_at asc").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}
