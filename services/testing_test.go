package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/config"
	"github.com/mesaflow/restaurant-backoffice/models"
)

var testDBSeq atomic.Int64

// setupTestDB opens an in-memory SQLite with the full schema, matching
// the runtime gorm configuration. Each test gets its own named
// database; cache=shared keeps it visible across pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Customer{},
		&models.Table{},
		&models.MenuCategory{},
		&models.Dish{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTable{},
	)
	require.NoError(t, err)

	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB) *models.Restaurant {
	t.Helper()

	owner := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: "owner"}
	require.NoError(t, db.Create(&owner).Error)

	restaurant := models.Restaurant{
		OwnerID:            owner.ID,
		Name:               "La Mesa",
		ReservationMinutes: 120,
	}
	require.NoError(t, db.Create(&restaurant).Error)
	return &restaurant
}

func seedCustomer(t *testing.T, db *gorm.DB, restaurantID uint, phone string) *models.Customer {
	t.Helper()

	customer := models.Customer{
		RestaurantID: restaurantID,
		Name:         "Ana",
		Phone:        phone,
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func seedTable(t *testing.T, db *gorm.DB, restaurantID uint, name string, capacity int) *models.Table {
	t.Helper()

	table := models.Table{RestaurantID: restaurantID, Name: name, Capacity: capacity}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func seedDish(t *testing.T, db *gorm.DB, restaurantID uint, name string, price float64, active bool) *models.Dish {
	t.Helper()

	category := models.MenuCategory{RestaurantID: restaurantID, Name: name + " category"}
	require.NoError(t, db.Create(&category).Error)

	dish := models.Dish{
		CategoryID: category.ID,
		Name:       name,
		SellPrice:  price,
		Active:     active,
	}
	require.NoError(t, db.Create(&dish).Error)
	return &dish
}

func seedReservation(t *testing.T, db *gorm.DB, restaurantID, customerID uint, partySize int, requestedAt time.Time, status string) *models.Reservation {
	t.Helper()

	reservation := models.Reservation{
		RestaurantID: restaurantID,
		CustomerID:   customerID,
		RequestedAt:  requestedAt,
		PartySize:    partySize,
		Status:       status,
	}
	require.NoError(t, db.Create(&reservation).Error)
	return &reservation
}

func testDefaults(t *testing.T) *config.Defaults {
	t.Helper()

	defaults, err := config.LoadDefaults("does-not-exist.yaml")
	require.NoError(t, err)
	return defaults
}
