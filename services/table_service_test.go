package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableValidation(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	svc := NewTableService(db)

	_, err := svc.Create(restaurant.ID, "T1", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	table, err := svc.Create(restaurant.ID, "T1", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Capacity)
}

func TestUpdateTableValidation(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	svc := NewTableService(db)

	table := seedTable(t, db, restaurant.ID, "T2", 4)

	_, err := svc.Update(restaurant.ID, table.ID, "T2", -1, nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	updated, err := svc.Update(restaurant.ID, table.ID, "Terrace 2", 6, nil)
	require.NoError(t, err)
	assert.Equal(t, "Terrace 2", updated.Name)
	assert.Equal(t, 6, updated.Capacity)
}

func TestDeleteTableGuardedByOpenOrder(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	svc := NewTableService(db)
	orderSvc := NewOrderService(db)
	assignSvc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "T3", 4)

	order, err := orderSvc.Open(restaurant.ID, nil, nil)
	require.NoError(t, err)
	_, err = assignSvc.AssignTables(restaurant.ID, TargetOrder, order.ID, []uint{table.ID})
	require.NoError(t, err)

	// Bound to an open order: deletion refused.
	err = svc.Delete(restaurant.ID, table.ID)
	assert.ErrorIs(t, err, ErrTableInUse)

	// Unassign first, then deletion goes through.
	require.NoError(t, assignSvc.Unassign(restaurant.ID, TargetOrder, order.ID, table.ID))
	require.NoError(t, svc.Delete(restaurant.ID, table.ID))

	_, err = svc.Get(restaurant.ID, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDeleteTableGuardedByActiveReservation(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0401")
	svc := NewTableService(db)
	assignSvc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "T4", 4)
	reservation := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(24*time.Hour), ReservationStatusConfirmed)

	_, err := assignSvc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{table.ID})
	require.NoError(t, err)

	err = svc.Delete(restaurant.ID, table.ID)
	assert.ErrorIs(t, err, ErrTableInUse)

	// Once the reservation reaches a terminal status the table is free
	// to go, historical pairing included.
	reservationSvc := NewReservationService(db)
	_, err = reservationSvc.Transition(restaurant.ID, reservation.ID, ReservationStatusCompleted)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(restaurant.ID, table.ID))
}

func TestDeleteTableScopedToRestaurant(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	svc := NewTableService(db)

	table := seedTable(t, db, restaurant.ID, "T5", 4)

	err := svc.Delete(restaurant.ID+100, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
}
