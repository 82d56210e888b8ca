package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaflow/restaurant-backoffice/models"
)

func TestAssignTablesCapacityScenario(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0201")
	svc := NewAssignmentService(db, testDefaults(t))

	tableA := seedTable(t, db, restaurant.ID, "A1", 4)
	tableB := seedTable(t, db, restaurant.ID, "A2", 4)

	when := time.Now().Add(24 * time.Hour)
	reservation := seedReservation(t, db, restaurant.ID, customer.ID, 6, when, ReservationStatusConfirmed)

	// Party of 6 on two tables of 4: capacity 8 >= 6.
	assignments, err := svc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{tableA.ID, tableB.ID})
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	// A third reservation with an overlapping window cannot take either table.
	other := seedReservation(t, db, restaurant.ID, customer.ID, 2, when.Add(30*time.Minute), ReservationStatusPending)
	_, err = svc.AssignTables(restaurant.ID, TargetReservation, other.ID, []uint{tableA.ID})

	var conflict *TableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, tableA.ID, conflict.TableID)
	assert.Equal(t, reservation.ID, conflict.ReservationID)
}

func TestAssignTablesInsufficientCapacity(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0202")
	svc := NewAssignmentService(db, testDefaults(t))

	small := seedTable(t, db, restaurant.ID, "B1", 2)
	reservation := seedReservation(t, db, restaurant.ID, customer.ID, 6,
		time.Now().Add(24*time.Hour), ReservationStatusPending)

	_, err := svc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{small.ID})

	var capacityErr *InsufficientCapacityError
	require.ErrorAs(t, err, &capacityErr)
	assert.Equal(t, 6, capacityErr.PartySize)
	assert.Equal(t, 2, capacityErr.Capacity)

	// Nothing from the failed batch may be persisted.
	tables, listErr := svc.ListForReservation(restaurant.ID, reservation.ID)
	require.NoError(t, listErr)
	assert.Empty(t, tables)
}

func TestAssignTablesBatchIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0203")
	svc := NewAssignmentService(db, testDefaults(t))

	when := time.Now().Add(24 * time.Hour)
	free := seedTable(t, db, restaurant.ID, "C1", 4)
	taken := seedTable(t, db, restaurant.ID, "C2", 4)

	holder := seedReservation(t, db, restaurant.ID, customer.ID, 4, when, ReservationStatusConfirmed)
	_, err := svc.AssignTables(restaurant.ID, TargetReservation, holder.ID, []uint{taken.ID})
	require.NoError(t, err)

	// The batch contains one free and one conflicting table; neither
	// may be assigned.
	wanting := seedReservation(t, db, restaurant.ID, customer.ID, 4, when, ReservationStatusPending)
	_, err = svc.AssignTables(restaurant.ID, TargetReservation, wanting.ID, []uint{free.ID, taken.ID})

	var conflict *TableConflictError
	require.ErrorAs(t, err, &conflict)

	tables, listErr := svc.ListForReservation(restaurant.ID, wanting.ID)
	require.NoError(t, listErr)
	assert.Empty(t, tables)
}

func TestAssignTablesNoConflictOutsideWindow(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0204")
	svc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "D1", 4)
	lunch := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(24*time.Hour), ReservationStatusConfirmed)
	_, err := svc.AssignTables(restaurant.ID, TargetReservation, lunch.ID, []uint{table.ID})
	require.NoError(t, err)

	// Same table, but far enough away that the service windows (120
	// minutes either side) no longer touch.
	dinner := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(30*time.Hour), ReservationStatusPending)
	_, err = svc.AssignTables(restaurant.ID, TargetReservation, dinner.ID, []uint{table.ID})
	assert.NoError(t, err)
}

func TestAssignTablesIgnoresTerminalReservations(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0205")
	svc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "E1", 4)
	when := time.Now().Add(24 * time.Hour)

	cancelled := seedReservation(t, db, restaurant.ID, customer.ID, 2, when, ReservationStatusConfirmed)
	_, err := svc.AssignTables(restaurant.ID, TargetReservation, cancelled.ID, []uint{table.ID})
	require.NoError(t, err)

	reservationSvc := NewReservationService(db)
	_, err = reservationSvc.Transition(restaurant.ID, cancelled.ID, ReservationStatusCancelled)
	require.NoError(t, err)

	// A cancelled booking no longer occupies the table.
	next := seedReservation(t, db, restaurant.ID, customer.ID, 2, when, ReservationStatusPending)
	_, err = svc.AssignTables(restaurant.ID, TargetReservation, next.ID, []uint{table.ID})
	assert.NoError(t, err)
}

func TestAssignTablesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0206")
	svc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "F1", 4)
	reservation := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(24*time.Hour), ReservationStatusPending)

	first, err := svc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{table.ID})
	require.NoError(t, err)

	// Repeating the call returns the existing pairing instead of erroring.
	second, err := svc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{table.ID})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	tables, err := svc.ListForReservation(restaurant.ID, reservation.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestAssignTablesToOrder(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	svc := NewAssignmentService(db, testDefaults(t))
	orderSvc := NewOrderService(db)

	table := seedTable(t, db, restaurant.ID, "G1", 4)

	first, err := orderSvc.Open(restaurant.ID, nil, nil)
	require.NoError(t, err)

	_, err = svc.AssignTables(restaurant.ID, TargetOrder, first.ID, []uint{table.ID})
	require.NoError(t, err)

	// A second open order cannot take the same table.
	second, err := orderSvc.Open(restaurant.ID, nil, nil)
	require.NoError(t, err)

	_, err = svc.AssignTables(restaurant.ID, TargetOrder, second.ID, []uint{table.ID})
	var conflict *TableConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, table.ID, conflict.TableID)
	assert.Equal(t, first.ID, conflict.OrderID)

	// Closing the first order frees the table.
	_, err = orderSvc.Close(restaurant.ID, first.ID, OrderStatusCompleted)
	require.NoError(t, err)

	_, err = svc.AssignTables(restaurant.ID, TargetOrder, second.ID, []uint{table.ID})
	assert.NoError(t, err)
}

func TestAssignTablesToClosedTargets(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0207")
	svc := NewAssignmentService(db, testDefaults(t))
	orderSvc := NewOrderService(db)

	table := seedTable(t, db, restaurant.ID, "H1", 4)

	done := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(24*time.Hour), ReservationStatusCancelled)
	_, err := svc.AssignTables(restaurant.ID, TargetReservation, done.ID, []uint{table.ID})
	assert.ErrorIs(t, err, ErrReservationClosed)

	order, err := orderSvc.Open(restaurant.ID, nil, nil)
	require.NoError(t, err)
	_, err = orderSvc.Close(restaurant.ID, order.ID, OrderStatusCancelled)
	require.NoError(t, err)

	_, err = svc.AssignTables(restaurant.ID, TargetOrder, order.ID, []uint{table.ID})
	assert.ErrorIs(t, err, ErrOrderClosed)
}

func TestUnassignTable(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0208")
	svc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "I1", 4)
	reservation := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(24*time.Hour), ReservationStatusPending)

	_, err := svc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{table.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Unassign(restaurant.ID, TargetReservation, reservation.ID, table.ID))

	tables, err := svc.ListForReservation(restaurant.ID, reservation.ID)
	require.NoError(t, err)
	assert.Empty(t, tables)

	// Removing an absent pairing is a no-op.
	assert.NoError(t, svc.Unassign(restaurant.ID, TargetReservation, reservation.ID, table.ID))
}

func TestAssignTablesUnknownTable(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0209")
	svc := NewAssignmentService(db, testDefaults(t))

	reservation := seedReservation(t, db, restaurant.ID, customer.ID, 2,
		time.Now().Add(24*time.Hour), ReservationStatusPending)

	_, err := svc.AssignTables(restaurant.ID, TargetReservation, reservation.ID, []uint{12345})
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestAssignTablesConcurrentSameTable(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite allows one writer; a single connection makes the race
	// deterministic while still exercising the engine under contention.
	sqlDB.SetMaxOpenConns(1)

	restaurant := seedRestaurant(t, db)
	customer := seedCustomer(t, db, restaurant.ID, "555-0210")
	svc := NewAssignmentService(db, testDefaults(t))

	table := seedTable(t, db, restaurant.ID, "J1", 4)
	when := time.Now().Add(24 * time.Hour)

	const racers = 8
	reservations := make([]*models.Reservation, racers)
	for i := range reservations {
		reservations[i] = seedReservation(t, db, restaurant.ID, customer.ID, 2, when, ReservationStatusConfirmed)
	}

	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AssignTables(restaurant.ID, TargetReservation, reservations[i].ID, []uint{table.ID})
		}(i)
	}
	wg.Wait()

	// Exactly one racer may win the table; every loser gets a typed
	// conflict, never a silent second booking.
	var successes int
	for _, raceErr := range errs {
		if raceErr == nil {
			successes++
			continue
		}
		var conflict *TableConflictError
		require.ErrorAs(t, raceErr, &conflict)
		assert.Equal(t, table.ID, conflict.TableID)
	}
	assert.Equal(t, 1, successes)

	var holders int64
	require.NoError(t, db.Model(&models.ReservationTable{}).
		Where("table_id = ?", table.ID).
		Count(&holders).Error)
	assert.Equal(t, int64(1), holders)
}

func TestWindowsOverlap(t *testing.T) {
	base := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	duration := 2 * time.Hour

	assert.True(t, windowsOverlap(base, base, duration))
	assert.True(t, windowsOverlap(base, base.Add(time.Hour), duration))
	assert.True(t, windowsOverlap(base, base.Add(3*time.Hour+59*time.Minute), duration))
	assert.False(t, windowsOverlap(base, base.Add(4*time.Hour), duration))
	assert.False(t, windowsOverlap(base.Add(-5*time.Hour), base, duration))
}
