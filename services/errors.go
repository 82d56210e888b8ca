package services

import (
	"errors"
	"fmt"
)

// Validation failures, rejected before any write.
var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidPartySize = errors.New("party size must be at least 1")
	ErrInvalidCapacity  = errors.New("table capacity must be at least 1")
	ErrInvalidTimestamp = errors.New("requested time must not be in the past")
	ErrInvalidStatus    = errors.New("unknown status")
)

// State machine guards.
var (
	ErrOrderClosed       = errors.New("order is no longer open")
	ErrReservationClosed = errors.New("reservation is in a terminal status")
)

// Missing references.
var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrDishNotFound        = errors.New("dish not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrLineItemNotFound    = errors.New("line item not found")
)

var (
	// ErrDishInactive marks a dish that exists but is flagged off the menu.
	ErrDishInactive = errors.New("dish is not active")
	// ErrTableInUse blocks deletion of a table that still backs an
	// active reservation or an open order.
	ErrTableInUse = errors.New("table has active assignments")
)

// TableConflictError reports a table that is already booked for an
// overlapping demand. Exactly one of ReservationID/OrderID is set,
// depending on what holds the table.
type TableConflictError struct {
	TableID       uint
	ReservationID uint
	OrderID       uint
}

func (e *TableConflictError) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("table %d is held by open order %d", e.TableID, e.OrderID)
	}
	return fmt.Sprintf("table %d conflicts with reservation %d", e.TableID, e.ReservationID)
}

// InsufficientCapacityError reports a batch whose summed seat capacity
// cannot hold the reservation's party.
type InsufficientCapacityError struct {
	PartySize int
	Capacity  int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("assigned capacity %d is below party size %d", e.Capacity, e.PartySize)
}

// InvalidTransitionError reports a reservation status edge outside the
// allowed state machine.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition reservation from %s to %s", e.From, e.To)
}
