package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesaflow/restaurant-backoffice/services"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

// CustomError carries a controller-level message for failures that
// have no service sentinel, e.g. the category delete guard.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// respondServiceError maps the service error taxonomy onto HTTP codes
// in one place: validation 400, not-found 404, conflicts and state
// guards 409, everything else 500.
func respondServiceError(c *gin.Context, err error) {
	var conflictErr *services.TableConflictError
	var capacityErr *services.InsufficientCapacityError
	var transitionErr *services.InvalidTransitionError

	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidPartySize),
		errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrInvalidTimestamp),
		errors.Is(err, services.ErrInvalidStatus):
		utils.RespondError(c, http.StatusBadRequest, err)

	case errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrDishNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrLineItemNotFound):
		utils.RespondError(c, http.StatusNotFound, err)

	case errors.As(err, &conflictErr),
		errors.As(err, &capacityErr),
		errors.As(err, &transitionErr),
		errors.Is(err, services.ErrTableInUse),
		errors.Is(err, services.ErrOrderClosed),
		errors.Is(err, services.ErrReservationClosed),
		errors.Is(err, services.ErrDishInactive):
		utils.RespondError(c, http.StatusConflict, err)

	default:
		utils.ErrorLogger.Printf("unexpected service error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// currentRestaurantID reads the restaurant scope injected by the auth
// middleware. Every core call is filtered by it.
func currentRestaurantID(c *gin.Context) uint {
	v, exists := c.Get("restaurant_id")
	if !exists {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// parseUintParam reads a numeric path parameter; 0 when malformed,
// which no row ever matches.
func parseUintParam(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id)
}

func currentUserID(c *gin.Context) uint {
	v, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	id, _ := v.(uint)
	return id
}
