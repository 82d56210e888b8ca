package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/config"
	"github.com/mesaflow/restaurant-backoffice/services"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Assignments  *services.AssignmentService
	Defaults     *config.Defaults
}

func NewReservationController(db *gorm.DB, defaults *config.Defaults) *ReservationController {
	return &ReservationController{
		Reservations: services.NewReservationService(db),
		Assignments:  services.NewAssignmentService(db, defaults),
		Defaults:     defaults,
	}
}

// CreateReservation books a new pending reservation.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		CustomerID  uint      `json:"customer_id" binding:"required"`
		PartySize   int       `json:"party_size" binding:"required"`
		RequestedAt time.Time `json:"requested_at" binding:"required"`
		Notes       *string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Create(currentRestaurantID(c), req.CustomerID, req.PartySize, req.RequestedAt, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %d created (party=%d, at=%s)",
		reservation.ID, reservation.PartySize, reservation.RequestedAt.Format(time.RFC3339))
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// TransitionReservation moves a reservation along its status machine.
func (rc *ReservationController) TransitionReservation(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Transition(currentRestaurantID(c), parseUintParam(c, "reservation_id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %d moved to %s", reservation.ID, reservation.Status)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// GetReservation returns one reservation with customer and tables.
func (rc *ReservationController) GetReservation(c *gin.Context) {
	reservation, err := rc.Reservations.Get(currentRestaurantID(c), parseUintParam(c, "reservation_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// ListUpcomingReservations returns the next reservations, soonest
// first. ?limit= caps the page, defaulting from config.
func (rc *ReservationController) ListUpcomingReservations(c *gin.Context) {
	limit := rc.Defaults.Listing.UpcomingLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reservations, err := rc.Reservations.ListUpcoming(currentRestaurantID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", reservations)
}
