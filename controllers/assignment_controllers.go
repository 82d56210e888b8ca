package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/config"
	"github.com/mesaflow/restaurant-backoffice/services"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

// AssignmentController exposes the table binding engine for both
// reservations and open orders.
type AssignmentController struct {
	Assignments *services.AssignmentService
}

func NewAssignmentController(db *gorm.DB, defaults *config.Defaults) *AssignmentController {
	return &AssignmentController{Assignments: services.NewAssignmentService(db, defaults)}
}

// AssignTables binds a batch of tables to a reservation or an order.
// The whole batch succeeds or nothing is persisted.
func (ac *AssignmentController) AssignTables(c *gin.Context) {
	var req struct {
		TargetKind string `json:"target_kind" binding:"required"`
		TargetID   uint   `json:"target_id" binding:"required"`
		TableIDs   []uint `json:"table_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	assignments, err := ac.Assignments.AssignTables(currentRestaurantID(c), req.TargetKind, req.TargetID, req.TableIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Assigned %d table(s) to %s %d", len(assignments), req.TargetKind, req.TargetID)
	utils.RespondJSON(c, http.StatusCreated, "Tables assigned", assignments)
}

// UnassignTable removes one pairing unconditionally.
func (ac *AssignmentController) UnassignTable(c *gin.Context) {
	var req struct {
		TargetKind string `json:"target_kind" binding:"required"`
		TargetID   uint   `json:"target_id" binding:"required"`
		TableID    uint   `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.Assignments.Unassign(currentRestaurantID(c), req.TargetKind, req.TargetID, req.TableID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Unassigned table %d from %s %d", req.TableID, req.TargetKind, req.TargetID)
	utils.RespondJSON(c, http.StatusOK, "Table unassigned", nil)
}
