package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/services"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{Tables: services.NewTableService(db)}
}

// CreateTable adds a table to the registry.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Capacity int     `json:"capacity" binding:"required"`
		Location *string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Create(currentRestaurantID(c), req.Name, req.Capacity, req.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.Name, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables lists every table.
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(currentRestaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID returns one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, err := tc.Tables.Get(currentRestaurantID(c), parseUintParam(c, "table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable edits name, capacity and location.
func (tc *TableController) UpdateTable(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Capacity int     `json:"capacity" binding:"required"`
		Location *string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Update(currentRestaurantID(c), parseUintParam(c, "table_id"), req.Name, req.Capacity, req.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d updated (capacity=%d)", table.ID, table.Capacity)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table unless it is still in use.
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := parseUintParam(c, "table_id")
	if err := tc.Tables.Delete(currentRestaurantID(c), tableID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", tableID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": tableID})
}
