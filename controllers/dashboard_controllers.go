package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
	"github.com/mesaflow/restaurant-backoffice/services"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

// DashboardController aggregates the counters the back-office landing
// page shows.
type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetStats returns table, reservation and order counters for the
// restaurant in scope.
func (dc *DashboardController) GetStats(c *gin.Context) {
	restaurantID := currentRestaurantID(c)

	var tableCount, upcomingReservations, openOrders, customerCount int64

	if err := dc.DB.Model(&models.Table{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&tableCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := dc.DB.Model(&models.Reservation{}).
		Where("restaurant_id = ?", restaurantID).
		Where("status IN ?", []string{services.ReservationStatusPending, services.ReservationStatusConfirmed}).
		Where("requested_at >= ?", time.Now()).
		Count(&upcomingReservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := dc.DB.Model(&models.Order{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, services.OrderStatusOpen).
		Count(&openOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := dc.DB.Model(&models.Customer{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&customerCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Tables currently seated: bound to an open order right now.
	var occupiedTables int64
	if err := dc.DB.Model(&models.OrderTable{}).
		Joins("JOIN orders ON orders.id = order_tables.order_id").
		Where("orders.restaurant_id = ? AND orders.status = ?", restaurantID, services.OrderStatusOpen).
		Distinct("order_tables.table_id").
		Count(&occupiedTables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"tables":                tableCount,
		"occupied_tables":       occupiedTables,
		"upcoming_reservations": upcomingReservations,
		"open_orders":           openOrders,
		"customers":             customerCount,
	})
}
