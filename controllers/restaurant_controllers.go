package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// CreateRestaurant registers the restaurant owned by the logged-in
// user. One restaurant per owner.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Name               string `json:"name" binding:"required"`
		Description        string `json:"description"`
		Address            string `json:"address"`
		Phone              string `json:"phone"`
		BusinessHours      string `json:"business_hours"`
		ReservationMinutes int    `json:"reservation_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.Restaurant
	if err := rc.DB.Where("owner_id = ?", userID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("user already owns a restaurant"))
		return
	}

	restaurant := models.Restaurant{
		OwnerID:            userID,
		Name:               req.Name,
		Description:        req.Description,
		Address:            req.Address,
		Phone:              req.Phone,
		BusinessHours:      req.BusinessHours,
		ReservationMinutes: req.ReservationMinutes,
	}
	if restaurant.ReservationMinutes <= 0 {
		restaurant.ReservationMinutes = 120
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant created: %s (owner=%d)", restaurant.Name, userID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetMyRestaurant returns the restaurant in scope.
func (rc *RestaurantController) GetMyRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, currentRestaurantID(c)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant edits the profile, including the business hours and
// the reservation window used by the assignment engine.
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, currentRestaurantID(c)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name               *string `json:"name"`
		Description        *string `json:"description"`
		Address            *string `json:"address"`
		Phone              *string `json:"phone"`
		BusinessHours      *string `json:"business_hours"`
		ReservationMinutes *int    `json:"reservation_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.BusinessHours != nil {
		restaurant.BusinessHours = *req.BusinessHours
	}
	if req.ReservationMinutes != nil {
		if *req.ReservationMinutes < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("reservation_minutes must be at least 1"))
			return
		}
		restaurant.ReservationMinutes = *req.ReservationMinutes
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}
