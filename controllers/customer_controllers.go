package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers lists the customer directory, newest first.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	var customers []models.Customer
	err := cc.DB.Where("restaurant_id = ?", currentRestaurantID(c)).
		Order("created_at desc").
		Find(&customers).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// CreateCustomer registers a customer, deduplicating on phone number:
// a repeated phone returns the existing record instead of a new one.
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Name  string  `json:"name" binding:"required"`
		Phone string  `json:"phone" binding:"required"`
		Email *string `json:"email"`
		Notes *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurantID := currentRestaurantID(c)

	var existing models.Customer
	err := cc.DB.Where("restaurant_id = ? AND phone = ?", restaurantID, req.Phone).First(&existing).Error
	if err == nil {
		utils.RespondJSON(c, http.StatusOK, "Customer already registered", existing)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	customer := models.Customer{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Notes:        req.Notes,
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d, phone=%s)", customer.ID, customer.Phone)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

// UpdateCustomer edits contact details and notes.
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")

	var customer models.Customer
	err := cc.DB.Where("id = ? AND restaurant_id = ?", customerID, currentRestaurantID(c)).First(&customer).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		Email *string `json:"email"`
		Notes *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := cc.DB.Save(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}
