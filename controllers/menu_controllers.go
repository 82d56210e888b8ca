package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/models"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

// MenuController manages the digital menu: categories with a display
// order and the dishes under them.
type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllCategories lists categories in display order with their dishes.
func (mc *MenuController) GetAllCategories(c *gin.Context) {
	var categories []models.MenuCategory
	err := mc.DB.Where("restaurant_id = ?", currentRestaurantID(c)).
		Order("display_order asc").
		Find(&categories).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{
		RestaurantID: currentRestaurantID(c),
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
	}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu category created: %s", category.Name)
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mc *MenuController) UpdateCategory(c *gin.Context) {
	var category models.MenuCategory
	err := mc.DB.Where("id = ? AND restaurant_id = ?", c.Param("category_id"), currentRestaurantID(c)).
		First(&category).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name         *string `json:"name"`
		DisplayOrder *int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := mc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory removes an empty category. Categories with dishes are
// kept so historical line items stay resolvable.
func (mc *MenuController) DeleteCategory(c *gin.Context) {
	var category models.MenuCategory
	err := mc.DB.Where("id = ? AND restaurant_id = ?", c.Param("category_id"), currentRestaurantID(c)).
		First(&category).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var dishCount int64
	if err := mc.DB.Model(&models.Dish{}).Where("category_id = ?", category.ID).Count(&dishCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if dishCount > 0 {
		utils.RespondError(c, http.StatusConflict, &CustomError{"Category still has dishes"})
		return
	}

	if err := mc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"id": category.ID})
}

// GetAllDishes lists dishes, optionally filtered by category or active
// flag (?category_id=, ?active=true).
func (mc *MenuController) GetAllDishes(c *gin.Context) {
	query := mc.DB.Model(&models.Dish{}).
		Joins("JOIN menu_categories ON menu_categories.id = dishes.category_id").
		Where("menu_categories.restaurant_id = ?", currentRestaurantID(c))

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("dishes.category_id = ?", categoryID)
	}
	if c.Query("active") == "true" {
		query = query.Where("dishes.active = ?", true)
	}

	var dishes []models.Dish
	if err := query.Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

func (mc *MenuController) CreateDish(c *gin.Context) {
	var req struct {
		CategoryID     uint    `json:"category_id" binding:"required"`
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		SellPrice      float64 `json:"sell_price" binding:"required"`
		ProductionCost float64 `json:"production_cost"`
		Allergens      string  `json:"allergens"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// The category anchors the dish to the restaurant; reject foreign ones.
	var category models.MenuCategory
	err := mc.DB.Where("id = ? AND restaurant_id = ?", req.CategoryID, currentRestaurantID(c)).
		First(&category).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	dish := models.Dish{
		CategoryID:     category.ID,
		Name:           req.Name,
		Description:    req.Description,
		SellPrice:      req.SellPrice,
		ProductionCost: req.ProductionCost,
		Allergens:      req.Allergens,
		Active:         true,
	}
	if err := mc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Dish created: %s (price=%s)", dish.Name, utils.FormatCurrency(dish.SellPrice))
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish edits a dish, including price changes and the active flag.
// Existing order line items keep their snapshots.
func (mc *MenuController) UpdateDish(c *gin.Context) {
	var dish models.Dish
	err := mc.DB.Joins("JOIN menu_categories ON menu_categories.id = dishes.category_id").
		Where("dishes.id = ? AND menu_categories.restaurant_id = ?", c.Param("dish_id"), currentRestaurantID(c)).
		First(&dish).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		SellPrice      *float64 `json:"sell_price"`
		ProductionCost *float64 `json:"production_cost"`
		Allergens      *string  `json:"allergens"`
		Active         *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.SellPrice != nil {
		dish.SellPrice = *req.SellPrice
	}
	if req.ProductionCost != nil {
		dish.ProductionCost = *req.ProductionCost
	}
	if req.Allergens != nil {
		dish.Allergens = *req.Allergens
	}
	if req.Active != nil {
		dish.Active = *req.Active
	}

	if err := mc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}
