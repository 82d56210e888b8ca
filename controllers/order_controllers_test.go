package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/controllers"
	"github.com/mesaflow/restaurant-backoffice/models"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

func setupOrderRouter(db *gorm.DB, restaurantID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("restaurant_id", restaurantID)
		c.Next()
	})

	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", orderCtrl.OpenOrder)
	router.POST("/orders/:order_id/items", orderCtrl.AddLineItem)
	router.POST("/orders/:order_id/close", orderCtrl.CloseOrder)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	return router
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) (*models.Restaurant, *models.Dish) {
	t.Helper()

	err := db.AutoMigrate(&models.MenuCategory{}, &models.Dish{})
	require.NoError(t, err)

	owner := models.User{Name: "Owner", Email: "owner2@example.com", Password: "x", Role: "owner"}
	require.NoError(t, db.Create(&owner).Error)

	restaurant := models.Restaurant{OwnerID: owner.ID, Name: "La Mesa", ReservationMinutes: 120}
	require.NoError(t, db.Create(&restaurant).Error)

	category := models.MenuCategory{RestaurantID: restaurant.ID, Name: "Mains"}
	require.NoError(t, db.Create(&category).Error)

	dish := models.Dish{CategoryID: category.ID, Name: "Paella", SellPrice: 12.75, Active: true}
	require.NoError(t, db.Create(&dish).Error)

	return &restaurant, &dish
}

func TestOrderLifecycleEndpoints(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	restaurant, dish := seedOrderFixtures(t, db)
	router := setupOrderRouter(db, restaurant.ID)

	w := postJSON(t, router, "POST", "/orders", gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	orderID := uint(response["data"].(map[string]interface{})["id"].(float64))

	w = postJSON(t, router, "POST", fmt.Sprintf("/orders/%d/items", orderID), gin.H{
		"dish_id":  dish.ID,
		"quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "POST", fmt.Sprintf("/orders/%d/close", orderID), gin.H{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, 25.5, data["total_amount"])

	// A closed order no longer accepts items.
	w = postJSON(t, router, "POST", fmt.Sprintf("/orders/%d/items", orderID), gin.H{
		"dish_id":  dish.ID,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddLineItemInactiveDish(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	restaurant, dish := seedOrderFixtures(t, db)
	router := setupOrderRouter(db, restaurant.ID)

	require.NoError(t, db.Model(dish).Update("active", false).Error)

	w := postJSON(t, router, "POST", "/orders", gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	orderID := uint(response["data"].(map[string]interface{})["id"].(float64))

	w = postJSON(t, router, "POST", fmt.Sprintf("/orders/%d/items", orderID), gin.H{
		"dish_id":  dish.ID,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
