package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/services"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{Orders: services.NewOrderService(db)}
}

// OpenOrder starts a new order, optionally linked to a customer and a
// reservation.
func (oc *OrderController) OpenOrder(c *gin.Context) {
	var req struct {
		CustomerID    *uint `json:"customer_id"`
		ReservationID *uint `json:"reservation_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Open(currentRestaurantID(c), req.CustomerID, req.ReservationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d opened", order.ID)
	utils.RespondJSON(c, http.StatusCreated, "Order opened", order)
}

// AddLineItem appends a dish to an open order at its current price.
func (oc *OrderController) AddLineItem(c *gin.Context) {
	var req struct {
		DishID   uint `json:"dish_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := oc.Orders.AddLineItem(currentRestaurantID(c), parseUintParam(c, "order_id"), req.DishID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d: added dish %d x%d at %s",
		item.OrderID, item.DishID, item.Quantity, utils.FormatCurrency(item.Price))
	utils.RespondJSON(c, http.StatusCreated, "Line item added", item)
}

// RemoveLineItem drops a line item from an open order.
func (oc *OrderController) RemoveLineItem(c *gin.Context) {
	itemID := parseUintParam(c, "item_id")
	if err := oc.Orders.RemoveLineItem(currentRestaurantID(c), itemID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Line item removed", gin.H{"id": itemID})
}

// CloseOrder finishes an order with a terminal status.
func (oc *OrderController) CloseOrder(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Close(currentRestaurantID(c), parseUintParam(c, "order_id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d closed as %s (total=%s)",
		order.ID, order.Status, utils.FormatCurrency(order.TotalAmount))
	utils.RespondJSON(c, http.StatusOK, "Order closed", order)
}

// GetOrderByID returns one order with items and tables.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Orders.Get(currentRestaurantID(c), parseUintParam(c, "order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOpenOrders lists the orders still accepting items.
func (oc *OrderController) GetOpenOrders(c *gin.Context) {
	orders, err := oc.Orders.ListOpen(currentRestaurantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open orders", orders)
}
