package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/config"
	"github.com/mesaflow/restaurant-backoffice/controllers"
	"github.com/mesaflow/restaurant-backoffice/middlewares"
)

func SetupRouter(db *gorm.DB, defaults *config.Defaults) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Installed before any route is registered so it runs on all of
	// them; gin snapshots each handler chain at registration time.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	customerCtrl := controllers.NewCustomerController(db)
	menuCtrl := controllers.NewMenuController(db)
	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db, defaults)
	assignmentCtrl := controllers.NewAssignmentController(db, defaults)
	orderCtrl := controllers.NewOrderController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	auth := r.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	// Account-level routes: authenticated, but usable before the
	// restaurant profile exists.
	account := r.Group("/account")
	account.Use(middlewares.AuthMiddleware())
	{
		account.GET("/profile", userCtrl.GetProfile)
		account.POST("/logout", userCtrl.Logout)
		account.POST("/restaurant", restaurantCtrl.CreateRestaurant)
	}

	// Everything below runs in the scope of the caller's restaurant.
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(), middlewares.RestaurantScope(db))
	{
		api.GET("/restaurant", restaurantCtrl.GetMyRestaurant)
		api.PATCH("/restaurant", restaurantCtrl.UpdateRestaurant)

		api.GET("/customers", customerCtrl.GetAllCustomers)
		api.POST("/customers", customerCtrl.CreateCustomer)
		api.PATCH("/customers/:customer_id", customerCtrl.UpdateCustomer)

		api.GET("/menu/categories", menuCtrl.GetAllCategories)
		api.POST("/menu/categories", menuCtrl.CreateCategory)
		api.PATCH("/menu/categories/:category_id", menuCtrl.UpdateCategory)
		api.DELETE("/menu/categories/:category_id", menuCtrl.DeleteCategory)
		api.GET("/menu/dishes", menuCtrl.GetAllDishes)
		api.POST("/menu/dishes", menuCtrl.CreateDish)
		api.PATCH("/menu/dishes/:dish_id", menuCtrl.UpdateDish)

		api.GET("/tables", tableCtrl.GetAllTables)
		api.POST("/tables", tableCtrl.CreateTable)
		api.GET("/tables/:table_id", tableCtrl.GetTableByID)
		api.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		api.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		api.GET("/reservations/upcoming", reservationCtrl.ListUpcomingReservations)
		api.POST("/reservations", reservationCtrl.CreateReservation)
		api.GET("/reservations/:reservation_id", reservationCtrl.GetReservation)
		api.PATCH("/reservations/:reservation_id/status", reservationCtrl.TransitionReservation)

		api.POST("/assignments", assignmentCtrl.AssignTables)
		api.DELETE("/assignments", assignmentCtrl.UnassignTable)

		api.GET("/orders/open", orderCtrl.GetOpenOrders)
		api.POST("/orders", orderCtrl.OpenOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		api.POST("/orders/:order_id/items", orderCtrl.AddLineItem)
		api.DELETE("/orders/items/:item_id", orderCtrl.RemoveLineItem)
		api.POST("/orders/:order_id/close", orderCtrl.CloseOrder)

		api.GET("/dashboard/stats", dashboardCtrl.GetStats)
	}

	return r
}
