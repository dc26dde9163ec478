package routes

import (
	"restopos-backend/config"
	"restopos-backend/controllers"
	"restopos-backend/models"
	"restopos-backend/services"
	"restopos-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRouter(orders *services.OrderService, payments *services.PaymentService, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(log))

	orderController := controllers.OrderController{Orders: orders}
	paymentController := controllers.PaymentController{Payments: payments}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/pin-login", controllers.PinLogin)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(), controllers.LicenseRequired())
	{
		tables := api.Group("/tables")
		{
			tables.POST("", controllers.CreateTable)
			tables.GET("", controllers.GetTables)
			tables.GET("/:id", controllers.GetTable)
			tables.PUT("/:id", controllers.UpdateTable)
			tables.PUT("/:id/status", controllers.UpdateTableStatus)
			tables.DELETE("/:id", controllers.DeleteTable)
		}

		categories := api.Group("/categories")
		{
			categories.POST("", controllers.CreateCategory)
			categories.GET("", controllers.GetCategories)
			categories.DELETE("/:id", controllers.DeleteCategory)
		}

		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderController.Create)
			orders.GET("", orderController.List)
			orders.GET("/served", orderController.Served)
			orders.GET("/:id", orderController.Get)
			orders.PUT("/:id/items", orderController.UpdateItems)
			orders.POST("/:id/send", orderController.Send)
			orders.PUT("/:id/items/:itemId/status", orderController.UpdateItemStatus)
			orders.PUT("/:id/status", orderController.UpdateStatus)
			orders.POST("/:id/cancel", orderController.Cancel)
			orders.POST("/:id/payments", paymentController.Record)
			orders.GET("/:id/payments", paymentController.ListForOrder)
		}

		kitchen := api.Group("/kitchen")
		{
			kitchen.GET("/orders", orderController.Kitchen)
			kitchen.GET("/summary", orderController.KitchenSummary)
		}

		bar := api.Group("/bar")
		{
			bar.GET("/orders", orderController.Bar)
			bar.GET("/summary", orderController.BarSummary)
		}

		shifts := api.Group("/shifts")
		{
			shifts.POST("/open", controllers.OpenShift)
			shifts.POST("/close", controllers.CloseShift)
			shifts.POST("/expenses", controllers.AddShiftExpense)
			shifts.GET("/current", controllers.CurrentShift)
		}

		inventory := api.Group("/inventory")
		{
			inventory.POST("", controllers.CreateInventory)
			inventory.GET("", controllers.GetInventory)
			inventory.PUT("/:id", controllers.UpdateInventory)
			inventory.DELETE("/:id", controllers.DeleteInventory)
		}

		recipes := api.Group("/recipes")
		{
			recipes.PUT("/:productId", controllers.SetRecipe)
			recipes.GET("/:productId", controllers.GetRecipe)
		}

		staff := api.Group("/staff", utils.RequireRole(models.RoleOwner, models.RoleAdmin))
		{
			staff.GET("", controllers.GetStaff)
			staff.POST("", controllers.AddStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
		}

		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
