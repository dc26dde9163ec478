package main

import (
	"fmt"
	"log"
	"os"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/routes"
	"restopos-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Business{},
		&models.License{},
		&models.User{},
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderLog{},
		&models.Payment{},
		&models.CashShift{},
		&models.Inventory{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.StockAlert{},
	)

	mq, err := config.ConnectRabbitMQ(logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mq.Close()

	var notifier services.Notifier = services.NopNotifier{}
	if mq != nil {
		notifier = services.NewRabbitNotifier(mq, logger)
	}

	orders := services.NewOrderService(config.DB, notifier, logger)
	payments := services.NewPaymentService(config.DB, orders, notifier, logger)

	alerts := services.NewAlertService(config.DB, notifier, logger)
	scheduler := alerts.StartScheduler()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(orders, payments, logger)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
