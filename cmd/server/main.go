package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"darzi-system/config"
	"darzi-system/internal/database"
	"darzi-system/internal/gateway/middleware"
	billing "darzi-system/internal/services/billing/handler"
	catalog "darzi-system/internal/services/catalog/handler"
	orders "darzi-system/internal/services/orders/handler"
	users "darzi-system/internal/services/users/handler"
	"darzi-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	catalogHandler := catalog.NewCatalogHandler(db, redisClient)
	ordersHandler := orders.NewOrdersHandler(db, catalogHandler, cfg)
	billingHandler := billing.NewBillingHandler(db, catalogHandler, cfg)
	usersHandler := users.NewUsersHandler(db, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit("60-M"))

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", usersHandler.Login)
			auth.POST("/register", usersHandler.Register)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.GET("/item-types", catalogHandler.ListItemTypes)
			catalogGroup.GET("/item-types/:id", catalogHandler.GetItemType)
			catalogGroup.GET("/fabrics", catalogHandler.ListFabrics)
			catalogGroup.GET("/fabrics/:id", catalogHandler.GetFabric)
			catalogGroup.GET("/branches", catalogHandler.ListBranches)
			catalogGroup.GET("/shipping-methods", catalogHandler.ShippingMethods)
		}

		ordersGroup := protected.Group("/orders")
		{
			ordersGroup.POST("/estimate", ordersHandler.EstimateOrder)
			ordersGroup.POST("", ordersHandler.CreateOrder)
			ordersGroup.GET("", ordersHandler.ListOrders)
			ordersGroup.GET("/:id", ordersHandler.GetOrder)
			ordersGroup.PUT("/:id", ordersHandler.UpdateOrder)
			ordersGroup.POST("/:id/bill", billingHandler.GenerateBill)
		}

		billsGroup := protected.Group("/bills")
		{
			billsGroup.GET("", billingHandler.ListBills)
			billsGroup.GET("/:id", billingHandler.GetBill)
			billsGroup.PATCH("/:id/status", billingHandler.UpdateBillStatus)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
