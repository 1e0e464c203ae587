package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sasaank79/Inventory-Management-System/internal/handler"
	"github.com/Sasaank79/Inventory-Management-System/internal/middleware"
	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"
	"github.com/Sasaank79/Inventory-Management-System/internal/service"
	"github.com/Sasaank79/Inventory-Management-System/internal/ws"
	"github.com/Sasaank79/Inventory-Management-System/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Monetary values serialize as plain JSON numbers with the scale the
	// decimal carries (unit_price columns are decimal(10,2)).
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Supplier{}, &model.Product{}, &model.InventoryTransaction{})

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	txManager := repository.NewTxManager(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)
	userRepo := repository.NewUserRepo(db)

	stockService := service.NewStockService(productRepo, ledgerRepo, txManager, wsHub)
	catalogService := service.NewCatalogService(supplierRepo, productRepo, ledgerRepo, stockService, txManager, wsHub)
	analyticsService := service.NewAnalyticsService(analyticsRepo, ledgerRepo, supplierRepo, productRepo, stockService)
	authService := service.NewAuthService(userRepo)

	productHandler := handler.NewProductHandler(catalogService)
	supplierHandler := handler.NewSupplierHandler(catalogService)
	transactionHandler := handler.NewTransactionHandler(stockService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Seed default admin user
	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin"
	}
	if err := authService.SeedAdmin(adminUsername, adminPassword); err != nil {
		log.Printf("Warning: Failed to seed admin user: %v", err)
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory Management System v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	app.Post("/auth/login", authHandler.Login)

	// All /api routes require authentication
	api := app.Group("/api", middleware.RequireAuth(userRepo))

	// Product Routes
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Patch("/products/:id/toggle-active", productHandler.ToggleActive)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Supplier Routes
	api.Get("/suppliers", supplierHandler.GetSuppliers)
	api.Post("/suppliers", supplierHandler.CreateSupplier)

	// Transaction Routes
	api.Get("/transactions", transactionHandler.GetTransactions)
	api.Post("/transactions", transactionHandler.CreateTransaction)

	// Analytics Routes
	api.Get("/analytics/top-selling", analyticsHandler.TopSelling)
	api.Get("/analytics/low-stock", analyticsHandler.LowStock)
	api.Get("/analytics/stock-value", analyticsHandler.StockValue)
	api.Get("/analytics/recent-products", analyticsHandler.RecentProducts)
	api.Get("/analytics/stock-by-category", analyticsHandler.StockByCategory)
	api.Get("/analytics/products-by-supplier", analyticsHandler.ProductsBySupplier)
	api.Get("/analytics/stock-movement/:productId", analyticsHandler.StockMovement)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
