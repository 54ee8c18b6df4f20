package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-catalog-api/internal/handler"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/codec"
	"go-catalog-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Category{}, &model.Material{}, &model.Product{}, &model.ProductMedia{})

	// 3. SKU Codec
	secret := os.Getenv("CRYPTO_SECRET")
	if secret == "" {
		secret = "secret-key"
		log.Println("Warning: CRYPTO_SECRET not set, using insecure default")
	}
	skuCodec, err := codec.New(secret)
	if err != nil {
		log.Fatal("Failed to initialize SKU codec: ", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	mediaRepo := repository.NewMediaRepo(db)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, materialRepo, mediaRepo, db, skuCodec, wsHub)
	statsService := service.NewStatisticsService(productRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	statsHandler := handler.NewStatisticsHandler(statsService)
	refHandler := handler.NewReferenceHandler(categoryRepo, materialRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Product Catalog API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// Product Routes (statistics must be registered before :id)
	api.Get("/products/statistics", statsHandler.GetStatistics)
	api.Get("/products", catalogHandler.GetProducts)
	api.Post("/products", catalogHandler.CreateProduct)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Put("/products/:id", catalogHandler.UpdateProduct)
	api.Delete("/products/:id", catalogHandler.DeleteProduct)
	api.Get("/products/:id/media", catalogHandler.GetMedia)
	api.Post("/products/:id/media", catalogHandler.AddMedia)

	// Reference Routes
	api.Get("/categories", refHandler.GetCategories)
	api.Post("/categories", refHandler.CreateCategory)
	api.Delete("/categories/:id", refHandler.DeleteCategory)
	api.Get("/materials", refHandler.GetMaterials)
	api.Post("/materials", refHandler.CreateMaterial)
	api.Delete("/materials/:id", refHandler.DeleteMaterial)

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

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
