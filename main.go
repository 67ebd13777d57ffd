package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"arsippro/config"
	"arsippro/middleware"
	"arsippro/routes"
	"arsippro/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "ARSIPPRO: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Start the attachment cleanup worker
	cleanupWorker := worker.NewCleanupWorker(config.DB, config.AppConfig.UploadDir, log.New(os.Stdout, "CLEANUP: ", log.LstdFlags))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB)

	// Start server
	logger.Printf("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
