package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"arsippro/config"
	controller "arsippro/controllers"
	"arsippro/middleware"
	"arsippro/store"
	"arsippro/utils"
)

func SetupAuthRoutes(app *fiber.App) {
	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, repo store.MailRepository) {
	mailController := controller.NewMailController(repo, log.New(os.Stdout, "MAIL: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Archive routes. Anyone signed in may read; mutations need ADMIN.
	mails := api.Group("/mails")
	mails.Get("/", mailController.ListMails)
	mails.Get("/:id", mailController.GetMail)

	admin := mails.Group("", middleware.RequireAdmin())
	admin.Post("/", mailController.CreateMail)
	admin.Put("/:id", mailController.UpdateMail)
	admin.Delete("/:id", mailController.DeleteMail)
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	repo := store.NewMailRepository(db)
	files := utils.NewFileStore(config.AppConfig.UploadDir, config.AppConfig.PublicBaseURL)
	archiveController := controller.NewArchiveController(repo, files, log.New(os.Stdout, "ARCHIVE: ", log.Ldate|log.Ltime|log.Lshortfile))

	// Legacy action protocol: a bare GET answers with a plaintext liveness
	// string, every operation goes through one POST endpoint.
	app.Get("/", archiveController.Liveness)
	app.Post("/", archiveController.Handle)

	// Uploaded attachments, link-shared
	app.Static("/files", config.AppConfig.UploadDir)

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, repo)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	log.Println("Routes initialized successfully")
}
