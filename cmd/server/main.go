package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/RiskyMH/Forms/internal/config"
	"github.com/RiskyMH/Forms/internal/database"
	"github.com/RiskyMH/Forms/internal/handlers"
	"github.com/RiskyMH/Forms/internal/middleware"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/RiskyMH/Forms/internal/utils"

	_ "github.com/RiskyMH/Forms/docs/api" // Swagger docs
)

// @title Forms API
// @version 1.0.0
// @description Hosted form builder: build forms, share a public link, collect and tally submissions
// @contact.name RiskyMH
// @contact.url https://github.com/RiskyMH/Forms

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	oauth := services.NewGoogleOAuth(cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(middleware.CurrentUser(cfg.JWTSecret))

	// Prometheus metrics
	prometheus := fiberprometheus.New("forms")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Declarative redirects (auth gates + legacy easter egg paths)
	middleware.RegisterRedirects(app)

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg, OAuth: oauth}
	formsHandler := &handlers.FormsHandler{DB: db}
	publicHandler := &handlers.PublicHandler{DB: db}
	pagesHandler := &handlers.PagesHandler{DB: db, Cfg: cfg, OAuth: oauth}

	// Page routes (server-driven views)
	app.Get("/login", pagesHandler.Login)
	app.Get("/dashboard", pagesHandler.Dashboard)
	app.Get("/editor/:id", pagesHandler.Editor)
	app.Get("/editor/:id/responses", pagesHandler.EditorResponses)
	app.Get("/f/:id", publicHandler.ShowForm)
	app.Get("/f/:id/submitted", publicHandler.Submitted)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	api.Get("/oauth/google", authHandler.GoogleCallback)
	api.Post("/logout", authHandler.Logout)

	api.Get("/forms", middleware.RequireUser(), formsHandler.ListForms)
	api.Post("/forms", formsHandler.CreateForm)
	api.Get("/forms/:id", middleware.RequireUser(), formsHandler.GetForm)
	api.Post("/forms/save", formsHandler.SaveForm)
	api.Delete("/forms/:id", formsHandler.DeleteForm)
	api.Post("/forms/:id/fields", formsHandler.CreateField)
	api.Delete("/forms/:id/fields/:fieldId", formsHandler.DeleteField)
	api.Get("/forms/:id/responses", middleware.RequireUser(), formsHandler.GetResponses)

	api.Post("/submit", publicHandler.SubmitForm)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
