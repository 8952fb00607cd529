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
	"github.com/joho/godotenv"
	"github.com/localnerve/aptwatch/internal/config"
	"github.com/localnerve/aptwatch/internal/database"
	"github.com/localnerve/aptwatch/internal/feed"
	"github.com/localnerve/aptwatch/internal/handlers"
	"github.com/localnerve/aptwatch/internal/middleware"
	"github.com/localnerve/aptwatch/internal/notify"
	"github.com/localnerve/aptwatch/internal/services"
	"github.com/localnerve/aptwatch/internal/types"
	"github.com/robfig/cron/v3"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

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

	// Notification transport: Telegram when a token is configured,
	// otherwise alerts go to the log
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.TelegramBotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.TelegramBotToken)
	}

	checker := &services.Checker{
		DB:            db,
		Provider:      feed.NewClient(cfg.FeedURL),
		Notifier:      notifier,
		Communities:   cfg.Communities,
		UnitsPerFloor: cfg.UnitsPerFloor,
		BurstLimit:    cfg.NewListingBurstLimit,
	}

	// Startup sync: bring the store current before any check can diff
	// against it, so a cold start never alerts on the whole feed
	log.Printf("Running startup sync for %d communities", len(cfg.Communities))
	if err := checker.SyncAll(); err != nil {
		log.Printf("Startup sync finished with errors: %v", err)
	}

	// Schedule the recurring new-listing check
	scheduler := cron.New()
	every := "@every " + (time.Duration(cfg.CheckIntervalMinutes) * time.Minute).String()
	if _, err := scheduler.AddFunc(every, func() {
		if err := checker.CheckAll(); err != nil {
			log.Printf("Scheduled check finished with errors: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule check: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Printf("Scheduled new-listing check every %d minutes", cfg.CheckIntervalMinutes)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("aptwatch")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	syncHandler := &handlers.SyncHandler{DB: db, Cfg: cfg, Checker: checker}
	filterHandler := &handlers.FilterHandler{DB: db}

	api.Post("/sync", syncHandler.ForceSync)
	api.Post("/check", syncHandler.ForceCheck)
	api.Get("/units/:userId", syncHandler.GetUserUnits)
	api.Get("/health", syncHandler.GetHealth)

	api.Put("/filters/:userId", filterHandler.PutFilters)
	api.Get("/filters/:userId", filterHandler.GetFilters)
	api.Delete("/filters/:userId", filterHandler.DeleteFilters)

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
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
		errorType = "http"
	}

	// Check for domain errors carrying their own status
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
