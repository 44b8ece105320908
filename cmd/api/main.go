package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/cv-architect/internal/config"
	"alfredoptarigan/cv-architect/internal/handlers"
	"alfredoptarigan/cv-architect/internal/repositories"
	"alfredoptarigan/cv-architect/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	sessions := repositories.NewSessionRepository()
	log.Println("✅ Session store initialized")

	// Initialize services
	pdfParser := services.NewPDFParserService()
	validator, err := services.NewContractValidator()
	if err != nil {
		log.Fatalf("❌ Failed to load response contracts: %v", err)
	}

	var renderer services.Renderer
	var pngRenderer services.PNGRenderer
	if cfg.Renderer.Enabled {
		renderer = services.NewRenderer(cfg.Renderer.Timeout, cfg.Renderer.TailwindURL)
		pngRenderer = renderer
		log.Println("✅ Headless renderer enabled")
	} else {
		log.Println("⚠️  Headless renderer disabled: export unavailable, rating needs a client image")
	}

	geminiService := services.NewGeminiService(cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Temperature)
	log.Printf("✅ Gemini client ready (model %s)\n", geminiService.Model())

	cvService := services.NewCVService(geminiService, validator, pngRenderer, cfg.Worker.GenerationParallelism)
	log.Println("✅ Services initialized successfully")

	// Initialize worker
	worker := services.NewWorker(
		services.NewJobProcessor(sessions, cvService),
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	// Initialize Handlers
	h := &handlers.Handlers{
		Session:   handlers.NewSessionHandler(sessions),
		Operation: handlers.NewOperationHandler(sessions, worker, renderer != nil),
		Import:    handlers.NewImportHandler(sessions, pdfParser, cfg.Storage.MaxFileSize),
		Edit:      handlers.NewEditHandler(sessions),
		Export:    handlers.NewExportHandler(sessions, renderer),
	}
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "CV Architect API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.IsProduction(),
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	if cfg.IsProduction() && cfg.Server.AllowOrigins == "*" {
		log.Println("⚠️  CORS allows every origin in production; set CORS_ALLOW_ORIGINS")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	h.Register(app.Group("/api/v1"))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Architect API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"PUT /api/v1/sessions/:id/credential",
				"POST /api/v1/sessions/:id/generate",
				"POST /api/v1/sessions/:id/refine",
				"POST /api/v1/sessions/:id/rate",
				"POST /api/v1/sessions/:id/format",
				"POST /api/v1/sessions/:id/import",
				"POST /api/v1/sessions/:id/edit",
				"GET /api/v1/sessions/:id/export",
				"GET /api/v1/themes",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		worker.Stop()
		cancel()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s (%s)\n", addr, cfg.Server.Env)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
