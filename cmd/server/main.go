package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workdiary/backend/internal/config"
	"github.com/workdiary/backend/internal/delivery/http"
	"github.com/workdiary/backend/internal/repository/postgres"
	"github.com/workdiary/backend/internal/service"
)

func main() {
	// Configuration
	cfg := config.Load()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo service.SheetRepository
	pool, err := connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Running with in-memory sheets only")
		repo = postgres.NewMockRepository()
	} else {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
		pg := postgres.NewPostgresRepository(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Schema error: %v", err)
		}
		repo = pg
	}

	// Dependency Injection: Services
	complianceSvc := service.NewComplianceService(cfg.Location())
	sheetSvc := service.NewSheetService(repo, complianceSvc)
	oversightSvc := service.NewOversightService(repo, complianceSvc, cfg.OversightWorkers)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Work Diary API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, http.NewHandler(complianceSvc, sheetSvc, oversightSvc, repo))

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

// connect opens a pool and pings it; pgxpool.New alone does not dial
func connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
