package main

import (
	"context"
	"fmt"
	"os"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stockbook/internal/caching"
	"stockbook/internal/config"
	"stockbook/internal/handlers"
	"stockbook/internal/jobs"
	"stockbook/internal/jobs/background"
	"stockbook/internal/middleware"
	"stockbook/internal/repositories"
	"stockbook/internal/services"
	"stockbook/pkg/database"
)

const version = "1.0.0"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	storageSvc, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	materialRepo := repositories.NewMaterialRepo(pool)
	inventoryRepo := repositories.NewInventoryRepo(pool)
	salesRepo := repositories.NewSalesRepo(pool)
	txManager := repositories.NewTxManager(pool)

	// Services
	materialSvc := services.NewMaterialService(materialRepo, cacheSvc)
	inventorySvc := services.NewInventoryService(materialRepo, inventoryRepo, txManager, cacheSvc)
	salesSvc := services.NewSalesService(salesRepo, inventoryRepo, txManager, cacheSvc)

	// Background jobs
	lowStockSvc := jobs.NewLowStockService(inventoryRepo, materialRepo, cfg.LowStockThreshold)
	ledgerExporter := jobs.NewLedgerExporter(inventoryRepo, storageSvc, cfg.ExportBucket)

	scheduler, err := background.NewJobScheduler(lowStockSvc, ledgerExporter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("job scheduler shutdown failed")
		}
	}()

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)
	materialHandlers := handlers.NewMaterialHandlers(materialSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc)
	salesHandlers := handlers.NewSalesHandlers(salesSvc)

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Protected routes
	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(middleware.JWTConfig(cfg.JWTSecret)))

	// Material catalog
	v1.GET("/materials", materialHandlers.ListMaterials)
	v1.POST("/materials", materialHandlers.CreateMaterial)
	v1.GET("/materials/:id", materialHandlers.GetMaterial)
	v1.PUT("/materials/:id", materialHandlers.UpdateMaterial)
	v1.DELETE("/materials/:id", materialHandlers.DeleteMaterial)

	// Stock operations
	v1.POST("/stock/receive", inventoryHandlers.ReceiveStock)
	v1.POST("/stock/issue", inventoryHandlers.IssueStock)
	v1.POST("/stock/adjust", inventoryHandlers.AdjustStock)

	// Inventory reads
	v1.GET("/inventory", inventoryHandlers.ListInventory)
	v1.GET("/inventory/:materialID", inventoryHandlers.GetInventoryItem)
	v1.GET("/inventory/:materialID/movements", inventoryHandlers.GetMovements)

	// Sales invoices
	v1.GET("/sales-invoices", salesHandlers.ListInvoices)
	v1.POST("/sales-invoices", salesHandlers.CreateInvoice)
	v1.GET("/sales-invoices/:id", salesHandlers.GetInvoice)

	log.Info().Str("version", version).Int("port", cfg.Port).Msg("stockbook server starting")

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
