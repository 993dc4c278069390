package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legalcase_app_go/config"
	"legalcase_app_go/db"
	"legalcase_app_go/handlers"
	"legalcase_app_go/logging"
	"legalcase_app_go/middleware"
	"legalcase_app_go/models"
	"legalcase_app_go/services"
	"legalcase_app_go/services/docstore"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	logger := logging.New("server")

	// Initialize relational database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Case{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize document store
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	documents, err := docstore.Open(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer documents.Close(context.Background())

	engine, err := services.NewAnalysisEngine(cfg)
	if err != nil {
		log.Fatalf("Failed to create analysis engine: %v", err)
	}
	records := services.NewCaseRecordStore(db.DB)
	coordinator := services.NewCaseCoordinator(records, documents.Cases(), engine)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType, middleware.HeaderUserID},
	}))
	e.Use(middleware.RequestLog())

	// Make config and services available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.InjectServices(coordinator, documents.Research()))

	// Public routes
	e.GET("/health", handlers.HealthHandler(records, documents))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Protected routes (caller identity required)
	api := e.Group("/api")
	api.Use(middleware.RequireUser())
	api.Use(middleware.APIRateLimiter.Middleware())
	{
		// Case routes (ownership checked in handlers)
		api.GET("/cases", handlers.GetCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.POST("/cases/search", handlers.SearchCasesHandler)
		api.GET("/cases/:id", handlers.GetCaseDetailHandler)
		api.PUT("/cases/:id", handlers.UpdateCaseHandler)
		api.DELETE("/cases/:id", handlers.DeleteCaseHandler)
		api.GET("/cases/:id/stats", handlers.GetCaseStatsHandler)
		api.PUT("/cases/:id/tags", handlers.SetTagsHandler)
		api.POST("/cases/:id/documents", handlers.AttachDocumentHandler)
		api.POST("/cases/:id/analyses", handlers.AnalyzeCaseHandler)

		// Research routes (all roles)
		api.GET("/research", handlers.ListResearchHandler)
		api.GET("/research/search", handlers.SearchResearchHandler)
		api.POST("/research/search", handlers.AdvancedSearchResearchHandler)
		api.POST("/research/similar", handlers.SimilarResearchHandler)
		api.GET("/research/stats", handlers.ResearchStatsHandler)
		api.GET("/research/citation", handlers.GetResearchByCitationHandler)
		api.GET("/research/:id", handlers.GetResearchHandler)

		// Admin-only research maintenance
		adminRoutes := api.Group("/research")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.POST("/bulk", handlers.BulkIndexResearchHandler, middleware.BulkIndexRateLimiter.Middleware())
			adminRoutes.DELETE("/:id", handlers.DeleteResearchHandler)
		}
	}

	// Start background cleanup of rate limit windows (runs every 10 minutes)
	stop := make(chan struct{})
	go middleware.APIRateLimiter.Cleanup(10*time.Minute, stop)
	go middleware.BulkIndexRateLimiter.Cleanup(10*time.Minute, stop)

	// Start server
	go func() {
		logger.Info().Str("port", cfg.ServerPort).Str("documents", cfg.DocumentStore).Msg("server starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	close(stop)

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
