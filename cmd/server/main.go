package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tkhonje/payment-provider-engine/internal/config"
	"github.com/tkhonje/payment-provider-engine/internal/database"
	"github.com/tkhonje/payment-provider-engine/internal/handler"
	"github.com/tkhonje/payment-provider-engine/internal/metrics"
	"github.com/tkhonje/payment-provider-engine/internal/middleware"
	"github.com/tkhonje/payment-provider-engine/internal/notify"
	"github.com/tkhonje/payment-provider-engine/internal/repository"
	"github.com/tkhonje/payment-provider-engine/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	m := metrics.New(cfg.MetricsNamespace)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	rotationSvc := setupAPIRoutes(router, pool, m, cfg)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go rotationSvc.RunScheduler(schedulerCtx, cfg.RotationScan)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopScheduler()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, m *metrics.Metrics, cfg *config.Config) *service.RotationService {
	store := repository.NewProviderRepository(pool)
	dispatcher := notify.NewLogDispatcher()
	locks := service.NewLockTable()

	providerSvc := service.NewProviderService(store, m)
	availabilitySvc := service.NewAvailabilityService(store, dispatcher, m, locks)
	rotationSvc := service.NewRotationService(store, dispatcher, m, locks, cfg.RotationParallel)

	providerHandler := handler.NewProviderHandler(providerSvc)
	statusHandler := handler.NewStatusHandler(availabilitySvc)
	rotationHandler := handler.NewRotationHandler(rotationSvc)

	api := router.Group("/api/v1")
	{
		api.POST("/providers", providerHandler.Create)
		api.GET("/providers", providerHandler.List)
		api.GET("/providers/:code", providerHandler.Get)
		api.PATCH("/providers/:code", providerHandler.Update)
		api.POST("/providers/:code/quote", providerHandler.Quote)
		api.POST("/providers/:code/status", statusHandler.Record)
		api.GET("/providers/:code/status/log", statusHandler.Log)
		api.POST("/providers/:code/rotate", rotationHandler.Rotate)
		api.GET("/providers/:code/rotations", rotationHandler.History)
	}

	return rotationSvc
}
