package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/viralengine/slate/internal/api"
	"github.com/viralengine/slate/internal/cache"
	"github.com/viralengine/slate/internal/config"
	"github.com/viralengine/slate/internal/export"
	"github.com/viralengine/slate/internal/logger"
	"github.com/viralengine/slate/internal/middleware"
	"github.com/viralengine/slate/internal/models"
	"github.com/viralengine/slate/internal/schedule"
	"github.com/viralengine/slate/internal/session"
	"github.com/viralengine/slate/internal/store"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting scheduler...")

	// Snapshot cache, with in-memory fallback when Redis is unreachable
	var snapshots cache.SnapshotCache
	snapshots, err := cache.NewRedisCache(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory snapshot cache")
		snapshots = cache.NewMockCache()
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing snapshot cache")
		}
	}()

	storeClient := store.New(cfg)
	sessionClient := session.New(cfg)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancelBoot()

	// Without a session we hold no data; reload brings items in once the
	// host authenticates.
	owner := ""
	var items []models.ContentItem
	sess, err := sessionClient.Current(bootCtx)
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		log.Warn().Msg("No authenticated session, starting with an empty schedule")
	case err != nil:
		log.Warn().Err(err).Msg("Session lookup failed, starting with an empty schedule")
	default:
		owner = sess.UserID
		items, err = storeClient.FetchAll(bootCtx)
		if err != nil {
			log.Error().Err(err).Msg("Initial fetch failed, trying cached snapshot")
			if cached, ok, cacheErr := snapshots.GetSnapshot(bootCtx, owner); cacheErr == nil && ok {
				items = cached
				log.Info().Int("items", len(items)).Msg("Serving last cached snapshot until the store recovers")
			}
		} else if err := snapshots.SetSnapshot(bootCtx, owner, items, cfg.SnapshotTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache initial snapshot")
		}
	}

	state := schedule.NewState()
	state.Load(items)
	selector := schedule.NewSelector()
	engine := schedule.NewEngine(state, selector, storeClient, snapshots, owner, cfg.WriteTimeout)
	surface := schedule.NewSurface(engine)

	// R2 snapshot export is optional
	var exporter api.SnapshotExporter
	if cfg.ExportEnabled() {
		r2, err := export.NewExporter(bootCtx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize snapshot export, continuing without it")
		} else {
			exporter = r2
		}
	}

	handlers := api.NewHandlers(cfg, state, selector, surface, storeClient, snapshots, exporter, owner)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	api.SetupRoutes(app, handlers, cfg)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Int("items", state.Len()).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Let outstanding detached schedule writes settle before exiting.
	if err := engine.Drain(ctx); err != nil {
		log.Warn().Err(err).Msg("Shutdown with schedule writes still in flight")
	}

	log.Info().Msg("Server exited properly")
}
