package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/robotics-tickets/internal/api/http"
	"github.com/spec-kit/robotics-tickets/internal/api/http/handlers"
	"github.com/spec-kit/robotics-tickets/internal/config"
	"github.com/spec-kit/robotics-tickets/internal/events"
	"github.com/spec-kit/robotics-tickets/internal/observability"
	"github.com/spec-kit/robotics-tickets/internal/persistence"
	"github.com/spec-kit/robotics-tickets/internal/registry"
	"github.com/spec-kit/robotics-tickets/internal/service"
	"github.com/spec-kit/robotics-tickets/internal/store"
	"github.com/spec-kit/robotics-tickets/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	documentStore := store.NewPostgresStore(pg.PoolHandle(), cfg.Store.Collection)
	ticketRegistry := registry.New()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      documentStore,
		Registry:   ticketRegistry,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	if err := ticketService.Hydrate(ctx); err != nil {
		logger.Fatal("failed to hydrate ticket registry", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	ticketsHandler := handlers.NewTicketsHandler(ticketService, ticketRegistry)
	analyticsHandler := handlers.NewAnalyticsHandler(ticketRegistry, redis, cfg.Store.AnalyticsCacheTTL(), logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Tickets:   ticketsHandler,
		Analytics: analyticsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
