package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ferry-admin/internal/api/http"
	"github.com/spec-kit/ferry-admin/internal/api/http/handlers"
	"github.com/spec-kit/ferry-admin/internal/apiclient"
	"github.com/spec-kit/ferry-admin/internal/auth"
	"github.com/spec-kit/ferry-admin/internal/config"
	"github.com/spec-kit/ferry-admin/internal/events"
	"github.com/spec-kit/ferry-admin/internal/observability"
	"github.com/spec-kit/ferry-admin/internal/persistence"
	"github.com/spec-kit/ferry-admin/internal/repository"
	"github.com/spec-kit/ferry-admin/internal/service"
	"github.com/spec-kit/ferry-admin/internal/session"
	"github.com/spec-kit/ferry-admin/internal/validation"
	"github.com/spec-kit/ferry-admin/internal/viewstate"
	"github.com/spec-kit/ferry-admin/internal/worker"
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

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	client := apiclient.New(apiclient.Options{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout(),
		UserAgent: cfg.Backend.UserAgent,
		Logger:    logger,
		Observer:  metrics,
	})

	dispatcher := events.NewInMemoryDispatcher()
	cache := viewstate.New(cfg.Cache.StaleAfter())
	cache.Subscribe(dispatcher)
	worker.StartAuditLog(dispatcher, logger)

	storage, dependencies, closeStorage := openSessionStorage(ctx, cfg, logger)
	defer closeStorage()

	sessions := session.NewManager(session.ManagerDeps{
		Storage:     storage,
		Auth:        repository.NewAuthRepository(client),
		Dispatcher:  dispatcher,
		Logger:      logger,
		InitTimeout: cfg.Backend.Timeout(),
	})
	middleware := auth.NewMiddleware(
		auth.NewCookieTokens(cfg.Session.Secret, cfg.Session.TTL()),
		sessions,
		auth.MiddlewareConfig{
			CookieName:   cfg.Session.CookieName,
			CookieSecure: cfg.Session.CookieSecure,
			ResolveWait:  cfg.Session.ResolveWait(),
		},
		logger,
	)

	deps := handlers.Deps{
		Validator: validation.New(),
		Cache:     cache,
		Publisher: service.NewPublisher(dispatcher, logger),
		Logger:    logger,
	}
	dashboard := service.NewDashboardService(repository.NewDashboardRepository(client), logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitMB << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:       handlers.NewAuthHandler(deps, nil),
		Dashboard:  handlers.NewDashboardHandler(deps, dashboard),
		Profile:    handlers.NewProfileHandler(deps, repository.NewProfileRepository(client)),
		Users:      handlers.NewUsersHandler(deps, repository.NewUserRepository(client)),
		Vessels:    handlers.NewVesselsHandler(deps, repository.NewVesselRepository(client)),
		Routes:     handlers.NewRoutesHandler(deps, repository.NewRouteRepository(client)),
		Bookings:   handlers.NewBookingsHandler(deps, repository.NewBookingRepository(client)),
		Customers:  handlers.NewCustomersHandler(deps, repository.NewCustomerRepository(client)),
		Middleware: middleware,
		Metrics:    metrics,
	})

	sweeper := worker.NewSweeper(sessions, cache, worker.SweeperConfig{
		Schedule: cfg.Session.SweepSchedule,
		MaxIdle:  cfg.Session.IdleEvict(),
	}, metrics, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("failed to start session sweeper", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	sweeper.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

// openSessionStorage connects the configured session driver and returns the
// dependencies the readiness probe should check.
func openSessionStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Storage, map[string]handlers.Pinger, func()) {
	keys := session.Keys{Prefix: cfg.Session.KeyPrefix}
	dependencies := map[string]handlers.Pinger{}
	closeFn := func() {}

	var storage session.Storage
	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		storage = session.NewRedisStorage(redis.Client, keys, cfg.Session.TTL())
		dependencies["redis"] = redis
		closeFn = redis.Close
	case config.SessionDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		storage = session.NewPostgresStorage(pg.Pool, cfg.Session.TTL())
		dependencies["postgres"] = pg
		closeFn = pg.Close
	default:
		storage = session.NewMemoryStorage(keys, cfg.Session.TTL())
	}

	if cfg.Session.EncryptionKey != "" {
		sealed, err := session.NewSealedStorage(storage, cfg.Session.EncryptionKey)
		if err != nil {
			logger.Fatal("invalid session encryption key", zap.Error(err))
		}
		storage = sealed
	}
	return storage, dependencies, closeFn
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
