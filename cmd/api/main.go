package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-policy-service/internal/api/http"
	"github.com/spec-kit/staff-policy-service/internal/api/http/handlers"
	"github.com/spec-kit/staff-policy-service/internal/auth"
	"github.com/spec-kit/staff-policy-service/internal/config"
	"github.com/spec-kit/staff-policy-service/internal/events"
	"github.com/spec-kit/staff-policy-service/internal/observability"
	"github.com/spec-kit/staff-policy-service/internal/persistence"
	"github.com/spec-kit/staff-policy-service/internal/repository"
	"github.com/spec-kit/staff-policy-service/internal/service"
	"github.com/spec-kit/staff-policy-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	policyRepo := repository.NewPolicyRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)

	authService, err := service.NewAuthService(*cfg)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	policyService := service.NewPolicyService(service.PolicyDependencies{
		Repo:        policyRepo,
		Dispatcher:  dispatcher,
		Cache:       redis,
		Credentials: authService,
		Metrics:     metrics,
	})
	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:  staffRepo,
		Policies:   policyService,
		Dispatcher: dispatcher,
	})

	backupWorker := worker.NewBackupWorker(cfg.Backup, policyService, logger)
	if err := backupWorker.Start(); err != nil {
		logger.Fatal("failed to start backup worker", zap.Error(err))
	}
	defer backupWorker.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Policies:       handlers.NewPolicyHandler(policyService),
		Admin:          handlers.NewAdminHandler(policyService),
		Staff:          handlers.NewStaffHandler(staffService),
		AuthMiddleware: authMiddleware,
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
