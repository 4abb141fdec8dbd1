package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/accounts-service/internal/api/http"
	"github.com/spec-kit/accounts-service/internal/api/http/handlers"
	"github.com/spec-kit/accounts-service/internal/auth"
	"github.com/spec-kit/accounts-service/internal/config"
	"github.com/spec-kit/accounts-service/internal/events"
	"github.com/spec-kit/accounts-service/internal/mail"
	"github.com/spec-kit/accounts-service/internal/observability"
	"github.com/spec-kit/accounts-service/internal/persistence"
	"github.com/spec-kit/accounts-service/internal/repository"
	"github.com/spec-kit/accounts-service/internal/service"
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

	userRepo := repository.NewUserRepository(pg.PoolHandle())

	mailer := mail.NewMailer(cfg.Mail, logger)

	dispatcher := events.NewInMemoryDispatcher()
	_ = service.NewNotificationService(dispatcher, logger, cfg.Webhook, mailer)

	authService := service.NewAuthService(cfg.Auth, userRepo, dispatcher, logger)
	userService := service.NewUserService(userRepo, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, cfg.Auth.TokenScheme)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		APIPrefix:      cfg.App.APIPrefix,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, mailer, metrics, redis),
		Users:          handlers.NewUsersHandler(userService),
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
