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

	httptransport "github.com/piiquante/sauce-service/internal/api/http"
	"github.com/piiquante/sauce-service/internal/api/http/handlers"
	"github.com/piiquante/sauce-service/internal/auth"
	"github.com/piiquante/sauce-service/internal/config"
	"github.com/piiquante/sauce-service/internal/events"
	"github.com/piiquante/sauce-service/internal/observability"
	"github.com/piiquante/sauce-service/internal/persistence"
	"github.com/piiquante/sauce-service/internal/ratelimit"
	"github.com/piiquante/sauce-service/internal/repository"
	"github.com/piiquante/sauce-service/internal/service"
	"github.com/piiquante/sauce-service/internal/storage"
	"github.com/piiquante/sauce-service/internal/worker"
	apperrors "github.com/piiquante/sauce-service/pkg/util/errorutil"
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		accountRepo repository.AccountRepository
		sauceRepo   repository.SauceRepository
	)
	if pg.Enabled() {
		accountRepo = repository.NewAccountRepository(pg.PoolHandle())
		sauceRepo = repository.NewSauceRepository(pg.PoolHandle())
	} else {
		accountRepo = repository.NewMemoryAccountRepository()
		sauceRepo = repository.NewMemorySauceRepository()
	}

	var limiter ratelimit.Limiter
	if redis.Available(ctx) {
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow())
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow())
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("invalid bcrypt cost", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}

	images, err := storage.NewImageStore(cfg.Uploads)
	if err != nil {
		logger.Fatal("failed to prepare image storage", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))
	worker.StartImageJanitor(dispatcher, images, logger)

	authService, err := service.NewAuthService(service.AuthDependencies{
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Tokens:      tokens,
		Limiter:     limiter,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	sauceService := service.NewSauceService(sauceRepo, dispatcher, logger)
	ratingService := service.NewRatingService(sauceRepo, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: fallbackErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics, logger),
		Users:          handlers.NewUsersHandler(authService),
		Sauces:         handlers.NewSaucesHandler(sauceService, ratingService, images, logger),
		AuthMiddleware: authMiddleware,
		ImagesDir:      images.Dir(),
		ImagesPath:     images.PublicPath(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// fallbackErrorHandler renders errors raised outside the middleware chain,
// such as an oversized body rejected before routing.
func fallbackErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus >= 500 {
			logger.Error("request failed", zap.Error(domainErr))
		}
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}})
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
