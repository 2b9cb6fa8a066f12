// Package main starts the campusrent API: quotes, escrow and disputes over
// HTTP plus the stale-escrow reminder job.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusrent/internal/config"
	"campusrent/internal/handlers"
	"campusrent/internal/jobs"
	"campusrent/internal/logger"
	"campusrent/internal/repositories"
	"campusrent/internal/repositories/cache"
	"campusrent/internal/routes"
	"campusrent/internal/scheduler"
	"campusrent/internal/services/auth"
	"campusrent/internal/services/deposit"
	"campusrent/internal/services/dispute"
	"campusrent/internal/services/escrow"
	"campusrent/internal/services/fee"
	"campusrent/internal/services/notification"
	"campusrent/internal/services/payment"
	"campusrent/internal/utils"
	"campusrent/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()
	logger.Initialize(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))

	if err := run(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	policy, err := config.LoadPricingPolicy(config.GetEnv("PRICING_POLICY_FILE", ""))
	if err != nil {
		return err
	}

	db, err := repositories.InitDB(repositories.DBConfigFromEnv())
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := repositories.Migrate(db); err != nil {
		return err
	}

	cacheService := connectCache()
	if cacheService != nil {
		defer func() {
			if err := cacheService.Close(); err != nil {
				logger.Warn("failed to close redis connection", "error", err)
			}
		}()
	}

	gateway, err := payment.NewGateway(payment.Config{
		Provider:        config.GetEnv("PAYMENT_PROVIDER", payment.ProviderSimulated),
		StripeSecretKey: config.GetEnv("STRIPE_SECRET_KEY", ""),
		Currency:        config.GetEnv("PAYMENT_CURRENCY", "inr"),
		Production:      config.IsProduction(),
	})
	if err != nil {
		return err
	}

	tokens, err := utils.NewTokenManager(
		config.GetEnv("JWT_SECRET", ""),
		config.GetDurationEnv("JWT_ACCESS_TTL", 15*time.Minute),
		config.GetDurationEnv("JWT_REFRESH_TTL", 7*24*time.Hour),
	)
	if err != nil {
		return err
	}

	users := repositories.NewUserRepository(db, cacheService)
	notifier := notification.NewService()
	stats := escrow.NewStatsCollector()
	disputes := repositories.NewDisputeRepository(db)

	escrowService := escrow.NewService(
		repositories.NewEscrowRepository(db),
		gateway,
		escrow.WithNotifier(notifier),
		escrow.WithCompletionRecorder(users),
		escrow.WithDisputeGuard(disputes),
		escrow.WithMetrics(stats),
	)

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if cacheService != nil {
		checks["redis"] = cacheService.HealthCheck
	}

	deps := routes.Dependencies{
		Auth:     auth.NewService(users, tokens),
		Fees:     fee.NewService(fee.NewCalculator(policy.Fee), users),
		Deposits: deposit.NewService(deposit.NewCalculator(policy.Deposit), users),
		Escrow:   escrowService,
		Disputes: dispute.NewService(disputes, escrowService, notifier),
		Health:   handlers.NewHealthHandler(checks, stats, cacheService),
	}

	jobCfg := jobs.DefaultConfig()
	jobCfg.ReminderSchedule = config.GetEnv("ESCROW_REMINDER_SCHEDULE", jobCfg.ReminderSchedule)
	jobCfg.StaleAfter = config.GetDurationEnv("ESCROW_STALE_AFTER", jobCfg.StaleAfter)
	sched, err := scheduler.NewScheduler(jobs.NewJobRunner(escrowService, notifier, jobCfg))
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	opts := routes.DefaultOptions()
	opts.AllowOrigins = config.GetEnv("CORS_ORIGINS", opts.AllowOrigins)
	opts.RateLimit = config.GetIntEnv("RATE_LIMIT_MAX", opts.RateLimit)
	opts.RateWindow = config.GetDurationEnv("RATE_LIMIT_WINDOW", opts.RateWindow)

	app := fiber.New(fiber.Config{
		AppName:      "campusrent",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return response.Error(c, fe.Code, fe.Message)
			}
			return response.FromError(c, err)
		},
	})
	routes.SetupMiddleware(app, opts)
	routes.SetupRoutes(app, deps, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		logger.Info("http server listening", "addr", addr, "payment_provider", gateway.Provider())
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func connectCache() *cache.CacheService {
	client := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	svc := cache.NewCacheService(client, config.GetDurationEnv("CACHE_TTL", 10*time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := svc.HealthCheck(ctx); err != nil {
		logger.Warn("redis unavailable, profile cache disabled", "error", err)
		_ = svc.Close()
		return nil
	}
	return svc
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to get database instance", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database connection", "error", err)
	}
}
