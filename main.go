package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-lifecycle/internal/config"
	"auction-lifecycle/internal/lifecycle"
	model "auction-lifecycle/internal/models"
	"auction-lifecycle/internal/notify"
	"auction-lifecycle/internal/ratelimit"
	"auction-lifecycle/internal/repository"
	"auction-lifecycle/internal/server"
	"auction-lifecycle/internal/telemetry"
	"auction-lifecycle/utils"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		utils.Fatal("failed to configure logger", map[string]any{"error": err.Error()})
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingOptions{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		utils.Fatal("failed to set up tracing", map[string]any{"error": err.Error()})
	}

	repo, closeRepo := openStore(ctx, cfg.Store)
	publisher := openPublisher(cfg.NATS)
	limiter, closeLimiter := openLimiter(cfg.RateLimit)

	orchestrator := lifecycle.NewOrchestrator(repo, publisher, lifecycle.Options{
		Workers:        cfg.Lifecycle.Workers,
		AuctionTimeout: cfg.Lifecycle.AuctionTimeout.Duration,
		BatchSize:      cfg.Lifecycle.BatchSize,
	})

	router := server.SetupRouter(orchestrator, cfg.Auth.CronSecret, limiter, cfg.Server.TrustedProxies)
	if cfg.Auth.CronSecret == "" {
		utils.Warn("no cron secret configured, the lifecycle trigger rejects every request", nil)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Info("starting auction lifecycle server", map[string]any{
			"addr":         cfg.Server.Addr,
			"store_driver": cfg.Store.Driver,
			"rate_limit":   cfg.RateLimit.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server error", map[string]any{"error": err.Error()})
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Info("shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server forced to shutdown", map[string]any{"error": err.Error()})
	}
	if err := publisher.Close(); err != nil {
		utils.Warn("failed to drain notification publisher", map[string]any{"error": err.Error()})
	}
	closeLimiter()
	closeRepo()
	if err := shutdownTracing(shutdownCtx); err != nil {
		utils.Warn("failed to flush traces", map[string]any{"error": err.Error()})
	}

	utils.Info("server stopped gracefully", nil)
}

// openStore returns the configured LifecycleDB and a func releasing it
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.LifecycleDB, func()) {
	if cfg.Driver == config.DriverPostgres {
		repo, err := repository.NewPostgresRepo(ctx, repository.PostgresConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime.Duration,
		})
		if err != nil {
			utils.Fatal("failed to connect to postgres", map[string]any{"error": err.Error()})
		}
		if cfg.InitSchema {
			if err := repo.InitSchema(ctx); err != nil {
				utils.Fatal("failed to initialise schema", map[string]any{"error": err.Error()})
			}
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				utils.Warn("failed to close postgres pool", map[string]any{"error": err.Error()})
			}
		}
	}

	repo := repository.NewMemoryRepo()
	if cfg.SeedDemo {
		prepopulateAuctions(repo, time.Now().UTC())
	}
	return repo, func() {}
}

// openPublisher returns a NATS publisher when a URL is configured, a no-op one otherwise
func openPublisher(cfg config.NATSConfig) notify.Publisher {
	if cfg.URL == "" {
		return notify.NopPublisher{}
	}
	publisher, err := notify.NewNATSPublisher(cfg.URL, cfg.SubjectPrefix)
	if err != nil {
		utils.Warn("NATS unavailable, notifications will not be published", map[string]any{
			"url":   cfg.URL,
			"error": err.Error(),
		})
		return notify.NopPublisher{}
	}
	return publisher
}

// openLimiter returns the trigger rate limiter and a func releasing it
func openLimiter(cfg config.RateLimitConfig) (ratelimit.Limiter, func()) {
	if cfg.Backend == config.LimiterRedis {
		limiter, err := ratelimit.NewRedisLimiter(ratelimit.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Limit:    cfg.Limit,
			Window:   cfg.Window.Duration,
		})
		if err != nil {
			utils.Fatal("failed to connect to redis", map[string]any{"error": err.Error()})
		}
		return limiter, func() {
			if err := limiter.Close(); err != nil {
				utils.Warn("failed to close redis client", map[string]any{"error": err.Error()})
			}
		}
	}

	limiter, err := ratelimit.NewLocalLimiter(cfg.Limit, cfg.Window.Duration, cfg.Burst, cfg.MaxKeys)
	if err != nil {
		utils.Fatal("failed to create rate limiter", map[string]any{"error": err.Error()})
	}
	return limiter, func() {}
}

// prepopulateAuctions adds sample items, auctions and bids to the in-memory repo
func prepopulateAuctions(repo *repository.MemoryRepo, now time.Time) {
	items := []model.Item{
		{ID: "item1", Name: "Gold Watch", Valuation: decimal.NewFromInt(1200), Status: model.ItemStatusInAuction},
		{ID: "item2", Name: "Silver Ring", Valuation: decimal.NewFromInt(300), Status: model.ItemStatusInAuction},
		{ID: "item3", Name: "Vintage Camera", Valuation: decimal.NewFromInt(450), Status: model.ItemStatusInAuction},
		{ID: "item4", Name: "Guitar", Valuation: decimal.NewFromInt(800), Status: model.ItemStatusInAuction},
	}
	for _, item := range items {
		item.UpdatedAt = now
		repo.AddItem(item)
	}

	auctions := []model.Auction{
		// due to start
		{ID: "auction1", ItemID: "item1", StartPrice: decimal.NewFromInt(1000), StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour), Status: model.AuctionStatusScheduled},
		// due to end with bids
		{ID: "auction2", ItemID: "item2", StartPrice: decimal.NewFromInt(200), StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Minute), Status: model.AuctionStatusActive},
		// due to end without bids
		{ID: "auction3", ItemID: "item3", StartPrice: decimal.NewFromInt(400), StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Minute), Status: model.AuctionStatusActive},
		// practice
		{ID: "auction4", ItemID: "item4", StartPrice: decimal.NewFromInt(500), StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Minute), Status: model.AuctionStatusActive, IsPractice: true},
	}
	for _, a := range auctions {
		a.CreatedAt = now
		a.UpdatedAt = now
		repo.AddAuction(a)
	}

	bids := []model.Bid{
		{ID: utils.GenerateID(), AuctionID: "auction2", UserID: "user1", Amount: decimal.NewFromInt(250), CreatedAt: now.Add(-90 * time.Minute)},
		{ID: utils.GenerateID(), AuctionID: "auction2", UserID: "user2", Amount: decimal.NewFromInt(275), CreatedAt: now.Add(-30 * time.Minute)},
		{ID: utils.GenerateID(), AuctionID: "auction4", UserID: "user3", Amount: decimal.NewFromInt(650), CreatedAt: now.Add(-10 * time.Minute)},
	}
	for _, b := range bids {
		repo.AddBid(b)
	}
}
