// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package app wires configuration, the game client, Redis state, the
// account cycles and the servers into one runnable application.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/splintermate/splintermate/internal/config"
	"github.com/splintermate/splintermate/internal/server"
	"github.com/splintermate/splintermate/pkg/client"
	"github.com/splintermate/splintermate/pkg/cycle"
	"github.com/splintermate/splintermate/pkg/game"
	"github.com/splintermate/splintermate/pkg/orchestrator"
	"github.com/splintermate/splintermate/pkg/state"
)

// App holds all application dependencies and manages the application
// lifecycle.
type App struct {
	cfg               *config.Config
	orchestrator      *orchestrator.Orchestrator
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance. Components
// come up in dependency order: Redis, card catalogue, game client,
// account cycles, servers, telemetry.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	catalogue, err := game.LoadCatalogue(cfg.CardsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load card catalogue from %s: %w", cfg.CardsPath, err)
	}
	logrus.Infof("loaded %d cards from %s", catalogue.Count(), cfg.CardsPath)

	accounts, err := config.LoadAccounts(cfg.AccountsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts from %s: %w", cfg.AccountsPath, err)
	}
	logrus.Infof("loaded %d account(s) from %s", len(accounts.Accounts), cfg.AccountsPath)

	store := state.NewRedisStore(app.redisClient, state.RedisStoreConfig{})

	gameClient := client.NewHTTP(client.HTTPConfig{
		BaseURL:     cfg.APIBaseURL,
		FallbackURL: cfg.APIFallbackURL,
		BridgeURL:   cfg.BridgeURL,
		Timeout:     time.Duration(cfg.APITimeoutMs) * time.Millisecond,
	}, catalogue)
	if cfg.BridgeURL == "" {
		logrus.Warn("BRIDGE_URL not set; battles and reward claims are disabled")
	}

	runners := make([]orchestrator.Runner, 0, len(accounts.Accounts))
	for _, cycleCfg := range accounts.CycleConfigs() {
		runners = append(runners, cycle.New(cycleCfg, gameClient, store))
	}
	app.orchestrator = orchestrator.New(runners, accounts.MaxConcurrent)

	health := state.NewHealthChecker(app.redisClient)
	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics", app.orchestrator, health)
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	shutdownTelemetry, err := server.SetupTelemetry(cfg.OtelEnabled, cfg.ZipkinURL, cfg.OtelServiceName, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client, retrying until the backend
// answers a ping.
func (a *App) initRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisAddr(),
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	seed := backoff.NewExponentialBackOff()
	seed.InitialInterval = time.Duration(a.cfg.RedisRetryDelayMs) * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(seed, uint64(a.cfg.RedisMaxRetries)), ctx)

	err := backoff.Retry(
		func() error {
			_, err := rdb.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		policy,
	)
	if err != nil {
		return err
	}

	a.redisClient = rdb
	logrus.Info("Redis client initialized")
	return nil
}
