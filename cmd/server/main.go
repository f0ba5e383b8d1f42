// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/tomtom215/atelier/docs" // Register swagger docs
	"github.com/tomtom215/atelier/internal/api"
	"github.com/tomtom215/atelier/internal/cache"
	"github.com/tomtom215/atelier/internal/config"
	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/models"
	"github.com/tomtom215/atelier/internal/pages"
	"github.com/tomtom215/atelier/internal/session"
	"github.com/tomtom215/atelier/internal/supervisor"
	"github.com/tomtom215/atelier/internal/supervisor/services"
	"github.com/tomtom215/atelier/internal/upstream"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run owns every resource, so its defers have completed before a
	// fatal exit here.
	if err := run(ctx, cfg); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Atelier failed")
	}
	logging.Info().Msg("Atelier stopped")
}

// run starts the storefront and blocks until ctx is cancelled or the
// supervisor tree gives up.
func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("api_base_url", cfg.API.BaseURL).
		Str("session_backend", cfg.Session.Backend).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Atelier")

	// Upstream client behind a circuit breaker. An unreachable API is not
	// fatal; pages show their error banners until it comes back.
	client := upstream.NewCircuitBreakerClient(&cfg.API)
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		logging.Warn().Err(err).Msg("Recommendation API not reachable at startup")
	} else {
		logging.Info().Msg("Connected to recommendation API")
	}
	pingCancel()

	store, err := session.New(&cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	var analyticsCache *cache.Cache[*models.AnalyticsAggregate]
	if cfg.Cache.AnalyticsTTL > 0 {
		analyticsCache = cache.New[*models.AnalyticsAggregate](cfg.Cache.AnalyticsTTL, cfg.Cache.AnalyticsTTL)
		defer analyticsCache.Stop()
	}

	handler, err := api.NewHandler(api.Deps{
		Config:          cfg,
		Client:          client,
		Sessions:        store,
		Recommendations: pages.NewRecommendations(client),
		Analytics:       pages.NewAnalytics(client, analyticsCache),
		Version:         version,
	})
	if err != nil {
		return fmt.Errorf("create HTTP handler: %w", err)
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Submits wait on the upstream, so writes may take the full API timeout.
		WriteTimeout: cfg.Server.Timeout + cfg.API.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})

	// Data layer
	tree.AddDataService(services.NewSessionSweeperService(store, cfg.Session.SweepInterval,
		logging.WithComponent("session-sweeper")))

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second,
		logging.WithComponent("http-server")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The tree returns once ctx is cancelled and its services have stopped,
	// or earlier if it gives up on a failing service.
	err = <-errCh

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
