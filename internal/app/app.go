// Package app wires configuration into the running service: adapters,
// usecases, the HTTP server and the background broadcast refresher.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/riskibarqy/matchcast/external/apisports"
	"github.com/riskibarqy/matchcast/external/guiajogos"
	"github.com/riskibarqy/matchcast/internal/config"
	"github.com/riskibarqy/matchcast/internal/domain/broadcast"
	"github.com/riskibarqy/matchcast/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchcast/internal/platform/imageloader"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/normalize"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
	"github.com/riskibarqy/matchcast/internal/usecase"
)

type App struct {
	cfg    config.Config
	logger *logging.Logger

	server    *http.Server
	images    *imageloader.Loader
	refresher *usecase.Refresher

	closeOnce sync.Once
}

// New builds every component. Nothing runs until Run.
func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrDefault(logger)

	normalizer, err := newNormalizer(cfg.AliasesFile)
	if err != nil {
		return nil, err
	}

	apiClient, err := apisports.NewClient(apisports.ClientConfig{
		BaseURL:  cfg.APISportsBaseURL,
		APIKey:   cfg.APISportsKey,
		Timezone: cfg.APISportsTimezone,
		Timeout:  cfg.APISportsTimeout,
		Retry:    apiSportsRetryPolicy(cfg),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APISportsCircuitEnabled,
			FailureThreshold: cfg.APISportsCircuitFailureCount,
			OpenTimeout:      cfg.APISportsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APISportsCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build api-sports client: %w", err)
	}

	fixtureSvc := usecase.NewFixtureService(apiClient, usecase.FixtureServiceConfig{
		CacheTTL:     cfg.FixtureCacheTTL,
		LiveCacheTTL: cfg.LiveCacheTTL,
		Location:     apiClient.Location(),
		Logger:       logger,
	})
	leagueSvc := usecase.NewLeagueService(apiClient, usecase.LeagueServiceConfig{
		Season:       cfg.LeagueSeason,
		Priority:     cfg.LeaguePriority,
		CacheTTL:     cfg.LeagueCacheTTL,
		Timeout:      cfg.LeagueTimeout,
		UpcomingDays: cfg.LeagueUpcomingDays,
		Location:     apiClient.Location(),
		Logger:       logger,
	})
	statusSvc := usecase.NewStatusService(apiClient, cfg.StatusTimeout, logger)

	a := &App{cfg: cfg, logger: logger}

	var broadcastSvc *usecase.BroadcastService
	if cfg.BroadcastEnabled {
		scraper := guiajogos.NewSource(guiajogos.Config{
			PageURL:       cfg.BroadcastPageURL,
			ProxyTemplate: cfg.BroadcastProxyTemplate,
			Timeout:       cfg.BroadcastTimeout,
			MinInterval:   cfg.BroadcastMinInterval,
			Logger:        logger,
		})
		broadcastSvc = usecase.NewBroadcastService(scraper, fixtureSvc, broadcast.NewCorrelator(normalizer), usecase.BroadcastServiceConfig{
			LookupTTL:      cfg.BroadcastLookupTTL,
			CorrelationTTL: cfg.BroadcastCorrelationTTL,
			Logger:         logger,
		})
		a.refresher = usecase.NewRefresher("broadcasts", cfg.BroadcastRefreshInterval, broadcastSvc.Refresh, logger)
	}

	a.images, err = imageloader.New(imageloader.Config{
		MaxConcurrentLoads: cfg.ImageMaxConcurrent,
		MaxRetries:         cfg.ImageMaxRetries,
		RetryDelay:         cfg.ImageRetryDelay,
		Timeout:            cfg.ImageTimeout,
		MaxBytes:           cfg.ImageMaxBytes,
	}, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("build image loader: %w", err)
	}

	handler := httpapi.NewHandler(fixtureSvc, leagueSvc, broadcastSvc, statusSvc, a.images, cfg.ImageAllowedHosts, logger)
	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app built",
		"env", cfg.AppEnv,
		"timezone", apiClient.Location().String(),
		"broadcast_enabled", cfg.BroadcastEnabled,
		"api_key_set", cfg.APISportsKey != "",
	)
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until ctx is canceled or the listener fails, then shuts
// the server down gracefully and releases every component.
func (a *App) Run(ctx context.Context) error {
	if a.refresher != nil {
		a.refresher.Start(ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}
	a.Close()
	a.logger.Info("http server stopped")
	return runErr
}

// Close stops the refresher and the image loader. It is safe to call more
// than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.refresher != nil {
			a.refresher.Stop()
		}
		a.images.Close()
	})
}

func apiSportsRetryPolicy(cfg config.Config) resilience.RetryPolicy {
	policy := resilience.DefaultRetryPolicy()
	policy.MaxRetries = cfg.APISportsMaxRetries
	policy.BaseDelay = cfg.APISportsRetryBaseDelay
	policy.MaxDelay = cfg.APISportsRetryMaxDelay
	policy.Multiplier = cfg.APISportsRetryMultiplier
	policy.RetryRateLimited = cfg.APISportsRetryRateLimited
	return policy
}

// newNormalizer merges the optional alias file over the embedded table.
func newNormalizer(path string) (*normalize.Normalizer, error) {
	if strings.TrimSpace(path) == "" {
		return normalize.New()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ALIASES_FILE: %w", err)
	}
	table, err := normalize.ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("ALIASES_FILE %s: %w", path, err)
	}
	return normalize.New(table)
}
