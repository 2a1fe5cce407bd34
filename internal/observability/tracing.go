package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchcast/internal/config"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

// initTracing installs the global OpenTelemetry providers through Uptrace.
// Spans from the HTTP middleware, the usecases and the api-sports client
// all flow through them.
func initTracing(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if !cfg.UptraceEnabled || cfg.UptraceDSN == "" {
		logger.Info("tracing disabled", "reason", "UPTRACE_ENABLED=false or UPTRACE_DSN empty")
		return func(context.Context) error { return nil }, nil
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Warn("opentelemetry export failed", "error", err)
	}))
	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("matchcast.upstream", cfg.APISportsBaseURL),
			attribute.Bool("matchcast.broadcasts", cfg.BroadcastEnabled),
		),
		uptrace.WithLoggingEnabled(false),
	)

	logger.Info("tracing enabled",
		"backend", "uptrace",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)
	return uptrace.Shutdown, nil
}
