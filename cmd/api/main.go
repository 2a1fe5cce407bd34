package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/matchcast/internal/app"
	"github.com/riskibarqy/matchcast/internal/config"
	"github.com/riskibarqy/matchcast/internal/observability"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	if cfg.AppEnv == config.EnvDev {
		logger = logging.NewConsole(cfg.LogLevel)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("matchcast exited", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger) error {
	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Error("observability shutdown failed", "error", err)
		}
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}
