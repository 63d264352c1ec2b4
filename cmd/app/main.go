package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/persistence"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	configureLogger(logger, configs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, logger); err != nil {
		logger.WithError(err).Fatal("service stopped")
	}
}

func configureLogger(logger *logrus.Logger, configs cmd.Config) {
	if configs.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(configs.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func run(ctx context.Context, configs cmd.Config, logger *logrus.Logger) error {
	gormDB, err := persistence.Open(persistence.Config{
		Driver:       configs.DBDriver,
		DSN:          configs.DSN(),
		MaxOpenConns: configs.DBMaxOpenConns,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err = persistence.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if configs.SeedDemoData {
		if err = persistence.SeedDemoData(ctx, gormDB, logger); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close broker connections")
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(ctx); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e, err := httpin.NewRouter(app.CreateHTTPServer(), app.Feed(), logger)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("port", configs.HTTPPort).Info("http server started")
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http server did not shut down cleanly")
	}
	return nil
}
