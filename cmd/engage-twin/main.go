// Command engage-twin runs an Engage-compatible stand-in server for
// development and integration testing of the browser's marketing client.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"

	"github.com/kiroskirin/firefox-ios/internal/observability"
	"github.com/kiroskirin/firefox-ios/internal/twin"
)

// Config holds all twin configuration.
type Config struct {
	// LogLevel is the log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogFormat is the log format (json, text)
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Twin server configuration
	Twin twin.Config `envPrefix:""`
}

func main() {
	// Load configuration from environment
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("starting engage twin",
		"log_level", cfg.LogLevel,
		"http_addr", cfg.Twin.Addr,
		"scenario", cfg.Twin.ScenarioPath,
	)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Setup metrics
	obs, err := observability.New("engage-twin")
	if err != nil {
		logger.Error("failed to setup observability", "error", err)
		os.Exit(1)
	}

	metrics, err := observability.NewMetrics(obs.Meter())
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	// Load the campaign scenario
	scenario, err := twin.LoadScenario(cfg.Twin.ScenarioPath)
	if err != nil {
		logger.Error("failed to load scenario", "error", err)
		os.Exit(1)
	}

	// Create the capture store and HTTP handler
	store := twin.NewStore()
	handler := twin.NewHandler(store, scenario, cfg.Twin.Dedup, metrics, logger)

	// Create and start HTTP server
	server := twin.NewServer(cfg.Twin, handler, obs, metrics, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	}

	// Graceful shutdown
	logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Twin.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	handler.Close()

	if err := obs.Shutdown(shutdownCtx); err != nil {
		logger.Error("observability shutdown error", "error", err)
	}

	logger.Info("twin stopped")
}

// setupLogger creates a logger based on configuration.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
