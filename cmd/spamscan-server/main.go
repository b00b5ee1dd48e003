package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/modsentry/spamscan/internal/api"
	"github.com/modsentry/spamscan/internal/chread"
	"github.com/modsentry/spamscan/internal/config"
	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/lookup"
	"github.com/modsentry/spamscan/internal/ruleset"
	"github.com/modsentry/spamscan/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := mustBuildLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck // best-effort flush

	logger.Info("starting spamscan server",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("dns_resolver", cfg.DNSResolverAddr),
		zap.Bool("auth_enabled", cfg.APIKeyHash != ""),
	)

	// Rule content: built-in defaults, optionally overridden from a file.
	content := ruleset.DefaultContent()
	if cfg.ContentPath != "" {
		content, err = ruleset.Load(cfg.ContentPath)
		if err != nil {
			logger.Fatal("failed to load rule content", zap.Error(err))
		}
		logger.Info("rule content loaded", zap.String("path", cfg.ContentPath))
	}

	rules, err := ruleset.Default(content, ruleset.Lookups{
		Phone:  lookup.NewLibPhoneChecker(),
		NS:     lookup.NewDNSResolver(cfg.DNSResolverAddr, cfg.DNSTimeout, logger),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("rule compilation failed", zap.Error(err))
	}
	eng := engine.NewScanEngine(rules, logger)
	logger.Info("rule catalog compiled", zap.Int("rules", len(rules)))

	// Storage: ClickHouse or LogWriter fallback.
	var writer storage.EventWriter
	if cfg.ClickHouseDSN != "" {
		chWriter, err := storage.NewClickHouseWriter(cfg.ClickHouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse connection failed, falling back to log writer",
				zap.Error(err),
			)
			writer = storage.NewLogWriter(logger)
		} else {
			writer = chWriter
			logger.Info("clickhouse writer connected")
		}
	} else {
		writer = storage.NewLogWriter(logger)
		logger.Info("no CLICKHOUSE_DSN set, using log writer")
	}
	defer writer.Close()

	// ClickHouse reader for the events/analytics endpoints.
	var reader *chread.Reader
	if cfg.ClickHouseDSN != "" {
		reader, err = chread.NewReader(cfg.ClickHouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse reader connection failed", zap.Error(err))
			reader = nil
		} else {
			defer func() { _ = reader.Close() }()
			logger.Info("clickhouse reader connected")
		}
	}

	deps := &api.Dependencies{
		Engine:     eng,
		Writer:     writer,
		Reader:     reader,
		APIKeyHash: cfg.APIKeyHash,
		Logger:     logger,
	}
	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("spamscan server stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}
