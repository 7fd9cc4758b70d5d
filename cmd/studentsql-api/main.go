package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studentsql/studentsql/internal/api"
	"github.com/studentsql/studentsql/internal/auth"
	"github.com/studentsql/studentsql/internal/config"
	"github.com/studentsql/studentsql/internal/export"
	"github.com/studentsql/studentsql/internal/nl2sql"
	"github.com/studentsql/studentsql/internal/observability"
	"github.com/studentsql/studentsql/internal/paramstore"
	"github.com/studentsql/studentsql/internal/pipeline"
	"github.com/studentsql/studentsql/internal/query/drivers"
	"github.com/studentsql/studentsql/internal/query/sqlstore"
	s3store "github.com/studentsql/studentsql/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("studentsql-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	apiKey, err := resolveAPIKey(startupCtx, cfg)
	if err != nil {
		logger.Error("completion service credentials are missing",
			slog.String("provider", cfg.AI.Provider),
			slog.String("env", cfg.AI.APIKeyEnvName()),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
	completer, err := nl2sql.NewCompleter(startupCtx, nl2sql.CompleterConfig{
		Provider: cfg.AI.Provider,
		BaseURL:  cfg.AI.BaseURL,
		APIKey:   apiKey,
	})
	if err != nil {
		logger.Error("failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}
	translator, err := nl2sql.NewTranslator(completer)
	if err != nil {
		logger.Error("failed to initialize translator", slog.Any("error", err))
		os.Exit(1)
	}

	if !drivers.Registered(cfg.Store.Driver) {
		logger.Error("store driver is not compiled in", slog.String("driver", cfg.Store.Driver))
		os.Exit(1)
	}
	executor, err := sqlstore.New(sqlstore.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.Path})
	if err != nil {
		logger.Error("failed to initialize store executor", slog.Any("error", err))
		os.Exit(1)
	}
	if err := executor.CheckLocation(startupCtx); err != nil {
		logger.Warn("student store is not available yet", slog.Any("error", err))
	}

	service, err := pipeline.NewService(translator, executor, logger)
	if err != nil {
		logger.Error("failed to initialize pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Pipeline:          service,
		DependencyTimeout: time.Second,
	}
	readiness := []api.ReadinessCheck{api.CheckStoreConfig(cfg), executor.CheckLocation}
	if cfg.Export.Enabled {
		objectStore, err := s3store.New(startupCtx, cfg.ObjectStore)
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		exporter, err := export.New(service, objectStore, logger)
		if err != nil {
			logger.Error("failed to initialize exporter", slog.Any("error", err))
			os.Exit(1)
		}
		deps.Exporter = exporter
		readiness = append(readiness, objectStore.Check)
	}
	deps.Readiness = api.CombineReadinessChecks(readiness...)

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewHandler(cfg, deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("provider", completer.Provider()),
			slog.String("model", completer.Model()),
			slog.String("store_driver", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

// resolveAPIKey reads the completion key once at startup, from the
// environment or from SSM when a parameter name is configured.
func resolveAPIKey(ctx context.Context, cfg config.Config) (string, error) {
	if cfg.AI.APIKey != "" || cfg.AI.APIKeyParam == "" {
		key, err := paramstore.ResolveKey(ctx, nil, cfg.AI.APIKey, "")
		if err != nil {
			return "", fmt.Errorf("set %s or STUDENTSQL_AI_API_KEY_PARAM", cfg.AI.APIKeyEnvName())
		}
		return key, nil
	}
	params, err := paramstore.NewFromEnvironment(ctx)
	if err != nil {
		return "", err
	}
	return paramstore.ResolveKey(ctx, params, "", cfg.AI.APIKeyParam)
}
