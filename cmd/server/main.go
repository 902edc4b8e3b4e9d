// Package main is the entry point of the reconciliation dashboard API
// server.
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

	"bankreco/internal/domain/auth"
	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/backend"
	v1 "bankreco/internal/infrastructure/http/v1"
	"bankreco/internal/infrastructure/http/v1/handlers"
	"bankreco/internal/infrastructure/storage"
	"bankreco/internal/infrastructure/storage/postgres"
	"bankreco/internal/infrastructure/storage/sqlite"
	"bankreco/pkg/logger"
)

const version = "0.1.0"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting bankreco server", "version", version)

	// --- Settings store ---
	codec, err := storage.NewCodec(getEnvInt("SETTINGS_COMPRESS_THRESHOLD", storage.DefaultCompressThreshold))
	if err != nil {
		log.Fatalw("invalid settings codec", "error", err)
	}

	var (
		store  columns.Store
		checks []handlers.Check
	)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		poolCfg := postgres.DefaultPoolConfig(dsn)
		poolCfg.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", int(poolCfg.MaxConns)))
		poolCfg.MaxConnIdleTime = getEnvDuration("DATABASE_MAX_CONN_IDLE_TIME", poolCfg.MaxConnIdleTime)

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		pool.LogStats(ctx)

		pgStore := postgres.NewSettingsStore(postgres.NewTxManager(pool), codec)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalw("failed to prepare settings table", "error", err)
		}
		store = pgStore
		checks = append(checks, handlers.Check{Name: "database", Ping: pgStore.Ping})
		log.Info("settings stored in postgres")
	} else {
		path := getEnv("SETTINGS_PATH", "bankreco-settings.db")
		liteStore, err := sqlite.Open(ctx, path, codec)
		if err != nil {
			log.Fatalw("failed to open settings file", "path", path, "error", err)
		}
		defer liteStore.Close()

		store = liteStore
		checks = append(checks, handlers.Check{Name: "settings", Ping: liteStore.Ping})
		log.Infow("settings stored in sqlite", "path", path)
	}

	columnsService := columns.NewService(store, log)
	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	go columnsService.RunEviction(evictCtx, getEnvDuration("COLUMNS_IDLE_TIMEOUT", 30*time.Minute))

	// --- Reconciliation backend ---
	backendClient, err := backend.New(backend.Config{
		BaseURL:     mustEnv("BACKEND_URL"),
		Timeout:     getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		RefreshSkew: getEnvDuration("BACKEND_REFRESH_SKEW", 30*time.Second),
	}, log)
	if err != nil {
		log.Fatalw("invalid backend configuration", "error", err)
	}

	// --- JWT ---
	// Dashboard tokens are issued by the backend; the server shares its
	// signing key to validate them locally.
	jwtConfig := auth.DefaultJWTConfig(mustEnv("JWT_SECRET"))
	jwtConfig.Leeway = getEnvDuration("JWT_LEEWAY", jwtConfig.Leeway)
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Metadata Registry ---
	metadataRegistry, err := setupMetadataRegistry()
	if err != nil {
		log.Fatalw("failed to load entity definitions", "error", err)
	}
	log.Infow("metadata registry initialized", "entities", len(metadataRegistry.List()))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		Columns:      columnsService,
		Metadata:     metadataRegistry,
		Backend:      backendClient,
		Checks:       checks,
		Version:      version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	// Pending column settings are written before the store closes.
	stopEviction()
	if err := columnsService.Close(shutdownCtx); err != nil {
		log.Errorw("failed to flush column settings", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
