package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/enhance"
	"storefront/internal/httpapi"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/storage"
	"storefront/internal/storefront"
)

const shutdownTimeout = 10 * time.Second

var startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	// prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	handler, err := newServer(ctx, cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("storefront API starting",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageDriver),
		)
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// newServer wires the storefront, restores persisted state and returns the
// HTTP handler.
func newServer(ctx context.Context, cfg *config.Config, store storage.Store) (http.Handler, error) {
	feed := notify.NewFeed(notify.DefaultCapacity)
	m := metrics.New()

	var enhancer enhance.Enhancer = enhance.Noop{}
	if cfg.GeminiAPIKey != "" {
		enhancer = enhance.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, m)
	}

	svc := storefront.NewService(storefront.Deps{
		Store:    store,
		Notifier: feed,
		Enhancer: enhancer,
		Metrics:  m,
	})
	if err := svc.Load(ctx); err != nil {
		return nil, fmt.Errorf("restore state: %w", err)
	}

	limiter := middleware.NewLimiter()
	go limiter.Run(ctx)

	h := httpapi.NewHandler(svc, feed, cfg.JWTSecret)
	return httpapi.NewRouter(h, httpapi.RouterConfig{
		Secret:     cfg.JWTSecret,
		CORSOrigin: cfg.CORSOrigin,
		Limiter:    limiter,
		Observer:   m,
		Metrics:    m.Handler(),
	}), nil
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case "memory":
		return storage.NewMemory(), noop, nil

	case "file":
		f, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil

	case "redis":
		client := storage.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return storage.NewRedis(client), client.Close, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DB_URL not set in environment")
		}
		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := storage.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return pg, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
