package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loanpro-backend/internal/config"
	"loanpro-backend/internal/infrastructure/cache"
	"loanpro-backend/internal/infrastructure/db"
	"loanpro-backend/internal/observability"
	"loanpro-backend/pkg/metrics"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := observability.NewLogger(cfg.AppEnv)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// money goes out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.AppEnv)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	loc := cfg.Location()
	e := newServer(deps{
		cfg:     cfg,
		db:      gdb,
		rdb:     rdb,
		log:     logger,
		metrics: metrics.NewMetricsCollector(logger),
		now:     func() time.Time { return time.Now().In(loc) },
	})

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", addr), slog.String("db", cfg.DBDriver), slog.String("tz", loc.String()))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
