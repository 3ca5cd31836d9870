package main

import (
	"context"
	"log/slog"
	"time"

	httpadp "loanpro-backend/internal/adapter/http"
	mw "loanpro-backend/internal/adapter/middleware"
	"loanpro-backend/internal/adapter/repository/gormrepo"
	"loanpro-backend/internal/config"
	"loanpro-backend/internal/infrastructure/cache"
	"loanpro-backend/internal/infrastructure/db"
	ucAnalytics "loanpro-backend/internal/usecase/analytics"
	ucCustomer "loanpro-backend/internal/usecase/customer"
	ucPayment "loanpro-backend/internal/usecase/payment"
	"loanpro-backend/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type deps struct {
	cfg     *config.Config
	db      *gorm.DB
	rdb     *redis.Client
	log     *slog.Logger
	metrics *metrics.MetricsCollector
	now     func() time.Time
}

// newServer wires repositories, use cases and handlers onto a fresh echo.
func newServer(d deps) *echo.Echo {
	customers := gormrepo.NewCustomerRepository(d.db)
	txs := gormrepo.NewGormUoW(d.db)
	summaries := cache.NewSummaryCache(d.rdb, d.cfg.AnalyticsTTL())

	custUC := ucCustomer.NewUsecase(customers,
		ucCustomer.WithClock(d.now),
		ucCustomer.WithLogger(d.log),
		ucCustomer.WithMetrics(d.metrics),
		ucCustomer.WithInvalidator(summaries),
	)
	payUC := ucPayment.NewUsecase(txs,
		ucPayment.WithClock(d.now),
		ucPayment.WithLogger(d.log),
		ucPayment.WithMetrics(d.metrics),
		ucPayment.WithInvalidator(summaries),
	)
	anUC := ucAnalytics.NewUsecase(customers,
		ucAnalytics.WithClock(d.now),
		ucAnalytics.WithLogger(d.log),
		ucAnalytics.WithMetrics(d.metrics),
		ucAnalytics.WithCache(summaries),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				d.log.LogAttrs(context.Background(), slog.LevelError, "request", attrs...)
				return nil
			}
			d.log.LogAttrs(context.Background(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))

	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(func(ctx context.Context) error { return db.Ping(d.db.WithContext(ctx)) }),
		Customers: httpadp.NewCustomerHandler(custUC, d.log),
		Payments:  httpadp.NewPaymentHandler(payUC, d.log),
		Analytics: httpadp.NewAnalyticsHandler(anUC, d.log),
	}, mw.Idempotency(d.rdb, d.cfg.IdempotencyTTL(), d.log))

	e.GET("/metrics", echo.WrapHandler(d.metrics.GetHandler()))
	return e
}
