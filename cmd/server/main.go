package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/apiclient"
	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/logger"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/pricing"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

func main() {
	cfg, err := config.Load() // Load .env and environment config
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.IsDev())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	health := &handler.HealthHandler{Checks: map[string]handler.Pinger{}}

	// Redis is optional: without it the catalog is not cached, the wizard is
	// not rate limited and prices are always fetched live.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		zl.Warn("redis unavailable; cache, rate limit and price snapshot disabled", zap.String("addr", cfg.Redis.Address()))
	} else {
		defer func() { _ = rdb.Close() }()
		health.Checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	// MySQL holds only the audit trail; booking works without it.
	var audit *repository.AuditRepo
	db, err := database.Open(cfg.DB)
	if err != nil {
		zl.Warn("mysql unavailable; booking history disabled", zap.Error(err))
	} else {
		defer func() { _ = db.Close() }()
		audit = repository.NewAuditRepo(db)
		if err := audit.Migrate(ctx); err != nil {
			return err
		}
		health.Checks["mysql"] = db
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := apiclient.New(cfg.API)
	prices := pricing.New(api, rdb, cfg.Pricing.SnapshotTTL, zl)
	publisher := service.NewAMQPPublisher(cfg.RabbitMQ.URL, zl)
	bookings := service.NewBookingService(api, prices, publisher, service.NewMetrics(reg), zl)

	myBookings := &handler.MyBookingsHandler{Log: zl}
	if audit != nil {
		myBookings.Audit = audit
		consumer := queue.NewConsumer(cfg.RabbitMQ.URL, audit, zl)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}

	v := utils.NewValidator()
	e := router.New(router.Deps{
		Config:     cfg,
		Redis:      rdb,
		Gatherer:   reg,
		Log:        zl,
		Health:     health,
		Catalog:    &handler.CatalogHandler{API: api, Log: zl},
		Booking:    &handler.BookingHandler{Prices: prices, Service: bookings, Menu: api, Log: zl},
		MyBookings: myBookings,
		Admin: router.BackOffice{
			Movies:    crud[model.Movie]("movies", api, "/movies", v, zl),
			Theaters:  crud[model.Theater]("theaters", api, "/theaters", v, zl),
			Staff:     crud[model.Staff]("staff", api, "/staff", v, zl),
			Customers: crud[model.Customer]("customers", api, "/customers", v, zl),
			Vouchers:  crud[model.Voucher]("vouchers", api, "/vouchers", v, zl),
			Settings:  crud[model.Setting]("settings", api, "/settings", v, zl),
		},
		Owner: router.BackOffice{
			Theaters: crud[model.Theater]("owner.theaters", api, "/theaters", v, zl),
			Staff:    crud[model.Staff]("owner.staff", api, "/staff", v, zl),
			Vouchers: crud[model.Voucher]("owner.vouchers", api, "/vouchers", v, zl),
		},
	})
	e.Validator = v

	addr := ":" + cfg.Port
	srvErr := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func crud[T any](name string, api *apiclient.Client, path string, v *utils.Validator, zl *zap.Logger) *handler.CRUDHandler[T] {
	return &handler.CRUDHandler[T]{
		Name:     name,
		Store:    apiclient.NewResource[T](api, path),
		Validate: v,
		Log:      zl,
	}
}
