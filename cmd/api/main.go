package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ovenmade/bakemart-backend/api/controllers"
	"github.com/ovenmade/bakemart-backend/api/routes"
	"github.com/ovenmade/bakemart-backend/internal/cart"
	"github.com/ovenmade/bakemart-backend/internal/coupons"
	"github.com/ovenmade/bakemart-backend/internal/delivery"
	"github.com/ovenmade/bakemart-backend/internal/notifications"
	"github.com/ovenmade/bakemart-backend/internal/orders"
	"github.com/ovenmade/bakemart-backend/internal/payments"
	"github.com/ovenmade/bakemart-backend/internal/revenue"
	"github.com/ovenmade/bakemart-backend/internal/stores"
	"github.com/ovenmade/bakemart-backend/internal/wallet"
	"github.com/ovenmade/bakemart-backend/pkg/config"
	"github.com/ovenmade/bakemart-backend/pkg/db"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
	"github.com/ovenmade/bakemart-backend/pkg/metrics"
	"github.com/ovenmade/bakemart-backend/pkg/migrate"
	"github.com/ovenmade/bakemart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	gorm := dbClient.DB()

	couponService, err := coupons.NewService(coupons.NewRepository(gorm))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	walletService, err := wallet.NewService(wallet.NewRepository(gorm), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	feeResolver, err := delivery.NewFeeResolver(delivery.NewRepository(gorm), cfg.Delivery)
	if err != nil {
		logg.Error(context.Background(), "failed to create fee resolver", err)
		os.Exit(1)
	}

	verifier, err := payments.NewVerifier(cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment verifier", err)
		os.Exit(1)
	}

	revenueService, err := revenue.NewService(revenue.NewRepository(gorm), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create revenue service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.Deps{
		Repo:      orders.NewRepository(gorm),
		Carts:     cart.NewRepository(gorm),
		Stores:    stores.NewRepository(gorm),
		Users:     orders.NewUserRepository(gorm),
		Coupons:   couponService,
		Wallet:    walletService,
		Fees:      feeResolver,
		Verifier:  verifier,
		Tx:        dbClient,
		Notifier:  notifications.NewMailer(cfg.Mail, logg),
		Lifecycle: orderMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			Registry:    registry,
			HTTPMetrics: httpMetrics,
			Pingers: map[string]controllers.Pinger{
				"postgres": dbClient,
				"redis":    redisClient,
			},
			Orders:  orderService,
			Coupons: couponService,
			Wallet:  walletService,
			Revenue: revenueService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
