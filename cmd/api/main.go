package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/lucaspaiva/bazario-backend/api/routes"
	"github.com/lucaspaiva/bazario-backend/internal/chat"
	"github.com/lucaspaiva/bazario-backend/internal/inventory"
	"github.com/lucaspaiva/bazario-backend/internal/notifications"
	"github.com/lucaspaiva/bazario-backend/internal/notifier"
	"github.com/lucaspaiva/bazario-backend/internal/orders"
	"github.com/lucaspaiva/bazario-backend/internal/sequence"
	"github.com/lucaspaiva/bazario-backend/pkg/config"
	"github.com/lucaspaiva/bazario-backend/pkg/db"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
	"github.com/lucaspaiva/bazario-backend/pkg/migrate"
	"github.com/lucaspaiva/bazario-backend/pkg/pubsub"
	"github.com/lucaspaiva/bazario-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	// Push delivery is optional: without a GCP project the notifier still
	// writes chat messages and in-app notifications.
	var push notifier.PushPublisher
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		push = pubsubClient
	} else {
		logg.Warn(context.Background(), "no GCP project configured, push delivery disabled")
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	chatService, err := chat.NewService(chat.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	fanout, err := notifier.NewService(chatService, notificationsService, push, ordersRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}

	issuer, err := sequence.NewIssuer(cfg.Orders.SequencePrefix)
	if err != nil {
		logg.Error(context.Background(), "failed to create sequence issuer", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		ordersRepo,
		dbClient,
		issuer,
		inventory.NewLedger(cfg.Orders.DefaultLowStockThreshold),
		fanout,
		orders.Policy{
			Pricing: orders.PricingPolicy{
				ShippingFeeCents:  cfg.Orders.ShippingFeeCents,
				FreeShippingCents: cfg.Orders.FreeShippingCents,
			},
			CancellationWindow: cfg.Orders.CancellationWindow,
			AutoConfirmAfter:   cfg.Orders.AutoConfirmAfter,
		},
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, ordersService, chatService, notificationsService),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
