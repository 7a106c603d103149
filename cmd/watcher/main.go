package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arleipolo/storefront-backend/api"
	"github.com/arleipolo/storefront-backend/internal/cart"
	"github.com/arleipolo/storefront-backend/internal/reminder"
	"github.com/arleipolo/storefront-backend/pkg/config"
	"github.com/arleipolo/storefront-backend/pkg/logger"
	"github.com/arleipolo/storefront-backend/pkg/metrics"
	"github.com/arleipolo/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "watcher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "watcher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	medium := cart.NewRedisMedium(redisClient, cfg.Reminder.Session)
	store := cart.NewStore(cart.StoreParams{Medium: medium, Logger: logg})

	identity := reminder.SessionIdentity(medium)
	if cfg.Reminder.RecipientEmail != "" {
		identity = reminder.StaticIdentity(cfg.Reminder.RecipientEmail, cfg.Reminder.RecipientName)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	watcher, err := reminder.NewWatcher(reminder.WatcherParams{
		Store:      store,
		Identity:   identity,
		Dispatcher: reminder.NewClient(cfg.Reminder.APIURL),
		Logger:     logg,
		Metrics:    metrics.NewReminderMetrics(registry),
		Threshold:  cfg.Reminder.Threshold,
		Interval:   cfg.Reminder.PollInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create watcher", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := api.Serve(ctx, ":"+cfg.Reminder.MetricsPort, mux, logg); err != nil {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"session":   cfg.Reminder.Session,
		"threshold": cfg.Reminder.Threshold.String(),
	})
	logg.Info(ctx, "starting abandonment watcher")

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "watcher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "watcher shutting down gracefully")
}
