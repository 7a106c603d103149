package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/arleipolo/storefront-backend/api"
	"github.com/arleipolo/storefront-backend/api/controllers"
	"github.com/arleipolo/storefront-backend/api/routes"
	authsvc "github.com/arleipolo/storefront-backend/internal/auth"
	contactsvc "github.com/arleipolo/storefront-backend/internal/contact"
	"github.com/arleipolo/storefront-backend/internal/mailer"
	mediasvc "github.com/arleipolo/storefront-backend/internal/media"
	productsvc "github.com/arleipolo/storefront-backend/internal/products"
	remindersvc "github.com/arleipolo/storefront-backend/internal/reminder"
	"github.com/arleipolo/storefront-backend/internal/users"
	"github.com/arleipolo/storefront-backend/pkg/config"
	"github.com/arleipolo/storefront-backend/pkg/db"
	"github.com/arleipolo/storefront-backend/pkg/logger"
	"github.com/arleipolo/storefront-backend/pkg/redis"
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
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	// The watcher binary reads cart sessions out of the same redis; the API
	// itself only health-checks it, so a failed connection is a warning here.
	var redisPinger controllers.Pinger
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "redis unavailable, cart persistence degraded")
	} else {
		redisPinger = redisClient
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	sender, err := mailer.NewSMTPSender(cfg.Mail, logg)
	if err != nil {
		logg.Error(ctx, "failed to configure mail transport", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:    users.NewGormRepository(dbClient.DB()),
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
		Flags:       cfg.FeatureFlags,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.NewGormRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	contactService, err := contactsvc.NewService(sender, cfg.Mail.ContactTo, logg)
	if err != nil {
		logg.Error(ctx, "failed to create contact service", err)
		os.Exit(1)
	}

	reminderService, err := remindersvc.NewService(remindersvc.ServiceParams{
		Sender:  sender,
		CartURL: cfg.App.CartURL(),
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create reminder service", err)
		os.Exit(1)
	}

	var mediaService mediasvc.Service
	if cfg.Media.CloudinaryURL != "" {
		mediaService, err = mediasvc.NewService(cfg.Media, logg)
		if err != nil {
			logg.Error(ctx, "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "cloudinary not configured, media endpoints disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(cfg, logg, dbClient, redisPinger, routes.Services{
		Auth:     authService,
		Products: productService,
		Contact:  contactService,
		Reminder: reminderService,
		Media:    mediaService,
	}, registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	if err := api.Serve(ctx, addr, handler, logg); err != nil {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
