package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-lost-found/internal/config"
	domainReport "campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/infrastructure/database/postgres"
	"campus-lost-found/internal/logger"
	"campus-lost-found/internal/media"
	"campus-lost-found/internal/middleware"
	"campus-lost-found/internal/notification"
	"campus-lost-found/internal/routes"
	"campus-lost-found/internal/usecase/auth"
	"campus-lost-found/internal/usecase/report"
	"campus-lost-found/internal/usecase/user"
	"campus-lost-found/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	userRepository := postgres.NewUserRepository(db)
	reportRepository := postgres.NewReportRepository(db)
	tokenService := auth.NewService(userRepository, cfg.JWT)

	var images domainReport.ImageStore
	if cfg.Media.Bucket != "" {
		store, err := media.NewS3Store(context.Background(), cfg.Media)
		if err != nil {
			logger.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		images = store
	} else {
		logger.Warn("MEDIA_BUCKET is not set, report images are disabled")
	}

	var publisher notification.EventPublisher
	if cfg.MQTT.Broker != "" {
		mqttClient := mqtt.NewClient(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		}, logger.Named("mqtt"))

		if err := mqttClient.Connect(); err != nil {
			logger.Warn("MQTT broker unavailable, report events are disabled", zap.Error(err))
		} else {
			defer mqttClient.Disconnect()
			publisher = notification.NewMQTTPublisher(mqttClient, cfg.MQTT.TopicPrefix)
		}
	}

	var sender notification.Sender
	if cfg.SMTP.Host != "" {
		smtpSender, err := notification.NewSMTPSender(cfg.SMTP, cfg.Notification.SendTimeout)
		if err != nil {
			logger.Fatal("Failed to initialize mailer", zap.Error(err))
		}
		sender = smtpSender
	} else {
		logger.Warn("SMTP_HOST is not set, report emails are disabled")
	}

	var notifier report.Notifier
	var dispatcher *notification.Dispatcher
	if sender != nil || publisher != nil {
		dispatcher = notification.NewDispatcher(userRepository, sender, publisher, notification.Options{
			Workers:      cfg.Notification.Workers,
			QueueSize:    cfg.Notification.QueueSize,
			SendTimeout:  cfg.Notification.SendTimeout,
			DashboardURL: cfg.Notification.DashboardURL,
		})
		dispatcher.Start()
		notifier = dispatcher
	}

	userService := user.NewService(userRepository, tokenService)
	reportService := report.NewService(reportRepository, userRepository, images, notifier)

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()

	deps := routes.Dependencies{
		DB:          db,
		Tokens:      tokenService,
		Users:       userService,
		Reports:     reportService,
		RateLimiter: middleware.NewRateLimiter(limiterCtx, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst),
	}
	if dispatcher != nil {
		deps.Stats = func() interface{} { return dispatcher.Stats() }
	}

	router := routes.SetupRoutes(cfg, deps)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	// in-flight requests are done, so no more jobs can be queued
	if dispatcher != nil {
		dispatcher.Stop()
	}

	log.Println("Server exited properly")
}
