package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/config"
	"renovatrack/internal/db"
	"renovatrack/internal/dedup"
	"renovatrack/internal/handler"
	"renovatrack/internal/httpserver"
	"renovatrack/internal/mailer"
	"renovatrack/internal/mq"
	"renovatrack/internal/mqhandler"
	redisclient "renovatrack/internal/redis"
	"renovatrack/internal/repository"
	"renovatrack/internal/repository/memory"
	"renovatrack/internal/repository/postgres"
	"renovatrack/internal/service"
	"renovatrack/internal/worker"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Storage backend is chosen by configuration, never by probing.
	var store *repository.Store
	switch cfg.Storage.Driver {
	case "postgres":
		dbConn, err := db.NewConnection(cfg.DB, logger)
		if err != nil {
			logger.Fatal("DB initialization failed", zap.Error(err))
		}
		defer dbConn.Close()
		store = postgres.NewStore(dbConn)
	case "memory":
		logger.Info("Using in-memory storage")
		store = memory.NewStore()
	default:
		logger.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}

	mail := mailer.New(cfg.Mail, logger)

	var guard service.DedupGuard
	if cfg.Redis.Addr != "" {
		rdb := redisclient.NewClient(cfg.Redis)
		defer rdb.Close()
		guard = dedup.NewDeduper(rdb, time.Hour)
	}

	dripService := service.NewDripService(
		store.Subscribers, store.DripJobs, store.CampaignSends,
		mail, guard, logger,
		cfg.Drip.Step2Delay, cfg.Drip.Step3Delay,
	)

	// In memory mode everything runs in this one process: events dispatch on
	// an in-process bus and the drip sweeper runs alongside the server. In
	// postgres mode events go through RabbitMQ and cmd/worker owns delivery.
	var publisher mq.Publisher
	switch cfg.Storage.Driver {
	case "postgres":
		producer, err := mq.NewProducer(cfg.MQ.URL)
		if err != nil {
			logger.Fatal("failed to init publisher", zap.Error(err))
		}
		defer producer.Close()
		publisher = producer
	default:
		bus := mq.NewInprocBus(logger)
		notiHandler := mqhandler.NewNotificationHandler(mail, cfg.Mail.AdminEmail, logger)
		dripHandler := mqhandler.NewDripEnrollHandler(dripService, logger)
		bus.Subscribe(mq.KeyLeadCaptured, notiHandler.HandleLeadCaptured)
		bus.Subscribe(mq.KeyLeadCaptured, dripHandler.HandleLeadCaptured)
		bus.Subscribe(mq.KeyEstimateRequested, notiHandler.HandleEstimateRequested)
		bus.Subscribe(mq.KeyMessageReceived, notiHandler.HandleMessageReceived)
		publisher = bus

		sweeper := worker.NewSweeper(dripService, cfg.Drip.SweepInterval, logger)
		go sweeper.Run(context.Background())
	}

	authService := service.NewAuthService(store.Users, cfg.Auth.JWTSecret, logger)
	if err := authService.SeedAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	projectService := service.NewProjectService(store.Projects, store.ProjectLogs, store.Milestones, logger)
	leadService := service.NewLeadService(store.Leads, publisher, logger)
	estimateService := service.NewEstimateService(store.Estimates, publisher, logger)
	messageService := service.NewMessageService(store.Messages, publisher, logger)

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Project:     handler.NewProjectHandler(projectService),
		Track:       handler.NewTrackHandler(projectService),
		Lead:        handler.NewLeadHandler(leadService),
		Estimate:    handler.NewEstimateHandler(estimateService),
		Message:     handler.NewMessageHandler(messageService),
		Testimonial: handler.NewTestimonialHandler(store.Testimonials),
		Subscriber:  handler.NewSubscriberHandler(dripService),
		Chat:        handler.NewChatHandler(store.Chat),
	}, cfg.Auth.JWTSecret, cfg.Server.CORSOrigins)

	logger.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
