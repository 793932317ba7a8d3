package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/config"
	"renovatrack/internal/db"
	"renovatrack/internal/dedup"
	"renovatrack/internal/mailer"
	"renovatrack/internal/mq"
	"renovatrack/internal/mqhandler"
	redisclient "renovatrack/internal/redis"
	"renovatrack/internal/repository/postgres"
	"renovatrack/internal/service"
	"renovatrack/internal/worker"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting worker service...")

	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	store := postgres.NewStore(dbConn)
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

	notiHandler := mqhandler.NewNotificationHandler(mail, cfg.Mail.AdminEmail, logger)
	dripHandler := mqhandler.NewDripEnrollHandler(dripService, logger)

	// One consumer per concern so a slow notification never delays drip
	// enrolment. lead.captured feeds both.
	type consumerSpec struct {
		routingKey string
		queueKey   string
		handler    mq.MessageHandler
	}
	specs := []consumerSpec{
		{mq.KeyLeadCaptured, mq.KeyLeadCaptured, notiHandler.HandleLeadCaptured},
		{mq.KeyLeadCaptured, mq.KeyLeadCaptured + ".drip", dripHandler.HandleLeadCaptured},
		{mq.KeyEstimateRequested, mq.KeyEstimateRequested, notiHandler.HandleEstimateRequested},
		{mq.KeyMessageReceived, mq.KeyMessageReceived, notiHandler.HandleMessageReceived},
	}

	for _, spec := range specs {
		consumer, err := mq.NewConsumerWithQueue(cfg.MQ.URL, spec.routingKey, spec.queueKey+".q", logger)
		if err != nil {
			logger.Fatal("failed to init consumer",
				zap.String("routing_key", spec.routingKey),
				zap.Error(err),
			)
		}
		consumer.SetHandler(spec.handler)
		go func(c *mq.Consumer, key string) {
			if err := c.StartConsuming(); err != nil {
				logger.Fatal("consumer failed", zap.String("routing_key", key), zap.Error(err))
			}
		}(consumer, spec.routingKey)
		defer consumer.Close()
	}

	logger.Info("All consumers started")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sweeper := worker.NewSweeper(dripService, cfg.Drip.SweepInterval, logger)
	sweeper.Run(ctx)

	logger.Info("Worker shut down")
	os.Exit(0)
}
