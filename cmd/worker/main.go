package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/karibuhq/wabroadcast-backend/internal/config"
	"github.com/karibuhq/wabroadcast-backend/internal/db"
	"github.com/karibuhq/wabroadcast-backend/internal/dispatch"
	"github.com/karibuhq/wabroadcast-backend/internal/logging"
	"github.com/karibuhq/wabroadcast-backend/internal/queue"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
)

func main() {
	logger := logging.New("worker")

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	// The worker owns its pool outright; it never shares storage sessions
	// with the API server.
	pool, err := db.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	amqpQueue, err := queue.ConnectAMQP(cfg.AMQPURL, cfg.DispatchQueue)
	if err != nil {
		logger.Fatal().Err(err).Msg("queue connection failed")
	}
	defer amqpQueue.Close()

	dispatcher := &dispatch.Dispatcher{
		Broadcasts:  &repository.BroadcastRepository{DB: pool},
		Members:     &repository.MemberRepository{DB: pool},
		Orgs:        &repository.OrganizationRepository{DB: pool},
		Logs:        &repository.BroadcastLogRepository{DB: pool},
		NewSender:   dispatch.WhatsappSenderFactory(cfg.WhatsappBaseURL),
		Concurrency: cfg.DispatchConcurrency,
		SendRate:    cfg.SendRate,
		SendTimeout: cfg.SendTimeout,
		Logger:      logger,
	}

	consumer := queue.NewConsumer(amqpQueue, logger)

	logger.Info().Str("queue", cfg.DispatchQueue).Msg("worker running, waiting for dispatch jobs")
	if err := consumer.Run(func(job queue.DispatchJob) error {
		return dispatcher.Dispatch(context.Background(), job.BroadcastID)
	}); err != nil {
		logger.Fatal().Err(err).Msg("consumer stopped")
	}
}
