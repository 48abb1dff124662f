package cron

import (
	"context"
	"time"

	"bookfair/config"
	"bookfair/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisQueueOpt returns the asynq connection for the event queue.
func RedisQueueOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// InitEventWorker runs the asynq server that delivers queued reservation
// events through sender. The returned func stops it.
func InitEventWorker(cfg config.Config, sender notification.Sender, logger *zap.Logger) func() {
	srv := asynq.NewServer(
		RedisQueueOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeReservationEvent, HandleEventTask(sender, logger))

	ctx, cancel := context.WithCancel(context.Background())
	go monitorRedisConnection(ctx, cfg, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting event worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Event worker failed to start",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err))
				if attempts == maxAttempts {
					logger.Error("Event worker gave up; queued events stay pending until restart")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
				continue
			}
			return
		}
	}()

	return func() {
		cancel()
		srv.Shutdown()
	}
}

// HandleEventTask decodes a reservation event task and hands it to sender.
func HandleEventTask(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ev, err := notification.ParseEventTask(task)
		if err != nil {
			logger.Error("Dropping malformed event task", zap.Error(err))
			// Retrying cannot fix a bad payload.
			return asynq.SkipRetry
		}
		if err := sender.Send(ctx, ev); err != nil {
			logger.Warn("Failed to send reservation notification", zap.String("eventID", ev.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, cfg config.Config, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Event queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
