package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Flusher drains the event outbox once.
type Flusher interface {
	Flush(ctx context.Context) (int, error)
}

// StartRelay calls Flush every interval until ctx is done. The returned
// channel is closed once the loop has exited.
func StartRelay(ctx context.Context, f Flusher, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := f.Flush(ctx)
				if err != nil && ctx.Err() == nil {
					logger.Error("Event relay flush failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Debug("Event relay delivered events", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}
