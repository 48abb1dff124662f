package notification

import (
	"context"
	"time"

	"bookfair/database/repository"

	"go.uber.org/zap"
)

const defaultBatchSize = 100

// Dispatcher relays committed outbox events to a Publisher. An event is
// marked delivered only after Publish succeeds, so delivery is at least once.
type Dispatcher struct {
	outbox    repository.EventOutbox
	publisher Publisher
	logger    *zap.Logger
	batch     int
	now       func() time.Time
}

func NewDispatcher(outbox repository.EventOutbox, publisher Publisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger,
		batch:     defaultBatchSize,
		now:       time.Now,
	}
}

// Flush publishes the pending events once and reports how many were delivered.
// Failed events stay pending for the next call.
func (d *Dispatcher) Flush(ctx context.Context) (int, error) {
	events, err := d.outbox.PendingEvents(ctx, d.batch)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, ev := range events {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := d.publisher.Publish(ctx, ev); err != nil {
			d.logger.Warn("Event delivery failed",
				zap.String("eventID", ev.ID),
				zap.String("type", string(ev.Type)),
				zap.Int("attempts", ev.Attempts+1),
				zap.Error(err))
			if rerr := d.outbox.RecordFailure(ctx, ev.ID, err.Error()); rerr != nil {
				d.logger.Error("Failed to record delivery failure", zap.String("eventID", ev.ID), zap.Error(rerr))
			}
			continue
		}
		if err := d.outbox.MarkDelivered(ctx, ev.ID, d.now()); err != nil {
			// Publish succeeded; the event will be sent again next tick.
			d.logger.Error("Failed to mark event delivered", zap.String("eventID", ev.ID), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered, nil
}
