package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookfair/models"

	"github.com/hibiken/asynq"
)

// TypeReservationEvent is the asynq task type carrying a reservation event.
const TypeReservationEvent = "reservation:event"

// Publisher hands an event to whatever delivers it.
type Publisher interface {
	Publish(ctx context.Context, ev models.ReservationEvent) error
}

// DirectPublisher delivers synchronously through a Sender.
type DirectPublisher struct {
	Sender Sender
}

func (p DirectPublisher) Publish(ctx context.Context, ev models.ReservationEvent) error {
	return p.Sender.Send(ctx, ev)
}

// Enqueuer is the asynq client surface QueuePublisher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuePublisher enqueues events for the background worker.
type QueuePublisher struct {
	client Enqueuer
	queue  string
}

func NewQueuePublisher(client Enqueuer, queue string) *QueuePublisher {
	if queue == "" {
		queue = "default"
	}
	return &QueuePublisher{client: client, queue: queue}
}

func (p *QueuePublisher) Publish(ctx context.Context, ev models.ReservationEvent) error {
	task, opts, err := NewEventTask(ev)
	if err != nil {
		return err
	}
	opts = append(opts, asynq.Queue(p.queue))
	if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
		// The event ID is the task ID, so a conflict means it is already queued.
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue event %s: %w", ev.ID, err)
	}
	return nil
}

// NewEventTask builds the task for ev, keyed by the event ID.
func NewEventTask(ev models.ReservationEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReservationEvent, b)
	opts := []asynq.Option{asynq.TaskID(ev.ID), asynq.MaxRetry(10)}
	return task, opts, nil
}

// ParseEventTask decodes the event carried by task.
func ParseEventTask(task *asynq.Task) (models.ReservationEvent, error) {
	var ev models.ReservationEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		return ev, fmt.Errorf("invalid %s payload: %w", TypeReservationEvent, err)
	}
	if ev.ID == "" || ev.ReservationID == "" {
		return ev, fmt.Errorf("invalid %s payload: missing identifiers", TypeReservationEvent)
	}
	return ev, nil
}
