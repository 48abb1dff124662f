package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bookfair/models"
	"bookfair/services/notification"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingFlusher struct{ calls int32 }

func (f *countingFlusher) Flush(context.Context) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	return 1, nil
}

func TestStartRelay_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &countingFlusher{}
	done := StartRelay(ctx, f, 5*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&f.calls) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

type stubSender struct {
	err  error
	sent []models.ReservationEvent
}

func (s *stubSender) Send(_ context.Context, ev models.ReservationEvent) error {
	s.sent = append(s.sent, ev)
	return s.err
}

func TestHandleEventTask(t *testing.T) {
	sender := &stubSender{}
	handler := HandleEventTask(sender, zap.NewNop())

	task, _, err := notification.NewEventTask(models.ReservationEvent{ID: "ev-1", ReservationID: "r1"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, sender.sent, 1)

	sender.err = errors.New("unreachable")
	assert.Error(t, handler(context.Background(), task))

	bad := asynq.NewTask(notification.TypeReservationEvent, []byte("nope"))
	assert.ErrorIs(t, handler(context.Background(), bad), asynq.SkipRetry)
}
