package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/pkg/protocol"
)

type flakySender struct {
	failures int
	calls    int
}

func (s *flakySender) Send(_ context.Context, _ protocol.EmailMessage) (*protocol.SendReceipt, error) {
	s.calls++

	if s.calls <= s.failures {
		return nil, errors.New("provider unavailable")
	}

	return &protocol.SendReceipt{MessageID: "msg-1"}, nil
}

func deliveryLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testMessage() protocol.EmailMessage {
	return protocol.EmailMessage{
		To:       "ada@example.com",
		Metadata: map[string]string{"nodeId": "notify"},
	}
}

func TestExponentialBackoff(t *testing.T) {
	policy := ExponentialBackoff{Base: time.Second, MaxAttempts: 3}

	delay, retry := policy.NextDelay(1)
	assert.True(t, retry)
	assert.Equal(t, time.Second, delay)

	delay, retry = policy.NextDelay(2)
	assert.True(t, retry)
	assert.Equal(t, 2*time.Second, delay)

	_, retry = policy.NextDelay(3)
	assert.False(t, retry)
}

func TestDeliveryService_SucceedsFirstAttempt(t *testing.T) {
	sender := &flakySender{}
	service := NewDeliveryService(sender,
		ExponentialBackoff{Base: time.Millisecond, MaxAttempts: 3},
		NewInMemoryAttemptStore(),
		deliveryLogger())

	receipt, err := service.Send(context.Background(), testMessage())

	require.NoError(t, err)
	assert.Equal(t, "msg-1", receipt.MessageID)
	assert.Equal(t, 1, sender.calls)
}

func TestDeliveryService_RetriesUntilSuccess(t *testing.T) {
	sender := &flakySender{failures: 2}
	attempts := NewInMemoryAttemptStore()
	service := NewDeliveryService(sender,
		ExponentialBackoff{Base: time.Millisecond, MaxAttempts: 5},
		attempts,
		deliveryLogger())

	receipt, err := service.Send(context.Background(), testMessage())

	require.NoError(t, err)
	assert.Equal(t, "msg-1", receipt.MessageID)
	assert.Equal(t, 3, sender.calls)

	// Success resets the counter, so the next failure starts from one.
	count, err := attempts.Incr(context.Background(), "ada@example.com/notify")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeliveryService_GivesUpAfterMaxAttempts(t *testing.T) {
	sender := &flakySender{failures: 10}
	service := NewDeliveryService(sender,
		ExponentialBackoff{Base: time.Millisecond, MaxAttempts: 3},
		NewInMemoryAttemptStore(),
		deliveryLogger())

	_, err := service.Send(context.Background(), testMessage())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery failed after 3 attempts")
	assert.Equal(t, 3, sender.calls)
}

func TestDeliveryService_ContextCancelledDuringBackoff(t *testing.T) {
	sender := &flakySender{failures: 10}
	service := NewDeliveryService(sender,
		ExponentialBackoff{Base: time.Minute, MaxAttempts: 5},
		NewInMemoryAttemptStore(),
		deliveryLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := service.Send(ctx, testMessage())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, sender.calls)
}

func TestInMemoryAttemptStore(t *testing.T) {
	store := NewInMemoryAttemptStore()
	ctx := context.Background()

	count, err := store.Incr(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.Incr(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Independent keys never share counters.
	count, err = store.Incr(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.Reset(ctx, "key"))

	count, err = store.Incr(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
