package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowmatic/flowmatic/pkg/protocol"
)

// RetryPolicy decides whether and when a failed delivery attempt is
// retried. attempt is 1-based.
type RetryPolicy interface {
	NextDelay(attempt int) (time.Duration, bool)
}

// ExponentialBackoff retries up to MaxAttempts with Base * 2^(attempt-1)
// delays.
type ExponentialBackoff struct {
	Base        time.Duration
	MaxAttempts int
}

func (p ExponentialBackoff) NextDelay(attempt int) (time.Duration, bool) {
	if attempt >= p.MaxAttempts {
		return 0, false
	}

	return p.Base << (attempt - 1), true
}

// AttemptStore tracks delivery attempt counts per message. State is scoped
// to the store instance, never module-global, so independent service
// instances never share counters.
type AttemptStore interface {
	Incr(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// InMemoryAttemptStore keeps counters in a mutex-guarded map.
type InMemoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string]int
}

func NewInMemoryAttemptStore() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{attempts: make(map[string]int)}
}

func (s *InMemoryAttemptStore) Incr(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[key]++

	return s.attempts[key], nil
}

func (s *InMemoryAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.attempts, key)

	return nil
}

// RedisAttemptStore keeps counters in Redis so multi-instance deployments
// share them.
type RedisAttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAttemptStore(client *redis.Client, ttl time.Duration) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, ttl: ttl}
}

func (s *RedisAttemptStore) key(key string) string {
	return "flowmatic:delivery:attempts:" + key
}

func (s *RedisAttemptStore) Incr(ctx context.Context, key string) (int, error) {
	count, err := s.client.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 && s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key(key), s.ttl).Err(); err != nil {
			return int(count), err
		}
	}

	return int(count), nil
}

func (s *RedisAttemptStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// DeliveryService decorates an EmailSender with a retry policy. Node
// executors stay retry-free; this is where backoff lives.
type DeliveryService struct {
	sender   protocol.EmailSender
	policy   RetryPolicy
	attempts AttemptStore
	logger   *slog.Logger
}

func NewDeliveryService(sender protocol.EmailSender, policy RetryPolicy, attempts AttemptStore, logger *slog.Logger) *DeliveryService {
	return &DeliveryService{
		sender:   sender,
		policy:   policy,
		attempts: attempts,
		logger:   logger,
	}
}

// Send implements protocol.EmailSender. Each failed attempt is counted in
// the attempt store; delivery is retried per the policy until it gives up.
func (s *DeliveryService) Send(ctx context.Context, msg protocol.EmailMessage) (*protocol.SendReceipt, error) {
	key := msg.To + "/" + msg.Metadata["nodeId"]

	for {
		receipt, err := s.sender.Send(ctx, msg)
		if err == nil {
			if resetErr := s.attempts.Reset(ctx, key); resetErr != nil {
				s.logger.Warn("Failed to reset delivery attempts", "key", key, "error", resetErr)
			}

			return receipt, nil
		}

		attempt, countErr := s.attempts.Incr(ctx, key)
		if countErr != nil {
			return nil, fmt.Errorf("count delivery attempt: %w", countErr)
		}

		delay, retry := s.policy.NextDelay(attempt)
		if !retry {
			return nil, fmt.Errorf("delivery failed after %d attempts: %w", attempt, err)
		}

		s.logger.Warn("Delivery failed, retrying",
			"to", msg.To,
			"attempt", attempt,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return nil, ctx.Err()
		}
	}
}
