package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	redisclient "github.com/chamorrodict/dictsearch/internal/infrastructure/clients/redis"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
)

// subscriberBuffer is how many runs a slow subscriber may fall behind.
const subscriberBuffer = 16

// RedisEventBus implements the EventBus interface using Redis Pub/Sub
type RedisEventBus struct {
	client *redisclient.Client
	// subscriptions holds the live Redis subscription per channel
	subscriptions map[string]io.Closer
	subscribers   map[string]map[chan *entities.EvaluationRun]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]io.Closer),
		subscribers:   make(map[string]map[chan *entities.EvaluationRun]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// Publish publishes a run to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, run *entities.EvaluationRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish run: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().Str("channel", channel).Str("run_id", run.ID).Msg("published run")
	return nil
}

// Subscribe subscribes to runs on a channel. The returned channel is closed
// when ctx ends or the bus is closed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.EvaluationRun, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		if _, err := pubsub.Receive(ctx); err != nil {
			pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub, pubsub.Channel())
	}

	return b.addSubscriber(ctx, channel), nil
}

// addSubscriber registers a buffered subscriber that is removed when ctx
// ends. b.mu must be held.
func (b *RedisEventBus) addSubscriber(ctx context.Context, channel string) <-chan *entities.EvaluationRun {
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.EvaluationRun]struct{})
	}

	runs := make(chan *entities.EvaluationRun, subscriberBuffer)
	b.subscribers[channel][runs] = struct{}{}

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, runs)
	}()
	return runs
}

// receiveMessages delivers messages until msgs closes or the bus shuts
// down, then releases channel if sub still owns it.
func (b *RedisEventBus) receiveMessages(channel string, sub io.Closer, msgs <-chan *redis.Message) {
	defer func() {
		if err := b.cleanupChannel(channel, sub); err != nil {
			observability.GetLogger().Warn().Err(err).Str("channel", channel).Msg("failed to clean up channel")
		}
	}()

	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			b.deliver(channel, msg.Payload)
		}
	}
}

// deliver hands a decoded run to every subscriber of channel without
// blocking; full subscribers miss it.
func (b *RedisEventBus) deliver(channel, payload string) {
	logger := observability.GetLogger()

	run, err := decodeRun(payload)
	if err != nil {
		logger.Warn().Err(err).Str("channel", channel).Msg("dropping malformed run")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- run:
		default:
			logger.Warn().Str("channel", channel).Str("run_id", run.ID).Msg("subscriber full, skipping run")
		}
	}
}

func decodeRun(payload string) (*entities.EvaluationRun, error) {
	var run entities.EvaluationRun
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	if run.ID == "" {
		return nil, errors.New("run has no id")
	}
	return &run, nil
}

func (b *RedisEventBus) removeSubscriber(channel string, runs chan *entities.EvaluationRun) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[runs]; !ok {
		return
	}

	delete(subscribers, runs)
	close(runs)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
		if sub, ok := b.subscriptions[channel]; ok {
			delete(b.subscriptions, channel)
			_ = sub.Close()
		}
	}
}

// cleanupChannel closes channel's subscribers and subscription, unless a
// newer subscription has replaced sub in the meantime.
func (b *RedisEventBus) cleanupChannel(channel string, sub io.Closer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if current, ok := b.subscriptions[channel]; !ok || current != sub {
		return nil
	}
	delete(b.subscriptions, channel)

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)

	if err := sub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	subs := make(map[string]io.Closer, len(b.subscriptions))
	for channel, sub := range b.subscriptions {
		subs[channel] = sub
	}
	b.mu.RUnlock()

	var errs []error
	for channel, sub := range subs {
		if err := b.cleanupChannel(channel, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
