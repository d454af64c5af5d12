package queue

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig represents Redis Streams configuration.
type RedisConfig struct {
	URL      string // Redis URL (e.g., redis://localhost:6379)
	Password string // Optional password
	DB       int    // Database number (default: 0)
	Stream   string // Stream key prefix (default: "starplot")
	Group    string // Consumer group name (default: "starplot-render")
	Consumer string // Consumer name (default: hostname)
}

// RedisQueue implements the Queue interface using Redis Streams.
type RedisQueue struct {
	client        *redis.Client
	config        RedisConfig
	subscriptions map[string]context.CancelFunc
	mu            sync.RWMutex
}

// newRedisQueue creates a new Redis Streams queue instance.
func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to plain address form
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = "starplot"
	}
	if cfg.Group == "" {
		cfg.Group = "starplot-render"
	}
	if cfg.Consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "consumer-1"
		}
		cfg.Consumer = hostname
	}

	return &RedisQueue{
		client:        client,
		config:        cfg,
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// streamKey maps a subject to its Redis stream key.
func (q *RedisQueue) streamKey(subject string) string {
	return q.config.Stream + ":" + subject
}

// Publish appends a message to the subject's stream.
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey(subject),
		Values: map[string]interface{}{"data": data},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Subscribe creates the consumer group if needed and starts a reader
// loop. Handled messages are acknowledged; handler failures leave the
// entry pending for redelivery.
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	if _, exists := q.subscriptions[subject]; exists {
		q.mu.Unlock()
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	q.mu.Unlock()

	stream := q.streamKey(subject)

	// Create consumer group starting from new messages. BUSYGROUP
	// means it already exists, which is fine.
	ctx, cancel := context.WithCancel(context.Background())
	if err := q.client.XGroupCreateMkStream(ctx, stream, q.config.Group, "$").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			cancel()
			return fmt.Errorf("failed to create consumer group for %s: %w", subject, err)
		}
	}

	q.mu.Lock()
	q.subscriptions[subject] = cancel
	q.mu.Unlock()

	go q.consumeLoop(ctx, stream, handler)

	return nil
}

// consumeLoop reads messages for one stream until the context is
// cancelled.
func (q *RedisQueue) consumeLoop(ctx context.Context, stream string, handler MessageHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{stream, ">"},
			Count:    16,
			Block:    2 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			// Transient read failure, back off briefly.
			time.Sleep(time.Second)
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				data, ok := msg.Values["data"].(string)
				if !ok {
					_ = q.client.XAck(ctx, stream, q.config.Group, msg.ID).Err()
					continue
				}

				if err := handler([]byte(data)); err != nil {
					// Leave unacked for redelivery via XAUTOCLAIM or
					// a restarted consumer.
					continue
				}

				_ = q.client.XAck(ctx, stream, q.config.Group, msg.ID).Err()
			}
		}
	}
}

// Unsubscribe stops the reader loop for a subject.
func (q *RedisQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops all reader loops and closes the client.
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	return q.client.Close()
}
