package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig represents Kafka queue configuration.
type KafkaConfig struct {
	Brokers []string // Broker addresses (e.g., ["localhost:9092"])
	GroupID string   // Consumer group ID (default: "starplot-render")
}

// KafkaQueue implements the Queue interface using Apache Kafka. One
// writer is shared for all topics; each subscription owns a reader.
type KafkaQueue struct {
	config  KafkaConfig
	writer  *kafka.Writer
	readers map[string]*kafkaSubscription
	mu      sync.RWMutex
}

type kafkaSubscription struct {
	reader *kafka.Reader
	cancel context.CancelFunc
}

// newKafkaQueue creates a new Kafka queue instance.
func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "starplot-render"
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}

	return &KafkaQueue{
		config:  cfg,
		writer:  writer,
		readers: make(map[string]*kafkaSubscription),
	}, nil
}

// Publish writes a message to a topic.
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	err := q.writer.WriteMessages(ctx, kafka.Message{
		Topic: subject,
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", subject, err)
	}
	return nil
}

// Subscribe starts a consumer-group reader for a topic. Messages are
// committed only after the handler succeeds.
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.readers[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  q.config.Brokers,
		GroupID:  q.config.GroupID,
		Topic:    subject,
		MinBytes: 1,
		MaxBytes: 10 << 20,
		MaxWait:  2 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.readers[subject] = &kafkaSubscription{reader: reader, cancel: cancel}

	go func() {
		for {
			msg, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(time.Second)
				continue
			}

			if err := handler(msg.Value); err != nil {
				// Skip commit; the group will redeliver after rebalance.
				continue
			}

			_ = reader.CommitMessages(ctx, msg)
		}
	}()

	return nil
}

// Unsubscribe stops the reader for a topic.
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.readers[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}

	sub.cancel()
	err := sub.reader.Close()
	delete(q.readers, subject)
	return err
}

// Close stops all readers and the shared writer.
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.readers {
		sub.cancel()
		_ = sub.reader.Close()
		delete(q.readers, subject)
	}

	return q.writer.Close()
}
