// Package queue provides the render-job transport with pluggable
// backends: NATS JetStream (default), Redis Streams, Kafka, and an
// in-memory queue for tests and development.
package queue

import "context"

// Type identifies a queue backend.
type Type string

const (
	// TypeNATS is the NATS JetStream backend (default).
	TypeNATS Type = "nats"

	// TypeRedis is the Redis Streams backend.
	TypeRedis Type = "redis"

	// TypeKafka is the Apache Kafka backend.
	TypeKafka Type = "kafka"

	// TypeMemory is the in-memory backend (tests and development).
	TypeMemory Type = "memory"
)

// Publisher publishes messages to a queue.
type Publisher interface {
	// Publish publishes a message to a subject/topic.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection.
	Close() error
}

// MessageHandler handles incoming messages. A non-nil error marks the
// message as failed so the backend can redeliver it.
type MessageHandler func(data []byte) error

// Subscriber subscribes to messages from a queue.
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with a handler.
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic.
	Unsubscribe(subject string) error

	// Close closes the connection.
	Close() error
}

// Queue combines Publisher and Subscriber interfaces.
type Queue interface {
	Publisher
	Subscriber
}
