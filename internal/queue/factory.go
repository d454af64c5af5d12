package queue

import (
	"fmt"
	"strings"

	"github.com/starplotd/starplot/internal/config"
)

// New creates a Queue instance based on configuration. Default is NATS
// if type is not specified.
func New(cfg config.QueueConfig) (Queue, error) {
	queueType := Type(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = TypeNATS
	}

	switch queueType {
	case TypeNATS:
		return newNATSQueue(cfg.URL)

	case TypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case TypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case TypeMemory:
		return NewMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}
