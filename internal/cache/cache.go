// Package cache stores render-task state and finished chart bytes,
// backed by memory or Redis. Values are snappy-compressed before they
// reach the backend.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/starplotd/starplot/internal/config"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a byte-value cache with per-entry TTL.
type Store interface {
	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// New creates a Store based on configuration. Default is the in-memory
// backend.
func New(cfg config.CacheConfig) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return newRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: memory, redis)", cfg.Type)
	}
}

// encode snappy-compresses a value for storage.
func encode(value []byte) []byte {
	return snappy.Encode(nil, value)
}

// decode reverses encode.
func decode(stored []byte) ([]byte, error) {
	value, err := snappy.Decode(nil, stored)
	if err != nil {
		return nil, fmt.Errorf("cache: snappy decode failed: %w", err)
	}
	return value, nil
}
