package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Queue   QueueConfig   `mapstructure:"queue"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Render  RenderConfig  `mapstructure:"render"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AuthConfig represents authentication configuration.
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// QueueConfig represents render-job queue configuration.
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "starplot")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "starplot-render")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// CacheConfig represents task-state and chart cache configuration.
type CacheConfig struct {
	Type     string        `mapstructure:"type"`     // memory (default) or redis
	URL      string        `mapstructure:"url"`      // Redis URL when type is redis
	Password string        `mapstructure:"password"` // Optional authentication
	DB       int           `mapstructure:"db"`       // Redis database number
	TTL      time.Duration `mapstructure:"ttl"`      // Default entry lifetime
}

// RenderConfig represents chart rendering configuration.
type RenderConfig struct {
	OutputDir      string        `mapstructure:"output_dir"`      // Directory for finished charts
	Margin         float64       `mapstructure:"margin"`          // Default window margin fraction
	MaxConcurrent  int           `mapstructure:"max_concurrent"`  // Concurrent render workers
	Expiration     time.Duration `mapstructure:"expiration"`      // Finished chart lifetime
	SizeInches     float64       `mapstructure:"size_inches"`     // Square plot edge length
	ColorBarInches float64       `mapstructure:"colorbar_inches"` // Color bar strip width
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration.
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates queue configuration.
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "", "nats", "redis", "kafka", "memory":
		return nil
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}
}

// Validate validates cache configuration.
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("cache.type must be 'memory' or 'redis'")
	}

	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// Validate validates render configuration.
func (c *RenderConfig) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("render.output_dir is required")
	}

	if c.Margin < 0 {
		return fmt.Errorf("render.margin must not be negative")
	}

	if c.MaxConcurrent < 1 {
		return fmt.Errorf("render.max_concurrent must be at least 1")
	}

	if c.Expiration <= 0 {
		return fmt.Errorf("render.expiration must be positive")
	}

	return nil
}

// Validate validates logging configuration.
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
