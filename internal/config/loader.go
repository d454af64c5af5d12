package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/starplot")
	}

	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("STARPLOT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 6060)

	// Queue defaults
	v.SetDefault("queue.type", "nats")
	v.SetDefault("queue.url", "nats://localhost:4222")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "2h")

	// Render defaults
	v.SetDefault("render.output_dir", "./charts")
	v.SetDefault("render.margin", 0.10)
	v.SetDefault("render.max_concurrent", 4)
	v.SetDefault("render.expiration", "1h")
	v.SetDefault("render.size_inches", 6.0)
	v.SetDefault("render.colorbar_inches", 1.1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into a Config struct.
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns the default
// configuration.
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 6060,
		},
		Queue: QueueConfig{
			Type: "nats",
			URL:  "nats://localhost:4222",
		},
		Cache: CacheConfig{
			Type: "memory",
			TTL:  2 * time.Hour,
		},
		Render: RenderConfig{
			OutputDir:      "./charts",
			Margin:         0.10,
			MaxConcurrent:  4,
			Expiration:     1 * time.Hour,
			SizeInches:     6.0,
			ColorBarInches: 1.1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
