package config

import (
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name:    "unknown queue type",
			mutate:  func(c *Config) { c.Queue.Type = "rabbitmq" },
			wantErr: true,
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: true,
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.Cache.TTL = -time.Minute },
			wantErr: true,
		},
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.Render.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "negative margin",
			mutate:  func(c *Config) { c.Render.Margin = -0.1 },
			wantErr: true,
		},
		{
			name:    "zero render workers",
			mutate:  func(c *Config) { c.Render.MaxConcurrent = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no config file should fall back to defaults: %v", err)
	}

	if cfg.Server.HTTPPort != 6060 {
		t.Errorf("Expected default port 6060, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Queue.Type != "nats" {
		t.Errorf("Expected default queue type nats, got %s", cfg.Queue.Type)
	}
	if cfg.Render.Margin != 0.10 {
		t.Errorf("Expected default margin 0.10, got %v", cfg.Render.Margin)
	}
}

func TestLoadOrDefault_BadPath(t *testing.T) {
	cfg := LoadOrDefault("/nonexistent/starplot.yaml")
	if cfg == nil {
		t.Fatal("LoadOrDefault should never return nil")
	}
	if cfg.Render.OutputDir != "./charts" {
		t.Errorf("Expected default output dir, got %s", cfg.Render.OutputDir)
	}
}
