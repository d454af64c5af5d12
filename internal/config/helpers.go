package config

import (
	"os"
	"path/filepath"
)

// EnsureDirectories ensures all required directories exist.
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.Render.OutputDir, 0o755)
}

// ChartPath returns the full path for a finished chart file.
func (c *Config) ChartPath(filename string) string {
	return filepath.Join(c.Render.OutputDir, filename)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}
