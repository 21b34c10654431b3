package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all workspaced configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Workspace WorkspaceConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// StorageConfig holds registry persistence configuration.
type StorageConfig struct {
	// Backend selects the store implementation: "file" or "memory".
	Backend  string `envconfig:"STORAGE_BACKEND" default:"file"`
	Path     string `envconfig:"STORAGE_PATH" default:"/var/lib/workspaced"`
	Compress bool   `envconfig:"STORAGE_COMPRESS" default:"false"`
}

// WorkspaceConfig holds state engine configuration.
type WorkspaceConfig struct {
	RegistryKey string `envconfig:"REGISTRY_KEY" default:"workspace.applications"`

	// Fallback viewport used when no client supplies one and no
	// display surface is observable.
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"1200"`
	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" default:"1500"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			Backend:  "file",
			Path:     "/var/lib/workspaced",
			Compress: false,
		},
		Workspace: WorkspaceConfig{
			RegistryKey:    "workspace.applications",
			ViewportHeight: 1200,
			ViewportWidth:  1500,
		},
	}
}
