// Package server provides configuration helpers that define runtime defaults,
// validation, and transport parameters for the roomchat service.
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Tyrowin/roomchat/internal/history"
)

const (
	defaultPort            = ":8080"
	defaultOrigin          = "http://localhost:8080"
	defaultMaxMessageSize  = 64 * 1024
	defaultBurst           = 10
	defaultRefillInterval  = time.Second
	defaultLoginTimeout    = 10 * time.Second
	defaultDisplayName     = "Anonymous"
	defaultSendBuffer      = 256
	defaultShutdownTimeout = 10 * time.Second
)

// RateLimitConfig defines the parameters for per-connection message rate limiting.
type RateLimitConfig struct {
	Burst          int           `env:"BURST"    envDefault:"10"`
	RefillInterval time.Duration `env:"INTERVAL" envDefault:"1s"`
}

// Config holds the server configuration settings including security controls.
type Config struct {
	Port              string          `env:"ADDR"               envDefault:":8080"`
	AllowedOrigins    []string        `env:"ALLOWED_ORIGINS"    envDefault:"http://localhost:8080" envSeparator:","`
	MaxMessageSize    int64           `env:"MAX_MESSAGE_SIZE"   envDefault:"65536"`
	EnableCompression bool            `env:"ENABLE_COMPRESSION" envDefault:"true"`
	RateLimit         RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	LoginTimeout      time.Duration   `env:"LOGIN_TIMEOUT"      envDefault:"10s"`
	HistorySize       int             `env:"HISTORY_SIZE"       envDefault:"500"`
	DefaultName       string          `env:"DEFAULT_NAME"       envDefault:"Anonymous"`
	SendBuffer        int             `env:"SEND_BUFFER"        envDefault:"256"`
	ShutdownTimeout   time.Duration   `env:"SHUTDOWN_TIMEOUT"   envDefault:"10s"`
	StatsInterval     time.Duration   `env:"STATS_INTERVAL"     envDefault:"0s"`
	LogLevel          string          `env:"LOG_LEVEL"          envDefault:"info"`
	LogFormat         string          `env:"LOG_FORMAT"         envDefault:"console"`
}

// envPrefix namespaces every variable read by LoadConfig.
const envPrefix = "ROOMCHAT_"

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	return &Config{
		Port:              defaultPort,
		AllowedOrigins:    []string{defaultOrigin},
		MaxMessageSize:    defaultMaxMessageSize,
		EnableCompression: true,
		RateLimit: RateLimitConfig{
			Burst:          defaultBurst,
			RefillInterval: defaultRefillInterval,
		},
		LoginTimeout:    defaultLoginTimeout,
		HistorySize:     history.DefaultCapacity,
		DefaultName:     defaultDisplayName,
		SendBuffer:      defaultSendBuffer,
		ShutdownTimeout: defaultShutdownTimeout,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// LoadConfig reads ROOMCHAT_* environment variables over the defaults and
// sanitizes the result.
func LoadConfig() (*Config, error) {
	return loadConfig(env.Options{Prefix: envPrefix})
}

func loadConfig(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	sanitized := cfg.sanitize()
	return &sanitized, nil
}

// sanitize replaces unusable values with defaults and normalizes origins.
func (c Config) sanitize() Config {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = defaultBurst
	}
	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = defaultRefillInterval
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = defaultLoginTimeout
	}
	if c.HistorySize <= 0 {
		c.HistorySize = history.DefaultCapacity
	}
	if c.DefaultName == "" {
		c.DefaultName = defaultDisplayName
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = defaultSendBuffer
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.StatsInterval < 0 {
		c.StatsInterval = 0
	}
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins
	return c
}
