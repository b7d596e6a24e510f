// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const minSecretLength = 32

// Config is the server configuration. Every field maps to one environment variable.
type Config struct {
	Port   int    `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"./data/loveeee.db"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// JWTSecret signs session tokens. When empty and auth is optional the
	// server generates a per-process secret.
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	TokenDuration time.Duration `envconfig:"TOKEN_DURATION" default:"24h"`
	RequireAuth   bool          `envconfig:"REQUIRE_AUTH" default:"false"`

	// AMQPURL enables event publishing when set.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"loveeee.events"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	// TrustedProxies lists the CIDRs or addresses whose X-Forwarded-For is
	// believed. Empty means the socket peer is always the client.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	DefaultCurrency string        `envconfig:"DEFAULT_CURRENCY" default:"VND"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "database path cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.RequireAuth && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required when REQUIRE_AUTH is enabled")
	} else if c.JWTSecret != "" && len(c.JWTSecret) < minSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.TokenDuration <= 0 {
		problems = append(problems, "token duration must be positive")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitPerMinute <= 0 {
		problems = append(problems, "rate limit must be a positive number of requests per minute")
	}
	for _, proxy := range c.TrustedProxies {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			problems = append(problems, fmt.Sprintf("invalid trusted proxy '%s': must be an IP address or CIDR", proxy))
		}
	}

	if len(c.DefaultCurrency) != 3 {
		problems = append(problems, fmt.Sprintf("invalid default currency '%s': must be a 3-letter code", c.DefaultCurrency))
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "shutdown timeout must be positive")
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// EventsEnabled reports whether domain events go to RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}
