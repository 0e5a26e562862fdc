// Package config loads service configuration: built-in defaults, then an
// optional TOML file, then environment variable overrides. TOML is parsed
// as data only; the env names match the original deployment contract.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultSecret is the placeholder secret. Startup warns loudly when it
// is still in place.
const DefaultSecret = "default-secret-change-me"

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all service configuration.
type Config struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	JWTSecret          string   `toml:"jwt_secret"`
	TokenExpireMinutes int      `toml:"token_expire_minutes"`
	ReplayCacheSize    int      `toml:"replay_cache_size"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
	InfoRateLimit      int      `toml:"info_rate_limit_per_minute"`
	FetchTimeoutSec    int      `toml:"fetch_timeout_seconds"`
	ProxyTimeoutMin    int      `toml:"proxy_timeout_minutes"`
	CORSOrigins        []string `toml:"cors_origins"`
	YTDLPBinary        string   `toml:"ytdlp_binary"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               8000,
		JWTSecret:          DefaultSecret,
		TokenExpireMinutes: 30,
		ReplayCacheSize:    1000,
		RateLimitPerMinute: 60,
		InfoRateLimit:      30,
		FetchTimeoutSec:    15,
		ProxyTimeoutMin:    10,
		CORSOrigins:        []string{"*"},
		YTDLPBinary:        "yt-dlp",
	}
}

// Load builds the effective configuration: defaults, then the TOML file
// named by CONFIG_FILE (or ./config.toml when present), then env vars.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.toml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// File is optional.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file and default values from environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("YTDLP_BINARY"); v != "" {
		c.YTDLPBinary = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.CORSOrigins = origins
	}

	envInt("PORT", &c.Port)
	envInt("TOKEN_EXPIRE_MINUTES", &c.TokenExpireMinutes)
	envInt("REPLAY_CACHE_SIZE", &c.ReplayCacheSize)
	envInt("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	envInt("INFO_RATE_LIMIT_PER_MINUTE", &c.InfoRateLimit)
	envInt("FETCH_TIMEOUT_SECONDS", &c.FetchTimeoutSec)
	envInt("PROXY_TIMEOUT_MINUTES", &c.ProxyTimeoutMin)
}

func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("[CONFIG] ignoring invalid value", "var", name, "value", v)
		return
	}
	*dst = n
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: empty jwt_secret", ErrInvalidConfig)
	}
	if c.TokenExpireMinutes <= 0 {
		return fmt.Errorf("%w: token_expire_minutes %d", ErrInvalidConfig, c.TokenExpireMinutes)
	}
	if c.RateLimitPerMinute <= 0 || c.InfoRateLimit <= 0 {
		return fmt.Errorf("%w: rate limits must be positive", ErrInvalidConfig)
	}
	return nil
}

// TokenTTL returns the token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireMinutes) * time.Minute
}

// FetchTimeout returns the page/backend fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// ProxyTimeout returns the full proxy transfer timeout.
func (c *Config) ProxyTimeout() time.Duration {
	return time.Duration(c.ProxyTimeoutMin) * time.Minute
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
