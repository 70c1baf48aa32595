// Package config builds the console configuration from environment variables
// so main stays lean. Defaults target local development against a backend on
// localhost; production overrides everything through the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures every tunable of the console process.
type Config struct {
	// Addr is the listen address of the console HTTP server.
	Addr string

	// BackendBaseURL is the base URL of the Betelgeuse assignment backend.
	// Empty means same-origin relative paths behind the reverse proxy, which
	// is not usable server-side, so the default points at the dev backend.
	BackendBaseURL string

	// BackendTimeout bounds every backend call. A hung backend request must
	// not pin a poller or a handler forever.
	BackendTimeout time.Duration

	// SessionSigningKey signs the session cookie JWT.
	SessionSigningKey string

	// SessionTTL is the idle lifetime of a console session.
	SessionTTL time.Duration

	// InsecureCookies drops the Secure cookie attribute for plain-HTTP
	// development setups.
	InsecureCookies bool

	// RedisURL enables the Redis session store when set; empty keeps sessions
	// in process memory (single-replica deployments).
	RedisURL string

	// PostgresURL enables the durable action-audit store when set.
	PostgresURL string

	// DashboardPollInterval drives the dashboard and operator snapshot pollers.
	DashboardPollInterval time.Duration

	// StatusPollInterval drives the system pause/resume status poller.
	StatusPollInterval time.Duration

	// LockoutThreshold is the failed-login count that triggers a lockout.
	LockoutThreshold int

	// LockoutDuration is how long a locked identifier stays locked.
	LockoutDuration time.Duration
}

// RedisConfig carries connection tuning for the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis derives the Redis client configuration from the console config.
func (c Config) Redis() RedisConfig {
	return RedisConfig{
		URL:          c.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                  envOr("CONSOLE_ADDR", ":8605"),
		BackendBaseURL:        envOr("BETELGEUSE_API_URL", "http://localhost:5605"),
		BackendTimeout:        envDuration("BETELGEUSE_API_TIMEOUT", 30*time.Second),
		SessionSigningKey:     os.Getenv("CONSOLE_SESSION_KEY"),
		SessionTTL:            envDuration("CONSOLE_SESSION_TTL", 8*time.Hour),
		InsecureCookies:       os.Getenv("CONSOLE_INSECURE_COOKIES") == "true",
		RedisURL:              os.Getenv("CONSOLE_REDIS_URL"),
		PostgresURL:           os.Getenv("CONSOLE_POSTGRES_URL"),
		DashboardPollInterval: envDuration("CONSOLE_DASHBOARD_POLL_INTERVAL", 30*time.Second),
		StatusPollInterval:    envDuration("CONSOLE_STATUS_POLL_INTERVAL", 5*time.Second),
		LockoutThreshold:      envInt("CONSOLE_LOCKOUT_THRESHOLD", 5),
		LockoutDuration:       envDuration("CONSOLE_LOCKOUT_DURATION", 15*time.Minute),
	}

	if cfg.SessionSigningKey == "" {
		// Dev fallback; deployments must set CONSOLE_SESSION_KEY.
		cfg.SessionSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
