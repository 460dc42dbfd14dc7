// Package config loads Broadside configuration from environment
// variables, with optional .env / .env.local files for development.
package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process-wide configuration. It is read once at startup
// and treated as read-only afterwards.
type Config struct {
	// Addr is the address the HTTP server binds to.
	Addr string `env:"ADDR" envDefault:":3002"`

	// AdminPassword is the single shared admin secret. When empty the
	// public site still serves but the login path answers
	// "not configured".
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// SessionSecret signs session tokens. Falls back to AdminPassword
	// when unset; a distinct value is preferred.
	SessionSecret string `env:"SESSION_SECRET"`

	// CORSOrigin is a comma-separated allowlist of origins. Empty means
	// the request's Origin header is reflected (never a wildcard, since
	// responses carry credentials).
	CORSOrigin []string `env:"CORS_ORIGIN" envSeparator:","`

	// CookieSecure forces the Secure attribute on session cookies even
	// when the server itself terminates plain HTTP (e.g. behind a TLS
	// proxy that doesn't set X-Forwarded-Proto).
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// RateLimitRedisURL, when set, moves login rate-limit state to a
	// shared Redis so counts survive restarts and span instances.
	// Empty means a process-local in-memory limiter.
	RateLimitRedisURL string `env:"RATE_LIMIT_REDIS_URL"`
}

// Load reads .env and .env.local from the working directory (both
// optional, .env.local wins) and then parses the environment.
func Load() (*Config, error) {
	// Missing files are fine; only explicit overrides come from them.
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *Config) Sanitize() {
	c.AdminPassword = strings.TrimSpace(c.AdminPassword)
	c.SessionSecret = strings.TrimSpace(c.SessionSecret)

	origins := c.CORSOrigin[:0]
	for _, o := range c.CORSOrigin {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigin = origins
}

// SigningSecret resolves the session-signing secret: SESSION_SECRET if
// set, otherwise ADMIN_PASSWORD. Empty means signing is unconfigured.
func (c *Config) SigningSecret() string {
	if c.SessionSecret != "" {
		return c.SessionSecret
	}
	return c.AdminPassword
}
