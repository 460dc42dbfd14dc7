package config

import (
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) *Config {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t, nil)

	assert.Equal(t, ":3002", cfg.Addr)
	assert.Empty(t, cfg.AdminPassword)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.CORSOrigin)
}

func TestSigningSecretFallsBackToAdminPassword(t *testing.T) {
	cfg := parse(t, map[string]string{"ADMIN_PASSWORD": "correct-horse"})
	assert.Equal(t, "correct-horse", cfg.SigningSecret())

	cfg = parse(t, map[string]string{
		"ADMIN_PASSWORD": "correct-horse",
		"SESSION_SECRET": "distinct-secret",
	})
	assert.Equal(t, "distinct-secret", cfg.SigningSecret())
}

func TestSanitizeTrimsSecrets(t *testing.T) {
	cfg := parse(t, map[string]string{
		"ADMIN_PASSWORD": "  padded  ",
		"SESSION_SECRET": "\t\n",
	})

	assert.Equal(t, "padded", cfg.AdminPassword)
	assert.Empty(t, cfg.SessionSecret)
	assert.Equal(t, "padded", cfg.SigningSecret())
}

func TestCORSOriginList(t *testing.T) {
	cfg := parse(t, map[string]string{
		"CORS_ORIGIN": "https://broadside.press, https://staging.broadside.press,,*",
	})

	assert.Equal(t,
		[]string{"https://broadside.press", "https://staging.broadside.press"},
		cfg.CORSOrigin)
}
