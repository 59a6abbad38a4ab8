package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"app",
		"-a", ":9090",
		"-d", "postgres://u:p@localhost:5432/db",
		"-s", "flag-secret",
		"-i", "issuer-x",
		"-u", "aud-x",
		"-t", "30",
		"-r", "14",
		"-k", "api-key-x",
		"-o", "User",
		"-w", "60",
		"-p", "5",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@localhost:5432/db", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, "issuer-x", cfg.JWTIssuer)
	assert.Equal(t, "aud-x", cfg.JWTAudience)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "api-key-x", cfg.APIKey)
	assert.Equal(t, "User", cfg.APIKeyRole)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.RateLimitPermits)
}

func TestParseFlags_KeepsDefaultsWhenAbsent(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"app", "-a", ":7070"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "secretKey", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
}
