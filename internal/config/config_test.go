package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "session_token", cfg.SessionCookieName)
	assert.Equal(t, int64(5<<20), cfg.MaxEvidenceBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("EVIDENCE_BASE_URL", "https://cdn.example.com/evidence/")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "https://cdn.example.com/evidence", cfg.EvidenceBaseURL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestConfig_DSNFollowsDriver(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", MySQLDSN: "my", PostgresDSN: "pg"}
	assert.Equal(t, "pg", cfg.DSN())

	cfg.DBDriver = "mysql"
	assert.Equal(t, "my", cfg.DSN())
}

func TestConfig_ValidateSessionSecret(t *testing.T) {
	strong := strings.Repeat("s", MinSessionSecretBytes)

	tests := []struct {
		name          string
		env           string
		secret        string
		expectedError error
	}{
		{name: "development accepts the default", env: "development", secret: DefaultSessionSecret},
		{name: "production rejects the default", env: "production", secret: DefaultSessionSecret, expectedError: ErrWeakSessionSecret},
		{name: "production rejects an empty secret", env: "production", secret: "", expectedError: ErrWeakSessionSecret},
		{name: "production rejects a short secret", env: "production", secret: strong[:MinSessionSecretBytes-1], expectedError: ErrWeakSessionSecret},
		{name: "production accepts a long secret", env: "production", secret: strong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.env, SessionSecret: tt.secret}
			err := cfg.Validate()
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_ProductionWithDefaultSecretIsRejected(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, DefaultSessionSecret, cfg.SessionSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrWeakSessionSecret)
}
