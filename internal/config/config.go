package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Environment string
	ServerPort  string

	DBDriver    string
	MySQLDSN    string
	PostgresDSN string
	ResetDB     bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookieName string

	ModerationAPIURL  string
	ModerationAPIKey  string
	ModerationModel   string
	ModerationTimeout time.Duration
	ModerationRPS     float64

	UploadDir        string
	EvidenceBaseURL  string
	MaxEvidenceBytes int64

	SwaggerHost string
}

// DefaultSessionSecret is the development-only signing secret.
const DefaultSessionSecret = "change-me"

// MinSessionSecretBytes is the shortest secret accepted in production.
const MinSessionSecretBytes = 32

// ErrWeakSessionSecret is returned by Validate for a production config whose
// signing secret is missing, the default, or too short.
var ErrWeakSessionSecret = errors.New("SESSION_SECRET must be set to a random value of at least 32 bytes in production")

// Validate rejects settings that are unsafe to serve with.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	if c.SessionSecret == DefaultSessionSecret || len(c.SessionSecret) < MinSessionSecretBytes {
		return ErrWeakSessionSecret
	}
	return nil
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN
	}
	return c.MySQLDSN
}

// Load builds Config from environment with sensible defaults. An optional
// config.yaml in the working directory is merged underneath the environment.
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Missing file is fine; env and defaults still apply.
	_ = v.ReadInConfig()

	return &Config{
		Environment: v.GetString("APP_ENV"),
		ServerPort:  v.GetString("SERVER_PORT"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
		PostgresDSN: v.GetString("POSTGRES_DSN"),
		ResetDB:     v.GetBool("RESET_DB"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),
		RedisPass: v.GetString("REDIS_PASSWORD"),

		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		SessionCookieName: v.GetString("SESSION_COOKIE_NAME"),

		ModerationAPIURL:  v.GetString("MODERATION_API_URL"),
		ModerationAPIKey:  v.GetString("MODERATION_API_KEY"),
		ModerationModel:   v.GetString("MODERATION_MODEL"),
		ModerationTimeout: v.GetDuration("MODERATION_TIMEOUT"),
		ModerationRPS:     v.GetFloat64("MODERATION_RPS"),

		UploadDir:        v.GetString("UPLOAD_DIR"),
		EvidenceBaseURL:  strings.TrimRight(v.GetString("EVIDENCE_BASE_URL"), "/"),
		MaxEvidenceBytes: v.GetInt64("MAX_EVIDENCE_BYTES"),

		SwaggerHost: v.GetString("SWAGGER_HOST"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=app port=5432 sslmode=disable")
	v.SetDefault("RESET_DB", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("SESSION_COOKIE_NAME", "session_token")
	v.SetDefault("MODERATION_API_URL", "https://api.openai.com/v1")
	v.SetDefault("MODERATION_API_KEY", "")
	v.SetDefault("MODERATION_MODEL", "gpt-4o-mini")
	v.SetDefault("MODERATION_TIMEOUT", 20*time.Second)
	v.SetDefault("MODERATION_RPS", 1.0)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("EVIDENCE_BASE_URL", "/uploads")
	v.SetDefault("MAX_EVIDENCE_BYTES", 5<<20)
	v.SetDefault("SWAGGER_HOST", "")
}
