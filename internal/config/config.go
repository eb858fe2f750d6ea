// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

// MinJWTSecretLength is the shortest signing secret accepted.
const MinJWTSecretLength = 32

// Exporter names accepted by OTEL_EXPORTER.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlpgrpc"
	ExporterOTLPHTTP = "otlphttp"
)

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL       string
	DBMaxConns        int32
	DBMaxConnIdleTime time.Duration

	HTTPAddr        string
	GinMode         string
	ShutdownTimeout time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel    string
	LogFormat   string
	LogHashSalt string

	DefaultCurrency string

	OTelExporter    string
	OTelServiceName string

	GoalReminderEnabled   bool
	GoalReminderHour      int
	GoalReminderDaysAhead int
	GoalReminderTimezone  string

	errs []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "console"),
		LogHashSalt: os.Getenv("LOG_HASH_SALT"),
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		GinMode:     envOr("GIN_MODE", "release"),

		DefaultCurrency: strings.ToUpper(envOr("DEFAULT_CURRENCY", models.DefaultCurrency)),

		OTelExporter:    strings.ToLower(envOr("OTEL_EXPORTER", ExporterNone)),
		OTelServiceName: envOr("OTEL_SERVICE_NAME", "pfm-backend"),

		GoalReminderEnabled: os.Getenv("GOAL_REMINDER_ENABLED") == "true",
	}

	cfg.TokenTTL = cfg.duration("TOKEN_TTL", 30*24*time.Hour)
	cfg.ShutdownTimeout = cfg.duration("SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.DBMaxConnIdleTime = cfg.duration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute)

	cfg.DBMaxConns = 10
	if raw := os.Getenv("DB_MAX_CONNS"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil && n > 0 {
			cfg.DBMaxConns = int32(n)
		} else {
			cfg.errs = append(cfg.errs, fmt.Sprintf("DB_MAX_CONNS must be a positive integer, got %q", raw))
		}
	}

	cfg.GoalReminderHour = 9
	if hourStr := os.Getenv("GOAL_REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			cfg.GoalReminderHour = h
		}
	}
	cfg.GoalReminderDaysAhead = 7
	if daysStr := os.Getenv("GOAL_REMINDER_DAYS_AHEAD"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			cfg.GoalReminderDaysAhead = d
		}
	}
	cfg.GoalReminderTimezone = "UTC"
	if tz := os.Getenv("GOAL_REMINDER_TIMEZONE"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			cfg.GoalReminderTimezone = tz
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// duration parses key as a Go duration; a bad value is reported by validate.
func (c *Config) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		c.errs = append(c.errs, fmt.Sprintf("%s must be a positive duration, got %q", key, raw))
		return fallback
	}
	return d
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	errs := c.errs

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	switch {
	case c.JWTSecret == "":
		errs = append(errs, "JWT_SECRET is required")
	case len(c.JWTSecret) < MinJWTSecretLength:
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}

	if _, ok := models.SupportedCurrencies[c.DefaultCurrency]; !ok {
		errs = append(errs, fmt.Sprintf("DEFAULT_CURRENCY %q is not a supported currency", c.DefaultCurrency))
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}

	switch c.OTelExporter {
	case ExporterNone, ExporterStdout, ExporterOTLPGRPC, ExporterOTLPHTTP:
	default:
		errs = append(errs, fmt.Sprintf("OTEL_EXPORTER must be one of none, stdout, otlpgrpc, otlphttp, got %q", c.OTelExporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// ReminderLocation returns the goal reminder timezone, UTC if it cannot be loaded.
func (c *Config) ReminderLocation() *time.Location {
	loc, err := time.LoadLocation(c.GoalReminderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
