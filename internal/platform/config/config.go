package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from environment
// variables and an optional .env file.
type Config struct {
	DatabaseURL          string        `mapstructure:"PGSQL_URL"`
	Port                 string        `mapstructure:"PORT"`
	IsProduction         bool          `mapstructure:"IS_PRODUCTION"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	JWTExpiryHours       int           `mapstructure:"JWT_EXPIRY_HOURS"`
	RateLimitPeriod      time.Duration `mapstructure:"RATE_LIMIT_PERIOD"`
	RateLimitRequests    int64         `mapstructure:"RATE_LIMIT_REQUESTS"`
	CORSAllowedOrigins   []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	AutoValidatePayments bool          `mapstructure:"AUTO_VALIDATE_PAYMENTS"`
	MigrationsPath       string        `mapstructure:"MIGRATIONS_PATH"`
}

// LoadConfig reads configuration from environment variables, falling back to
// a .env file in the working directory when present.
func LoadConfig(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("RATE_LIMIT_PERIOD", "1m")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("AUTO_VALIDATE_PAYMENTS", false)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.AutomaticEnv()

	// Bind explicitly so AutomaticEnv picks up keys absent from defaults.
	for _, key := range []string{"PGSQL_URL", "JWT_SECRET"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if origins := v.GetString("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &cfg, nil
}
