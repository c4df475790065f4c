package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Predictor  PredictorConfig
	Server     ServerConfig
	PostgreSQL PostgreSQLConfig
	History    HistoryConfig
	Logging    LoggingConfig
}

// PredictorConfig describes the external prediction service and the UI timings
type PredictorConfig struct {
	BaseURL              string
	Timeout              time.Duration // 0 leaves the transport default in place
	StatusHideDelay      time.Duration
	ResultDisplayTimeout time.Duration
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins []string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// HistoryConfig controls the optional prediction history
type HistoryConfig struct {
	Enabled      bool
	SimilarLimit int
	RecentLimit  int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Predictor: PredictorConfig{
			BaseURL:              strings.TrimRight(getEnv("PREDICTOR_BASE_URL", "http://localhost:5000"), "/"),
			Timeout:              getEnvAsDuration("PREDICTOR_TIMEOUT", 0),
			StatusHideDelay:      getEnvAsDuration("STATUS_HIDE_DELAY", 3*time.Second),
			ResultDisplayTimeout: getEnvAsDuration("RESULT_DISPLAY_TIMEOUT", 5*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", ""),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "house_prices"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		History: HistoryConfig{
			SimilarLimit: getEnvAsInt("HISTORY_SIMILAR_LIMIT", 5),
			RecentLimit:  getEnvAsInt("HISTORY_RECENT_LIMIT", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// History is only recorded when some database location is configured
	cfg.History.Enabled = cfg.PostgreSQL.DSN != "" || cfg.PostgreSQL.Host != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Predictor.BaseURL == "" {
		return fmt.Errorf("PREDICTOR_BASE_URL must not be empty")
	}
	if !strings.HasPrefix(c.Predictor.BaseURL, "http://") && !strings.HasPrefix(c.Predictor.BaseURL, "https://") {
		return fmt.Errorf("PREDICTOR_BASE_URL must be an http(s) URL, got %q", c.Predictor.BaseURL)
	}
	if c.Predictor.Timeout < 0 {
		return fmt.Errorf("PREDICTOR_TIMEOUT must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("1.5s") or plain milliseconds ("1500")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
