package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// MaxHistoryLimit caps how many sessions the history endpoint returns.
const MaxHistoryLimit = 10

type Config struct {
	HTTPPort          string
	ModelPath         string
	PredictionsDBPath string
	ChatDBPath        string
	LogLevel          string
	LogFormat         string
	HistoryLimit      int
	ShutdownTimeout   time.Duration
	CORSOrigins       []string
}

// Load reads a .env file when present and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		ModelPath:         getEnv("MODEL_PATH", "diabetes_model.json"),
		PredictionsDBPath: getEnv("PREDICTIONS_DB_PATH", "predictions.db"),
		ChatDBPath:        getEnv("CHAT_DB_PATH", "chat_history.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		HistoryLimit:      getEnvAsInt("HISTORY_LIMIT", MaxHistoryLimit),
		ShutdownTimeout:   getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
	}
	cfg.HistoryLimit = ClampHistoryLimit(cfg.HistoryLimit)

	if err := cfg.Validate(); err != nil {
		return nil, dotenv, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, dotenv, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH cannot be empty")
	}
	if c.PredictionsDBPath == "" {
		return fmt.Errorf("PREDICTIONS_DB_PATH cannot be empty")
	}
	if c.ChatDBPath == "" {
		return fmt.Errorf("CHAT_DB_PATH cannot be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// ClampHistoryLimit keeps n within 1..MaxHistoryLimit.
func ClampHistoryLimit(n int) int {
	if n <= 0 || n > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return n
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := cast.ToIntE(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	value, err := cast.ToDurationE(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
