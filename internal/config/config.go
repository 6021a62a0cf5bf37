package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	ActivityID        string
	PlatformURL       string
	PlatformAPIKey    string
	PlatformBatchSize int
	SinkWorkerCount   int
	SinkQueueSize     int
	TimeLimitSeconds  int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:wildquiz?mode=memory&cache=shared"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ActivityID:        envOr("ACTIVITY_ID", "day-night-animals"),
		PlatformURL:       envOr("PLATFORM_URL", "https://api.invenira.pt/v1"),
		PlatformAPIKey:    envOr("PLATFORM_API_KEY", ""),
		PlatformBatchSize: envIntOr("PLATFORM_BATCH_SIZE", 10),
		SinkWorkerCount:   envIntOr("SINK_WORKER_COUNT", 1),
		SinkQueueSize:     envIntOr("SINK_QUEUE_SIZE", 64),
		TimeLimitSeconds:  envIntOr("TIME_LIMIT_SECONDS", 30),
	}
}

// Validate checks the configuration for values the server cannot start with.
// All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.PlatformBatchSize < 1 {
		problems = append(problems, "PLATFORM_BATCH_SIZE must be at least 1")
	}
	if c.SinkWorkerCount < 1 {
		problems = append(problems, "SINK_WORKER_COUNT must be at least 1")
	}
	if c.SinkQueueSize < 1 {
		problems = append(problems, "SINK_QUEUE_SIZE must be at least 1")
	}
	if c.TimeLimitSeconds < 1 {
		problems = append(problems, "TIME_LIMIT_SECONDS must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
