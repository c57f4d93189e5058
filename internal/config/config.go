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
	HistoryBackend    string // "sqlite" or "file"
	HistoryPath       string
	LogLevel          string
	ImportWorkerCount int
	ImportQueueSize   int
	SweepSchedule     string // cron spec for the session expiry sweep
	SessionTTLMinutes int    // idle sessions older than this are pruned
	CORSOrigins       []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:preptrack.db"),
		HistoryBackend:    envOr("HISTORY_BACKEND", "sqlite"),
		HistoryPath:       envOr("HISTORY_PATH", "preptrack_history.json"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 32),
		SweepSchedule:     envOr("SWEEP_SCHEDULE", "@every 1m"),
		SessionTTLMinutes: envIntOr("SESSION_TTL_MINUTES", 240),
		CORSOrigins:       envListOr("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}

// Validate checks the configuration and returns an error describing every
// invalid value.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch c.HistoryBackend {
	case "sqlite", "file":
	default:
		problems = append(problems, fmt.Sprintf("HISTORY_BACKEND must be 'sqlite' or 'file', got %q", c.HistoryBackend))
	}
	if c.HistoryBackend == "file" && c.HistoryPath == "" {
		problems = append(problems, "HISTORY_PATH cannot be empty when HISTORY_BACKEND=file")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.ImportWorkerCount <= 0 {
		problems = append(problems, "IMPORT_WORKER_COUNT must be positive")
	}
	if c.ImportQueueSize <= 0 {
		problems = append(problems, "IMPORT_QUEUE_SIZE must be positive")
	}
	if c.SessionTTLMinutes <= 0 {
		problems = append(problems, "SESSION_TTL_MINUTES must be positive")
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

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
