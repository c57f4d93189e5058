package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/preptrack/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:              ":8080",
		DBPath:            "test.db",
		HistoryBackend:    "sqlite",
		HistoryPath:       "history.json",
		LogLevel:          "INFO",
		ImportWorkerCount: 2,
		ImportQueueSize:   32,
		SweepSchedule:     "@every 1m",
		SessionTTLMinutes: 240,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_HistoryBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		path    string
		wantErr string
	}{
		{name: "sqlite backend", backend: "sqlite", path: ""},
		{name: "file backend with path", backend: "file", path: "h.json"},
		{name: "file backend without path", backend: "file", path: "", wantErr: "HISTORY_PATH"},
		{name: "unknown backend", backend: "redis", path: "h.json", wantErr: "HISTORY_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.HistoryBackend = tt.backend
			cfg.HistoryPath = tt.path

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "VERBOSE"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_LowercaseLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"

	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidWorkerSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "zero import workers",
			mutate:  func(c *config.Config) { c.ImportWorkerCount = 0 },
			wantErr: "IMPORT_WORKER_COUNT",
		},
		{
			name:    "negative import workers",
			mutate:  func(c *config.Config) { c.ImportWorkerCount = -1 },
			wantErr: "IMPORT_WORKER_COUNT",
		},
		{
			name:    "zero import queue",
			mutate:  func(c *config.Config) { c.ImportQueueSize = 0 },
			wantErr: "IMPORT_QUEUE_SIZE",
		},
		{
			name:    "zero session ttl",
			mutate:  func(c *config.Config) { c.SessionTTLMinutes = 0 },
			wantErr: "SESSION_TTL_MINUTES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:              "",
		DBPath:            "",
		HistoryBackend:    "sqlite",
		LogLevel:          "INVALID",
		ImportWorkerCount: 0,
		ImportQueueSize:   0,
		SessionTTLMinutes: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "IMPORT_WORKER_COUNT")
	assert.Contains(t, errStr, "IMPORT_QUEUE_SIZE")
	assert.Contains(t, errStr, "SESSION_TTL_MINUTES")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("HISTORY_BACKEND", "file")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, "file", cfg.HistoryBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "HISTORY_BACKEND", "HISTORY_PATH", "LOG_LEVEL", "IMPORT_WORKER_COUNT", "IMPORT_QUEUE_SIZE", "SWEEP_SCHEDULE", "SESSION_TTL_MINUTES", "CORS_ORIGINS"} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			os.Unsetenv(key)
		}
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.HistoryBackend)
	assert.Equal(t, 2, cfg.ImportWorkerCount)
	assert.Equal(t, 240, cfg.SessionTTLMinutes)
	assert.NoError(t, cfg.Validate())
}
