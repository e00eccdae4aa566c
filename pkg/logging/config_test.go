package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/riftsync/pkg/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNew(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "riftsync.log")
		logger := logging.New(&logging.Config{Level: "info", Format: "json", Output: path})
		logger.Info().Int("page", 2).Msg("Collected cards")

		out := readLog(t, path)
		assert.Contains(t, out, `"message":"Collected cards"`)
		assert.Contains(t, out, `"page":2`)
	})

	t.Run("auto is json for files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auto.log")
		logger := logging.New(&logging.Config{Format: "auto", Output: path})
		logger.Info().Msg("auto")
		assert.Contains(t, readLog(t, path), `"message":"auto"`)
	})

	t.Run("console", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.New(&logging.Config{Format: "console", Output: path, NoColor: true})
		logger.Info().Msg("console test")

		out := readLog(t, path)
		assert.Contains(t, out, "console test")
		assert.Contains(t, out, "INF")
	})

	t.Run("debug adds caller", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "debug.log")
		logger := logging.New(&logging.Config{Level: "debug", Format: "json", Output: path})
		logger.Debug().Msg("x")
		assert.Contains(t, readLog(t, path), `"caller":`)
	})

	t.Run("nil config", func(t *testing.T) {
		assert.Equal(t, zerolog.InfoLevel, logging.New(nil).GetLevel())
	})
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := logging.New(&logging.Config{Level: tt.level, Output: "discard"})
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level %q = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_OUTPUT", "discard")
	t.Setenv("NO_COLOR", "1")

	cfg := logging.ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "discard", cfg.Output)
	assert.True(t, cfg.NoColor)

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, "warn", logging.ConfigFromEnv().Level)
}

func TestSetDefault(t *testing.T) {
	prev := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "default.log")
	logging.SetDefault(logging.New(&logging.Config{Format: "json", Output: path}))
	logging.Default().Info().Msg("through default")

	assert.Contains(t, readLog(t, path), "through default")
}
