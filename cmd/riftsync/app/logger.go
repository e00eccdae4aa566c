package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/riftsync/pkg/logging"
)

// NewLogger builds the CLI logger. The level comes from, in order:
// --log-level (or RIFTSYNC_LOG_LEVEL), -q, -v, then info.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.New(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}

func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		level := validateLogLevel(config.LogLevel)
		if level != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, level)
		}
		return level
	case config.Quiet:
		if config.Verbose {
			fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		}
		return "warn"
	case config.Verbose:
		return "debug"
	default:
		return "info"
	}
}

func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
