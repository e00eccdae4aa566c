package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/riftsync/pkg/constants"
)

// Config selects the level, encoding and destination of a logger.
type Config struct {
	// Level is trace, debug, info, warn or error. Unknown levels mean info.
	Level string

	// Format is auto, json or console. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard or a file path to append to.
	Output string

	NoColor   bool
	AddCaller bool
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT, LOG_CALLER and
// NO_COLOR. DEBUG set to anything raises the default level to debug.
func ConfigFromEnv() *Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" && os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	return &Config{
		Level:     level,
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		NoColor:   os.Getenv("NO_COLOR") != "",
		AddCaller: os.Getenv("LOG_CALLER") == "true",
	}
}

// New builds a logger from cfg. A nil cfg logs info and above to stderr.
// A file output that cannot be opened falls back to stderr.
func New(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	level := parseLevel(cfg.Level)

	ctx := zerolog.New(writer(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func writer(cfg *Config) io.Writer {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		return io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	console := false
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		console = true
	case "", "auto":
		f, ok := out.(*os.File)
		console = ok && isTerminal(f)
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
}

func parseLevel(level string) zerolog.Level {
	switch level = strings.ToLower(level); level {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}
