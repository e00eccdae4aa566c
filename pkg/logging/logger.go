// Package logging configures zerolog for riftsync and carries loggers
// through a context.
//
// Components never hold a logger of their own; they log through
// FromContext so a single sync run can be tagged once at the top:
//
//	ctx = logging.WithOperation(ctx, "sync")
//	logging.FromContext(ctx).Info().Int("page", 3).Msg("Collected cards")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = New(ConfigFromEnv())

// Default returns the process-wide logger used when a context carries none.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
