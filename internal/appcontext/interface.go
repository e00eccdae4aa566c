// Package appcontext provides the shared application context interface
// used by all commands, so command packages depend on behavior rather than
// on the concrete App type.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/riftsync"
)

// Interface defines the application context that commands need. The App
// struct from cmd/riftsync/app implements it.
type Interface interface {
	// Client returns the sync client built from the loaded configuration,
	// creating it lazily if needed.
	Client() (*riftsync.Client, error)

	// ClientWithOptions builds a new client from the configuration plus
	// extra options. Later options win.
	ClientWithOptions(...riftsync.Option) (*riftsync.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
