// Package app wires the riftsync CLI together: layered configuration, the
// logger, and the sync client shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/riftsync"
	"github.com/agentstation/riftsync/pkg/errors"
)

// App holds the build info, configuration and lazily built client of one
// CLI invocation.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	mu     sync.RWMutex
	client *riftsync.Client
}

// New loads the configuration from env, .env files and ~/.riftsync.yaml,
// builds the logger, then applies opts.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	logger := NewLogger(config)

	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		config:  config,
		logger:  &logger,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Version returns the release version the binary was built from.
func (a *App) Version() string { return a.version }

// Commit returns the git commit the binary was built from.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the tool that produced the build.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the active configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the current logger. It is rebuilt once flags are parsed.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format value, empty when output is detected.
func (a *App) OutputFormat() string { return a.config.Format }

// Client returns the client for the current configuration, building it on
// first use. Safe for concurrent use.
func (a *App) Client() (*riftsync.Client, error) {
	a.mu.RLock()
	c := a.client
	a.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		c, err := a.ClientWithOptions()
		if err != nil {
			return nil, err
		}
		a.client = c
	}
	return a.client, nil
}

// ClientWithOptions builds a fresh client from the configuration with opts
// applied on top. The shared client is not affected.
func (a *App) ClientWithOptions(opts ...riftsync.Option) (*riftsync.Client, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	c, err := riftsync.New(append(a.clientOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	return c, nil
}

func (a *App) clientOptions() []riftsync.Option {
	return []riftsync.Option{
		riftsync.WithBaseURL(a.config.BaseURL),
		riftsync.WithSnapshotPath(a.config.Snapshot),
		riftsync.WithAssetsDir(a.config.AssetsDir),
		riftsync.WithAssetExt(a.config.AssetExt),
		riftsync.WithPageSize(a.config.PageSize),
		riftsync.WithWorkers(a.config.Workers),
		riftsync.WithUserAgent(a.config.UserAgent),
		riftsync.WithHTTPTimeout(a.config.HTTPTimeout),
	}
}

// Shutdown is called by main when a command fails.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option configures an App in New.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient presets the shared client.
func WithClient(c *riftsync.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
