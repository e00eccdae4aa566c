package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/riftsync"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc            func() (*riftsync.Client, error)
	ClientWithOptionsFunc func(...riftsync.Option) (*riftsync.Client, error)
	LoggerFunc            func() *zerolog.Logger
	OutputFormatFunc      func() string
	VersionFunc           func() string
	CommitFunc            func() string
	DateFunc              func() string
	BuiltByFunc           func() string
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (*riftsync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// ClientWithOptions returns a client using the mock function, falling back
// to riftsync.New with the given options.
func (m *Mock) ClientWithOptions(opts ...riftsync.Option) (*riftsync.Client, error) {
	if m.ClientWithOptionsFunc != nil {
		return m.ClientWithOptionsFunc(opts...)
	}
	return riftsync.New(opts...)
}

// Logger returns a logger using the mock function or a disabled logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns the version using the mock function or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns the commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the builder using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
