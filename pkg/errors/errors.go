// Package errors holds the riftsync error taxonomy.
//
// A sync has exactly one fatal failure class, a catalog page that cannot be
// fetched or decoded (FetchError). Everything else, such as an unusable
// snapshot or a failed image download, is reported with the remaining types
// and degraded by the caller.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exported so callers need a single errors import.
var (
	New  = errors.New
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Sentinels matched with Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimited       = errors.New("rate limited")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrTimeout           = errors.New("operation timed out")
	ErrCanceled          = errors.New("operation canceled")
)

// ValidationError reports a rejected option, flag or config value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid value: " + e.Message
	}
	return "invalid " + e.Field + ": " + e.Message
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError is a non-2xx response, or a request that never got one, from
// the catalog or an image host. StatusCode is 0 for transport failures.
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Source + " request failed: " + e.Message
	}
	return fmt.Sprintf("%s returned %d: %s", e.Source, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is classifies 429 as ErrRateLimited and 5xx as ErrSourceUnavailable.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrSourceUnavailable
	}
	return false
}

// NewAPIError creates an APIError for a response with the given status.
func NewAPIError(source string, statusCode int, message string) *APIError {
	return &APIError{Source: source, StatusCode: statusCode, Message: message}
}

// ConfigError reports configuration that could not be loaded or applied.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "config: " + e.Message
	}
	return "config " + e.Component + ": " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// FetchError is a catalog page that could not be fetched or decoded.
// It aborts the sync before anything is written.
type FetchError struct {
	Page int
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d (%s): %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError creates a FetchError.
func NewFetchError(page int, url string, err error) *FetchError {
	return &FetchError{Page: page, URL: url, Err: err}
}

// ParseError is a document in a known format that could not be decoded.
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return "parse " + e.Format + ": " + e.Message
	}
	return "parse " + e.Format + " " + e.File + ": " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError is a filesystem operation on the snapshot or the image cache.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	return e.Operation + " " + e.Path + ": " + text(e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError is a failed operation on a named resource, such as loading
// the snapshot or downloading the image of one card.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target += " " + e.ID
	}
	return e.Operation + " " + target + ": " + text(e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// NewResourceError creates a ResourceError.
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// IsValidationError reports whether err is a rejected input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsRateLimited reports whether a remote host throttled the request.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsCanceled reports whether the run was canceled.
func IsCanceled(err error) bool { return errors.Is(err, ErrCanceled) }

// IsSourceUnavailable reports whether a remote host failed with a 5xx.
func IsSourceUnavailable(err error) bool { return errors.Is(err, ErrSourceUnavailable) }

// IsFetchError reports whether err is, or wraps, a fatal page fetch failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// The Wrap helpers return nil for a nil err.

// WrapValidation turns err into a ValidationError for field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps err as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapResource wraps err as a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps err as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps err as an APIError with the given status.
func WrapAPI(source string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Source: source, StatusCode: statusCode, Message: err.Error(), Err: err}
}

func text(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
