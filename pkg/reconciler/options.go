package reconciler

import (
	"time"

	"github.com/agentstation/riftsync/pkg/errors"
)

// options configures a reconciler.
type options struct {
	now func() time.Time
}

func defaultOptions() *options {
	return &options{now: time.Now}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithClock sets the time source used for result metadata.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.now = now
		return nil
	}
}
