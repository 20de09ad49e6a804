package store

import (
	"log/slog"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
)

type options struct {
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a store.
type Option func(*options)

// WithLogger sets the logger used for failed operations. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records optimistic conflicts on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
