package leadsync

import (
	"github.com/ofranc1208/leadsync/internal/logging"
	"github.com/ofranc1208/leadsync/internal/metrics"
)

// Option configures a component with optional dependencies.
type Option func(*componentOptions)

// componentOptions holds optional component configuration.
type componentOptions struct {
	logger  Logger
	metrics MetricsCollector
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (slog-style keysAndValues pairs)
//
// Returns:
//   - Option: Functional option for component constructors
func WithLogger(logger Logger) Option {
	return func(o *componentOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for component constructors
func WithMetrics(m MetricsCollector) Option {
	return func(o *componentOptions) {
		o.metrics = m
	}
}

// resolveOptions applies opts and fills unset dependencies with no-op
// implementations so components never need nil checks.
func resolveOptions(opts []Option) componentOptions {
	o := componentOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNop()
	}

	return o
}
