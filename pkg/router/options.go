package router

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for router spans.
const defaultTracerName = "vroute"

// Option configures a Router.
type Option func(*options)

type options struct {
	basename string
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	onMount  func(*Router) error
}

// WithBasename sets the path prefix the application is mounted under.
func WithBasename(basename string) Option {
	return func(o *options) {
		o.basename = basename
	}
}

// WithLogger sets the logger used for diagnostics (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records router activity on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for router spans. By default the tracer is
// resolved from the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithOnMount registers fn to run at the end of Mount, after the history
// listener is in place. If fn fails, the listener is released and Mount
// returns the error.
func WithOnMount(fn func(*Router) error) Option {
	return func(o *options) {
		o.onMount = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(defaultTracerName)
	}
	return o
}
