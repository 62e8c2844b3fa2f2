package elector

import "go.opentelemetry.io/otel/trace"

// Option configures a Session with optional dependencies.
type Option func(*sessionOptions)

// sessionOptions holds optional Session configuration.
type sessionOptions struct {
	hooks          *Hooks
	metrics        MetricsCollector
	logger         Logger
	announcer      Announcer
	tracerProvider trace.TracerProvider
	instanceID     string
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewSession
//
// Example:
//
//	hooks := &elector.Hooks{
//	    OnLeader: func(ctx context.Context, candidateID string) error {
//	        log.Printf("%s is leader", candidateID)
//	        return nil
//	    },
//	}
//	session, _ := elector.NewSession(&cfg, conn, elector.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *sessionOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewSession
//
// Example:
//
//	session, _ := elector.NewSession(&cfg, conn,
//	    elector.WithMetrics(elector.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *sessionOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewSession
//
// Example:
//
//	logger := elector.NewZapLogger(zap.NewExample().Sugar())
//	session, _ := elector.NewSession(&cfg, conn, elector.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithAnnouncer publishes every leadership transition through announcer.
//
// Parameters:
//   - announcer: Announcer implementation (see the announce package)
//
// Returns:
//   - Option: Functional option for NewSession
func WithAnnouncer(announcer Announcer) Option {
	return func(o *sessionOptions) {
		o.announcer = announcer
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for session spans.
// The default is a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *sessionOptions) {
		o.tracerProvider = tp
	}
}

// WithInstanceID overrides the random instance id written as the candidate node payload.
func WithInstanceID(id string) Option {
	return func(o *sessionOptions) {
		o.instanceID = id
	}
}
