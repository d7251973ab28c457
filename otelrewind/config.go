package otelrewind

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Name under which the meters and tracers produced by this package
// get registered.
const instrumentationName = "github.com/rewindkit/go-rewind/otelrewind"

// Option configures the instrumented decorators exposed by this package.
type Option func(*config)

// WithMeterProvider overrides the metric.MeterProvider used by the
// instrumentation. The global provider is used by default.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) { c.meterProvider = provider }
}

// WithTracerProvider overrides the trace.TracerProvider used by the
// instrumentation. The global provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = provider }
}

type config struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

func newConfig(opts ...Option) config {
	c := config{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func (c config) meter() metric.Meter  { return c.meterProvider.Meter(instrumentationName) }
func (c config) tracer() trace.Tracer { return c.tracerProvider.Tracer(instrumentationName) }
