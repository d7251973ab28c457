package otelrewind

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// startSpan opens a span around a decorated operation, returning a completion
// callback for the deferred path: the callback records the elapsed time on
// the given histogram, tags the outcome on both signals, and ends the span.
//
// Additional histogram attributes can be supplied through the callback, to
// keep high-cardinality values out of the metric while still reporting them
// on the span.
func startSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	hist metric.Int64Histogram,
	spanAttributes ...attribute.KeyValue,
) (context.Context, trace.Span, func(err error, histAttributes ...attribute.KeyValue)) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(spanAttributes...))
	start := time.Now()

	return ctx, span, func(err error, histAttributes ...attribute.KeyValue) {
		hist.Record(ctx, time.Since(start).Milliseconds(), metric.WithAttributes(
			append(histAttributes, ErrorAttribute.Bool(err != nil))...,
		))

		if err != nil {
			span.RecordError(err)
		}

		span.End()
	}
}
