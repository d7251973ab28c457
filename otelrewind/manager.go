// Package otelrewind provides OpenTelemetry instrumentation (metrics and
// traces) for the snapshot components, in the form of decorators.
package otelrewind

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/snapshot"
)

// Attribute keys used by the instrumentation in this package.
const (
	ErrorAttribute             attribute.Key = "error"
	AggregateTypeAttribute     attribute.Key = "aggregate.type"
	AggregateIDAttribute       attribute.Key = "aggregate.id"
	SnapshotVersionAttribute   attribute.Key = "snapshot.version"
	SnapshotRetentionAttribute attribute.Key = "snapshot.retention"
)

// InstrumentedManager decorates a snapshot.Manager with OpenTelemetry
// metrics and traces around its Load and CreateSnapshot operations.
//
// Use NewInstrumentedManager for constructing a new instance of this type.
type InstrumentedManager[I aggregate.ID, T aggregate.Root[I]] struct {
	aggregateType aggregate.Type[I, T]
	manager       *snapshot.Manager[I, T]

	tracer         trace.Tracer
	loadDuration   metric.Int64Histogram
	createDuration metric.Int64Histogram
}

func (im *InstrumentedManager[I, T]) registerMetrics(meter metric.Meter) error {
	var err error

	if im.loadDuration, err = meter.Int64Histogram(
		"rewind.snapshot.manager.load.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of snapshot.Manager.Load operations performed."),
	); err != nil {
		return fmt.Errorf("otelrewind.InstrumentedManager: failed to register metric, %w", err)
	}

	if im.createDuration, err = meter.Int64Histogram(
		"rewind.snapshot.manager.create.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of snapshot.Manager.CreateSnapshot operations performed."),
	); err != nil {
		return fmt.Errorf("otelrewind.InstrumentedManager: failed to register metric, %w", err)
	}

	return nil
}

// NewInstrumentedManager decorates the given snapshot.Manager with
// OpenTelemetry instrumentation (metrics and traces).
//
// The aggregate.Type the Manager works on is used for reporting the
// Aggregate Type name as an attribute.
//
// An error is returned if metrics could not be registered.
func NewInstrumentedManager[I aggregate.ID, T aggregate.Root[I]](
	aggregateType aggregate.Type[I, T],
	manager *snapshot.Manager[I, T],
	options ...Option,
) (*InstrumentedManager[I, T], error) {
	cfg := newConfig(options...)

	im := &InstrumentedManager[I, T]{ //nolint:exhaustruct // Metric fields are set below.
		aggregateType: aggregateType,
		manager:       manager,
		tracer:        cfg.tracer(),
	}

	if err := im.registerMetrics(cfg.meter()); err != nil {
		return nil, err
	}

	return im, nil
}

// Load calls the wrapped snapshot.Manager.Load method and records metrics
// and traces around it.
func (im *InstrumentedManager[I, T]) Load(ctx context.Context, id I) (result T, err error) {
	typeAttr := AggregateTypeAttribute.String(im.aggregateType.Name)

	ctx, _, done := startSpan(ctx, im.tracer, "snapshot.Manager.Load", im.loadDuration,
		typeAttr,
		AggregateIDAttribute.String(id.String()),
	)
	defer func() { done(err, typeAttr) }()

	return im.manager.Load(ctx, id)
}

// CreateSnapshot calls the wrapped snapshot.Manager.CreateSnapshot method
// and records metrics and traces around it.
func (im *InstrumentedManager[I, T]) CreateSnapshot(ctx context.Context, id I) (snap snapshot.Snapshot, err error) {
	typeAttr := AggregateTypeAttribute.String(im.aggregateType.Name)

	ctx, span, done := startSpan(ctx, im.tracer, "snapshot.Manager.CreateSnapshot", im.createDuration,
		typeAttr,
		AggregateIDAttribute.String(id.String()),
	)

	defer func() {
		if err == nil {
			span.SetAttributes(SnapshotVersionAttribute.Int64(int64(snap.Version)))
		}

		done(err, typeAttr)
	}()

	return im.manager.CreateSnapshot(ctx, id)
}

// ShouldTakeSnapshot calls the wrapped snapshot.Manager.ShouldTakeSnapshot
// method.
//
// The advice is a pure function of the Aggregate Root state, no metrics
// or traces are recorded around it.
func (im *InstrumentedManager[I, T]) ShouldTakeSnapshot(root T) bool {
	return im.manager.ShouldTakeSnapshot(root)
}
