package otelrewind

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rewindkit/go-rewind/snapshot"
)

var _ snapshot.Store = &InstrumentedStore{}

// InstrumentedStore decorates a snapshot.Store with OpenTelemetry metrics
// and traces around each of its operations.
//
// Use NewInstrumentedStore for constructing a new instance of this type.
type InstrumentedStore struct {
	store snapshot.Store

	tracer            trace.Tracer
	recordDuration    metric.Int64Histogram
	getLatestDuration metric.Int64Histogram
	deleteOldDuration metric.Int64Histogram
}

func (is *InstrumentedStore) registerMetrics(meter metric.Meter) error {
	registerErr := func(err error) error {
		return fmt.Errorf("otelrewind.InstrumentedStore: failed to register metric, %w", err)
	}

	var err error

	if is.recordDuration, err = meter.Int64Histogram(
		"rewind.snapshot.store.record.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of snapshot.Store.Record operations performed."),
	); err != nil {
		return registerErr(err)
	}

	if is.getLatestDuration, err = meter.Int64Histogram(
		"rewind.snapshot.store.get_latest.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of snapshot.Store.GetLatest operations performed."),
	); err != nil {
		return registerErr(err)
	}

	if is.deleteOldDuration, err = meter.Int64Histogram(
		"rewind.snapshot.store.delete_old.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of snapshot.Store.DeleteOldSnapshots operations performed."),
	); err != nil {
		return registerErr(err)
	}

	return nil
}

// NewInstrumentedStore decorates the given snapshot.Store with OpenTelemetry
// instrumentation (metrics and traces).
//
// An error is returned if metrics could not be registered.
func NewInstrumentedStore(store snapshot.Store, options ...Option) (*InstrumentedStore, error) {
	cfg := newConfig(options...)

	is := &InstrumentedStore{ //nolint:exhaustruct // Metric fields are set below.
		store:  store,
		tracer: cfg.tracer(),
	}

	if err := is.registerMetrics(cfg.meter()); err != nil {
		return nil, err
	}

	return is, nil
}

// Record calls the wrapped snapshot.Store.Record method and records metrics
// and traces around it.
func (is *InstrumentedStore) Record(ctx context.Context, snap snapshot.Snapshot) (err error) {
	ctx, _, done := startSpan(ctx, is.tracer, "snapshot.Store.Record", is.recordDuration,
		AggregateIDAttribute.String(snap.AggregateID),
		SnapshotVersionAttribute.Int64(int64(snap.Version)),
	)
	defer func() { done(err) }()

	return is.store.Record(ctx, snap)
}

// GetLatest calls the wrapped snapshot.Store.GetLatest method and records
// metrics and traces around it.
func (is *InstrumentedStore) GetLatest(ctx context.Context, aggregateID string) (snap snapshot.Snapshot, err error) {
	ctx, span, done := startSpan(ctx, is.tracer, "snapshot.Store.GetLatest", is.getLatestDuration,
		AggregateIDAttribute.String(aggregateID),
	)

	defer func() {
		if err == nil {
			span.SetAttributes(SnapshotVersionAttribute.Int64(int64(snap.Version)))
		}

		done(err)
	}()

	return is.store.GetLatest(ctx, aggregateID)
}

// DeleteOldSnapshots calls the wrapped snapshot.Store.DeleteOldSnapshots
// method and records metrics and traces around it.
func (is *InstrumentedStore) DeleteOldSnapshots(ctx context.Context, aggregateID string, keepLast int) (err error) {
	ctx, _, done := startSpan(ctx, is.tracer, "snapshot.Store.DeleteOldSnapshots", is.deleteOldDuration,
		AggregateIDAttribute.String(aggregateID),
		SnapshotRetentionAttribute.Int(keepLast),
	)
	defer func() { done(err) }()

	return is.store.DeleteOldSnapshots(ctx, aggregateID, keepLast)
}
