package snapshot

import "context"

// Recorder is used to record Snapshots to a durable store.
type Recorder interface {
	// Record stores the given Snapshot.
	//
	// Recording is idempotent on the (AggregateID, Version) pair: recording
	// a Snapshot for a pair already present leaves the store unchanged
	// and returns no error.
	Record(ctx context.Context, snapshot Snapshot) error
}

// Getter is used to retrieve the latest Snapshot recorded for an Aggregate.
type Getter interface {
	// GetLatest returns the Snapshot with the highest version recorded
	// for the given Aggregate id.
	//
	// ErrNotFound is returned when the store holds no Snapshot for that id.
	GetLatest(ctx context.Context, aggregateID string) (Snapshot, error)
}

// Pruner deletes old Snapshots, retaining only the most recent ones.
type Pruner interface {
	// DeleteOldSnapshots removes all Snapshots recorded for the given
	// Aggregate id except the keepLast ones with the highest versions.
	//
	// keepLast must be at least 1: retention never removes the latest
	// Snapshot, and values below 1 are rejected with an error.
	DeleteOldSnapshots(ctx context.Context, aggregateID string, keepLast int) error
}

// Store is a complete Snapshot store, able to record, retrieve
// and prune Snapshots.
type Store interface {
	Recorder
	Getter
	Pruner
}

// FusedStore fuses separate Recorder, Getter and Pruner implementations
// in a single snapshot.Store instance.
//
// Typically used when decorating only some of the Store traits.
type FusedStore struct {
	Recorder
	Getter
	Pruner
}
