// Package rewindfirestore provides a snapshot.Store implementation
// targeted to Google Cloud Firestore.
package rewindfirestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rewindkit/go-rewind/snapshot"
	"github.com/rewindkit/go-rewind/version"
)

//nolint:exhaustruct // Only used for interface assertion.
var _ snapshot.Store = SnapshotStore{}

// SnapshotStore is a snapshot.Store implementation targeted to
// Google Cloud Firestore.
//
// Snapshots are recorded as documents of the "Snapshots" collection, keyed by
// the (Aggregate id, version) pair to make recording idempotent: creating a
// document with an id already taken leaves the existing entry untouched.
type SnapshotStore struct {
	Client *firestore.Client
}

type snapshotDocument struct {
	AggregateID string            `firestore:"aggregate_id"`
	Version     int64             `firestore:"version"`
	State       []byte            `firestore:"state"`
	Metadata    map[string]string `firestore:"metadata"`
	RecordedAt  time.Time         `firestore:"recorded_at"`
}

func (ss SnapshotStore) snapshotsCollection() *firestore.CollectionRef {
	return ss.Client.Collection("Snapshots")
}

func (ss SnapshotStore) documentID(aggregateID string, v version.Version) string {
	return fmt.Sprintf("%s@{%d}", aggregateID, v)
}

// Record implements the snapshot.Recorder interface.
func (ss SnapshotStore) Record(ctx context.Context, snap snapshot.Snapshot) error {
	docRef := ss.snapshotsCollection().Doc(ss.documentID(snap.AggregateID, snap.Version))

	err := ss.Client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		return tx.Create(docRef, snapshotDocument{
			AggregateID: snap.AggregateID,
			Version:     int64(snap.Version),
			State:       snap.State,
			Metadata:    snap.Metadata,
			RecordedAt:  snap.RecordedAt,
		})
	})

	// A snapshot for this (id, version) pair has been recorded already,
	// the new entry is discarded.
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}

	if err != nil {
		return fmt.Errorf("rewindfirestore.SnapshotStore: failed to record snapshot, %w", err)
	}

	return nil
}

// GetLatest implements the snapshot.Getter interface.
func (ss SnapshotStore) GetLatest(ctx context.Context, aggregateID string) (snapshot.Snapshot, error) {
	iter := ss.snapshotsCollection().
		Where("aggregate_id", "==", aggregateID).
		OrderBy("version", firestore.Desc).
		Limit(1).
		Documents(ctx)

	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}

	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("rewindfirestore.SnapshotStore: failed to query latest snapshot, %w", err)
	}

	var data snapshotDocument
	if err := doc.DataTo(&data); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("rewindfirestore.SnapshotStore: failed to decode snapshot document, %w", err)
	}

	return snapshot.Snapshot{
		AggregateID: data.AggregateID,
		Version:     version.Version(data.Version),
		State:       data.State,
		Metadata:    data.Metadata,
		RecordedAt:  data.RecordedAt,
	}, nil
}

// DeleteOldSnapshots implements the snapshot.Pruner interface.
//
// Only the keepLast snapshots with the highest versions recorded
// for the given Aggregate id are retained.
func (ss SnapshotStore) DeleteOldSnapshots(ctx context.Context, aggregateID string, keepLast int) error {
	if keepLast < 1 {
		return fmt.Errorf("rewindfirestore.SnapshotStore: invalid retention, keepLast must be at least 1, got %d", keepLast)
	}

	iter := ss.snapshotsCollection().
		Where("aggregate_id", "==", aggregateID).
		OrderBy("version", firestore.Desc).
		Offset(keepLast).
		Documents(ctx)

	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return fmt.Errorf("rewindfirestore.SnapshotStore: failed to list old snapshots, %w", err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("rewindfirestore.SnapshotStore: failed to delete old snapshot, %w", err)
		}
	}

	return nil
}
