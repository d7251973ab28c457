package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rewindkit/go-rewind/snapshot"
)

var _ snapshot.Store = SnapshotStore{}

// SnapshotStore is a snapshot.Store implementation targeted to PostgreSQL
// databases.
//
// Snapshots are recorded in a dedicated table keyed by (aggregate_id, version),
// created by RunMigrations. Recording is idempotent: an INSERT on a key
// already taken leaves the existing entry untouched.
type SnapshotStore struct {
	conn      *pgxpool.Pool
	tableName string
}

// NewSnapshotStore returns a new SnapshotStore instance
// using the provided connection pool.
func NewSnapshotStore(conn *pgxpool.Pool, options ...Option[*SnapshotStore]) SnapshotStore {
	store := &SnapshotStore{
		conn:      conn,
		tableName: DefaultSnapshotsTableName,
	}

	for _, option := range options {
		option.apply(store)
	}

	return *store
}

func (ss SnapshotStore) table() string {
	return pgx.Identifier{ss.tableName}.Sanitize()
}

// Record implements the snapshot.Recorder interface.
func (ss SnapshotStore) Record(ctx context.Context, snap snapshot.Snapshot) error {
	metadata, err := marshalMetadata(snap.Metadata)
	if err != nil {
		return fmt.Errorf("postgres.SnapshotStore: failed to serialize snapshot metadata, %w", err)
	}

	if _, err := ss.conn.Exec(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s (aggregate_id, "version", state, metadata, recorded_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (aggregate_id, "version") DO NOTHING`,
			ss.table(),
		),
		snap.AggregateID, snap.Version, snap.State, metadata, snap.RecordedAt,
	); err != nil {
		return fmt.Errorf("postgres.SnapshotStore: failed to record snapshot, %w", err)
	}

	return nil
}

// GetLatest implements the snapshot.Getter interface.
func (ss SnapshotStore) GetLatest(ctx context.Context, aggregateID string) (snapshot.Snapshot, error) {
	row := ss.conn.QueryRow(
		ctx,
		fmt.Sprintf(
			`SELECT "version", state, metadata, recorded_at FROM %s
			WHERE aggregate_id = $1
			ORDER BY "version" DESC
			LIMIT 1`,
			ss.table(),
		),
		aggregateID,
	)

	snap := snapshot.Snapshot{ //nolint:exhaustruct // Remaining fields are scanned below.
		AggregateID: aggregateID,
	}

	var rawMetadata json.RawMessage

	err := row.Scan(&snap.Version, &snap.State, &rawMetadata, &snap.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}

	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("postgres.SnapshotStore: failed to fetch latest snapshot, %w", err)
	}

	if len(rawMetadata) > 0 {
		if err := json.Unmarshal(rawMetadata, &snap.Metadata); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("postgres.SnapshotStore: failed to deserialize snapshot metadata, %w", err)
		}
	}

	return snap, nil
}

// DeleteOldSnapshots implements the snapshot.Pruner interface.
//
// Only the keepLast snapshots with the highest versions recorded for the
// given Aggregate id are retained.
func (ss SnapshotStore) DeleteOldSnapshots(ctx context.Context, aggregateID string, keepLast int) error {
	if keepLast < 1 {
		return fmt.Errorf("postgres.SnapshotStore: invalid retention, keepLast must be at least 1, got %d", keepLast)
	}

	if _, err := ss.conn.Exec(
		ctx,
		fmt.Sprintf(
			`DELETE FROM %[1]s
			WHERE aggregate_id = $1 AND "version" NOT IN (
				SELECT "version" FROM %[1]s
				WHERE aggregate_id = $1
				ORDER BY "version" DESC
				LIMIT $2
			)`,
			ss.table(),
		),
		aggregateID, keepLast,
	); err != nil {
		return fmt.Errorf("postgres.SnapshotStore: failed to delete old snapshots, %w", err)
	}

	return nil
}
