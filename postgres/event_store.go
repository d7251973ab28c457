// Package postgres provides event.Store and snapshot.Store implementations
// targeted to PostgreSQL databases, using the pgx driver.
//
// Run the migrations through RunMigrations to create the tables
// the implementations rely on.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/postgres/internal"
	"github.com/rewindkit/go-rewind/serde"
	"github.com/rewindkit/go-rewind/version"
)

var _ event.Store = EventStore{}

// EventStore is an event.Store implementation targeted to PostgreSQL databases.
//
// The implementation uses "event_streams" and "events" as its
// operational tables. Updates to these tables are transactional.
type EventStore struct {
	Conn  *pgxpool.Pool
	Serde serde.Bytes[message.Message]
}

// Stream implements the event.Streamer interface.
func (es EventStore) Stream(
	ctx context.Context,
	stream event.StreamWrite,
	id event.StreamID,
	selector version.Selector,
) error {
	defer close(stream)

	rows, err := es.Conn.Query(
		ctx,
		`SELECT version, event, metadata FROM events
		WHERE event_stream_id = $1 AND version >= $2
		ORDER BY version`,
		id, selector.From,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("postgres.EventStore: failed to query events table, %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var (
			rawEvent    []byte
			rawMetadata json.RawMessage
		)

		evt := event.Persisted{
			StreamID: id,
		}

		if err := rows.Scan(&evt.Version, &rawEvent, &rawMetadata); err != nil {
			return fmt.Errorf("postgres.EventStore: failed to scan next row, %w", err)
		}

		msg, err := es.Serde.Deserialize(rawEvent)
		if err != nil {
			return fmt.Errorf("postgres.EventStore: failed to deserialize event, %w", err)
		}

		evt.Message = msg

		if err := json.Unmarshal(rawMetadata, &evt.Metadata); err != nil {
			return fmt.Errorf("postgres.EventStore: failed to deserialize metadata, %w", err)
		}

		stream <- evt
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres.EventStore: failed to read events table rows, %w", err)
	}

	return nil
}

// Append implements event.Store.
//
// The amount of Domain Events recorded in the Event Stream, together with
// the optimistic concurrency check, are evaluated and updated in a single
// database transaction.
func (es EventStore) Append(
	ctx context.Context,
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	var newVersion version.Version

	txOptions := pgx.TxOptions{
		IsoLevel:       pgx.ReadCommitted,
		AccessMode:     pgx.ReadWrite,
		DeferrableMode: pgx.NotDeferrable,
	}

	if err := internal.RunTransaction(ctx, es.Conn, txOptions, func(ctx context.Context, tx pgx.Tx) error {
		v, err := appendEvents(ctx, tx, es.Serde, id, expected, events...)
		if err != nil {
			return err
		}

		newVersion = v

		return nil
	}); err != nil {
		return 0, fmt.Errorf("postgres.EventStore: failed to append domain events, %w", err)
	}

	return newVersion, nil
}
