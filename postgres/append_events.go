package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/serde"
	"github.com/rewindkit/go-rewind/version"
)

// appendEvents writes the given Domain Events to the Event Stream inside the
// provided transaction, enforcing the optimistic concurrency check.
//
// The stream version row is locked for the duration of the transaction,
// so concurrent appends to the same stream serialize on it.
func appendEvents(
	ctx context.Context,
	tx pgx.Tx,
	eventSerializer serde.Serializer[message.Message, []byte],
	id event.StreamID,
	expected version.Check,
	events ...event.Envelope,
) (version.Version, error) {
	currentVersion, err := lockEventStream(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	if expected, ok := expected.(version.CheckExact); ok && currentVersion != version.Version(expected) {
		return 0, fmt.Errorf("postgres.appendEvents: version check failed, %w", version.ConflictError{
			Expected: version.Version(expected),
			Actual:   currentVersion,
		})
	}

	if len(events) == 0 {
		return currentVersion, nil
	}

	newVersion := currentVersion + version.Version(len(events))

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO event_streams (event_stream_id, version) VALUES ($1, $2)
		ON CONFLICT (event_stream_id) DO UPDATE SET version = $2`,
		id, newVersion,
	); err != nil {
		return 0, fmt.Errorf("postgres.appendEvents: failed to update event stream version, %w", err)
	}

	for i, evt := range events {
		eventVersion := currentVersion + version.Version(i) + 1

		if err := insertEvent(ctx, tx, eventSerializer, id, eventVersion, evt); err != nil {
			return 0, err
		}
	}

	return newVersion, nil
}

// lockEventStream reads the current version of the Event Stream, taking a row
// lock on it. Streams with no recorded events report version zero.
func lockEventStream(ctx context.Context, tx pgx.Tx, id event.StreamID) (version.Version, error) {
	var currentVersion version.Version

	err := tx.
		QueryRow(ctx, `SELECT version FROM event_streams WHERE event_stream_id = $1 FOR UPDATE`, id).
		Scan(&currentVersion)

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("postgres.lockEventStream: failed to scan current version, %w", err)
	}

	return currentVersion, nil
}

func insertEvent(
	ctx context.Context,
	tx pgx.Tx,
	eventSerializer serde.Serializer[message.Message, []byte],
	id event.StreamID,
	eventVersion version.Version,
	evt event.Envelope,
) error {
	data, err := eventSerializer.Serialize(evt.Message)
	if err != nil {
		return fmt.Errorf("postgres.insertEvent: failed to serialize domain event, %w", err)
	}

	// Every committed event gets stamped with the wall clock time and the
	// stream version assigned on append.
	metadata, err := marshalMetadata(evt.Metadata.
		With("Recorded-At", time.Now().Format(time.RFC3339Nano)).
		With("Recorded-At-Version", strconv.Itoa(int(eventVersion))))
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO events (event_stream_id, "type", "version", event, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		id, evt.Message.Name(), eventVersion, data, metadata,
	); err != nil {
		return fmt.Errorf("postgres.insertEvent: failed to insert domain event, %w", err)
	}

	return nil
}

func marshalMetadata(metadata message.Metadata) ([]byte, error) {
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("postgres.marshalMetadata: failed to marshal metadata to json, %w", err)
	}

	return data, nil
}
