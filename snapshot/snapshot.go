// Package snapshot adds Aggregate Root snapshot support to the event-sourced
// repository flow.
//
// A Snapshot captures the state of an Aggregate Root at a specific version
// and stores it durably, so that loading the Aggregate Root replays only the
// Domain Events recorded past that version, instead of its whole Event Stream.
//
// The package revolves around a few components:
//
//   - Store, the durable storage for Snapshots (see the postgres and
//     firestore packages for production implementations);
//   - Serializer, turning Aggregate Root state into opaque, self-describing
//     byte envelopes and back, with type dispatch through a Registry;
//   - Policy, advising on when new Snapshots are worth recording;
//   - Manager, coordinating the above to create Snapshots incrementally
//     and to load Aggregate Roots from them;
//   - Repository, packaging Manager and an inner aggregate.Repository
//     behind the regular Repository interface.
package snapshot

import (
	"fmt"
	"time"

	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/version"
)

// ErrNotFound is returned by a snapshot.Getter when the store holds
// no Snapshot for the requested Aggregate id.
var ErrNotFound = fmt.Errorf("snapshot: not found")

// Snapshot is the immutable record of an Aggregate Root state captured
// at a specific version.
//
// Once recorded, a Snapshot is never updated: newer state is recorded as a
// new Snapshot at a higher version, and older entries are removed through
// retention (see Pruner).
type Snapshot struct {
	// AggregateID is the identifier of the Aggregate Root the state
	// belongs to, in its string form.
	AggregateID string

	// Version is the number of Domain Events applied to the Aggregate Root
	// when the state was captured.
	Version version.Version

	// State is the opaque byte envelope produced by a Serializer.
	State []byte

	// RecordedAt is the time the Snapshot was created.
	RecordedAt time.Time

	// Metadata carries contextual information about the Snapshot,
	// such as the component that created it, or the reason why.
	Metadata message.Metadata
}

// UnknownTypeError is returned during serialization or deserialization when
// the Aggregate type name has no registration in the Registry used.
type UnknownTypeError struct {
	AggregateType string
}

func (err UnknownTypeError) Error() string {
	return fmt.Sprintf("snapshot: unknown aggregate type, %s", err.AggregateType)
}

// IntegrityError is returned when the version recorded on a Snapshot
// disagrees with the version reported by the Aggregate Root deserialized
// from its state, indicating a corrupted or manually altered entry.
type IntegrityError struct {
	SnapshotVersion  version.Version
	AggregateVersion version.Version
}

func (err IntegrityError) Error() string {
	return fmt.Sprintf(
		"snapshot: version mismatch between snapshot record and deserialized state, record: %d, state: %d",
		err.SnapshotVersion,
		err.AggregateVersion,
	)
}
