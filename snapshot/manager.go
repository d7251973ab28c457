package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/logger"
	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/version"
)

// Manager coordinates Snapshot creation and Snapshot-based loading
// of Aggregate Roots.
//
// Snapshot creation is incremental: the Aggregate state is reconstructed
// from the latest recorded Snapshot plus the Domain Events recorded past its
// version, falling back to a full Event Stream replay only when no Snapshot
// has been recorded yet.
type Manager[I aggregate.ID, T aggregate.Root[I]] struct {
	typ        aggregate.Type[I, T]
	eventStore event.Streamer
	store      Store
	serializer Serializer[I, T]
	policy     Policy

	logger   logger.Logger
	clock    func() time.Time
	metadata message.Metadata
}

type managerConfig struct {
	logger   logger.Logger
	clock    func() time.Time
	metadata message.Metadata
}

// ManagerOption changes the optional configuration of a Manager.
type ManagerOption interface {
	apply(*managerConfig)
}

type managerOption func(*managerConfig)

func (fn managerOption) apply(cfg *managerConfig) { fn(cfg) }

// WithLogger sets the logger the Manager reports its activity to.
// No logging happens when unset.
func WithLogger(l logger.Logger) ManagerOption {
	return managerOption(func(cfg *managerConfig) {
		cfg.logger = l
	})
}

// WithClock overrides the time source used to timestamp new Snapshots.
// Defaults to time.Now.
func WithClock(clock func() time.Time) ManagerOption {
	return managerOption(func(cfg *managerConfig) {
		cfg.clock = clock
	})
}

// WithMetadata sets a base Metadata map, copied and attached to every
// Snapshot the Manager records.
func WithMetadata(metadata message.Metadata) ManagerOption {
	return managerOption(func(cfg *managerConfig) {
		cfg.metadata = metadata
	})
}

// NewManager validates the provided components and returns a new Manager.
func NewManager[I aggregate.ID, T aggregate.Root[I]](
	typ aggregate.Type[I, T],
	eventStore event.Streamer,
	store Store,
	serializer Serializer[I, T],
	policy Policy,
	options ...ManagerOption,
) (*Manager[I, T], error) {
	switch {
	case typ.Name == "" || typ.Factory == nil:
		return nil, fmt.Errorf("snapshot.NewManager: aggregate type is incomplete")
	case eventStore == nil:
		return nil, fmt.Errorf("snapshot.NewManager: event store must not be nil")
	case store == nil:
		return nil, fmt.Errorf("snapshot.NewManager: snapshot store must not be nil")
	case serializer == nil:
		return nil, fmt.Errorf("snapshot.NewManager: serializer must not be nil")
	case policy == nil:
		return nil, fmt.Errorf("snapshot.NewManager: policy must not be nil")
	}

	cfg := managerConfig{
		logger:   nil,
		clock:    time.Now,
		metadata: nil,
	}

	for _, opt := range options {
		opt.apply(&cfg)
	}

	return &Manager[I, T]{
		typ:        typ,
		eventStore: eventStore,
		store:      store,
		serializer: serializer,
		policy:     policy,
		logger:     cfg.logger,
		clock:      cfg.clock,
		metadata:   cfg.metadata,
	}, nil
}

// Load reconstructs the Aggregate Root with the given id from its latest
// Snapshot, replaying only the Domain Events recorded past the Snapshot
// version.
//
// ErrNotFound is returned when no Snapshot has been recorded yet for the
// Aggregate: the Manager never falls back to a full Event Stream replay on
// loads, leaving that decision to the caller (see snapshot.Repository).
//
// An IntegrityError is returned when the version recorded on the Snapshot
// disagrees with the version reported by the deserialized state.
func (m *Manager[I, T]) Load(ctx context.Context, id I) (T, error) {
	var zeroValue T

	snap, err := m.store.GetLatest(ctx, id.String())
	if err != nil {
		return zeroValue, fmt.Errorf("snapshot.Manager: failed to get latest snapshot, %w", err)
	}

	root, err := m.serializer.Deserialize(snap.State)
	if err != nil {
		return zeroValue, fmt.Errorf("snapshot.Manager: failed to deserialize snapshot state, %w", err)
	}

	if root.Version() != snap.Version {
		return zeroValue, IntegrityError{
			SnapshotVersion:  snap.Version,
			AggregateVersion: root.Version(),
		}
	}

	if err := m.replayTail(ctx, root, id, snap.Version); err != nil {
		return zeroValue, err
	}

	return root, nil
}

// CreateSnapshot captures the current state of the Aggregate Root with the
// given id and records it as a new Snapshot, returning the recorded value.
//
// The state is reconstructed incrementally where possible: a full Event
// Stream replay happens only when no Snapshot exists yet for the Aggregate.
//
// aggregate.ErrRootNotFound is returned when the Aggregate has no recorded
// Domain Events and no Snapshot. Recording is the last step: serialization
// failures leave the store unchanged.
func (m *Manager[I, T]) CreateSnapshot(ctx context.Context, id I) (Snapshot, error) {
	root, err := m.currentState(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	state, err := m.serializer.Serialize(root)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot.Manager: failed to serialize aggregate state, %w", err)
	}

	snap := Snapshot{
		AggregateID: id.String(),
		Version:     root.Version(),
		State:       state,
		RecordedAt:  m.clock(),
		Metadata:    m.metadata.Copy(),
	}

	if err := m.store.Record(ctx, snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot.Manager: failed to record snapshot, %w", err)
	}

	logger.Debug(m.logger, "snapshot recorded",
		logger.With("aggregate_id", snap.AggregateID),
		logger.With("version", snap.Version),
	)

	return snap, nil
}

// ShouldTakeSnapshot reports whether a new Snapshot should be recorded for
// the given Aggregate Root, according to the configured Policy.
//
// The advice is informative only: the Manager never records Snapshots on its
// own, callers remain in charge of invoking CreateSnapshot.
func (m *Manager[I, T]) ShouldTakeSnapshot(root T) bool {
	return m.policy.ShouldRecord(root.Version())
}

// currentState reconstructs the present state of the Aggregate Root,
// preferring the incremental snapshot-plus-tail path over a full replay.
func (m *Manager[I, T]) currentState(ctx context.Context, id I) (T, error) {
	var zeroValue T

	root, err := m.Load(ctx, id)
	if err == nil {
		return root, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return zeroValue, err
	}

	// No snapshot recorded yet: replay the whole Event Stream.
	root = m.typ.Factory()
	if err := m.replayTail(ctx, root, id, 0); err != nil {
		return zeroValue, err
	}

	if root.Version() == 0 {
		return zeroValue, aggregate.ErrRootNotFound
	}

	return root, nil
}

// replayTail applies to root the Domain Events recorded past the given
// version, streaming them from the Event Store.
func (m *Manager[I, T]) replayTail(ctx context.Context, root T, id I, after version.Version) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	streamID := event.StreamID(id.String())
	eventStream := make(event.Stream, 1)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := m.eventStore.Stream(ctx, eventStream, streamID, version.Selector{From: after + 1}); err != nil {
			return fmt.Errorf("snapshot.Manager: failed while reading events from stream, %w", err)
		}

		return nil
	})

	if err := aggregate.RehydrateFromEvents[I](root, eventStream); err != nil {
		return fmt.Errorf("snapshot.Manager: failed to rehydrate aggregate root, %w", err)
	}

	return group.Wait()
}
