package aggregate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/serde"
	"github.com/rewindkit/go-rewind/version"
)

// RehydrateFromEvents applies each Domain Event coming from the read side
// of an Event Stream onto the given Aggregate Root, updating its version
// as the events get applied.
//
// The call returns once the stream has been closed by its producer.
func RehydrateFromEvents[I ID](root Root[I], eventStream event.StreamRead) error {
	for evt := range eventStream {
		if err := root.Apply(evt.Message); err != nil {
			return fmt.Errorf("aggregate.RehydrateFromEvents: failed to apply event, %w", err)
		}

		root.setVersion(evt.Version)
	}

	return nil
}

// RehydrateFromState turns a state representation of an Aggregate Root,
// such as a Protobuf message or a snapshot blob, back into a live Root
// instance at the version the state was recorded at.
func RehydrateFromState[I ID, Src Root[I], Dst any](
	v version.Version,
	dst Dst,
	deserializer serde.Deserializer[Src, Dst],
) (Src, error) {
	var zeroValue Src

	src, err := deserializer.Deserialize(dst)
	if err != nil {
		return zeroValue, fmt.Errorf("aggregate.RehydrateFromState: failed to deserialize state into root, %w", err)
	}

	src.setVersion(v)

	return src, nil
}

// EventSourcedRepository is an aggregate.Repository implementation that
// loads Aggregate Roots by replaying their Event Stream from an event.Store,
// and saves them by appending their recorded Domain Events to it.
type EventSourcedRepository[I ID, T Root[I]] struct {
	eventStore event.Store
	typ        Type[I, T]
}

// NewEventSourcedRepository builds an EventSourcedRepository for the Aggregate
// described by the given aggregate.Type, backed by the given event.Store.
func NewEventSourcedRepository[I ID, T Root[I]](eventStore event.Store, typ Type[I, T]) EventSourcedRepository[I, T] {
	return EventSourcedRepository[I, T]{
		eventStore: eventStore,
		typ:        typ,
	}
}

// Get rehydrates the Aggregate Root with the given id by replaying its whole
// Event Stream, returning aggregate.ErrRootNotFound if the stream is empty.
//
// Streaming and rehydration run concurrently. Errors from either side
// cancel the other through the shared context.
func (repo EventSourcedRepository[I, T]) Get(ctx context.Context, id I) (T, error) {
	var zeroValue T

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	streamID := event.StreamID(id.String())
	eventStream := make(event.Stream, 1)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := repo.eventStore.Stream(ctx, eventStream, streamID, version.SelectFromBeginning); err != nil {
			return fmt.Errorf("aggregate.EventSourcedRepository: failed while reading events from stream, %w", err)
		}

		return nil
	})

	root := repo.typ.Factory()

	if err := RehydrateFromEvents(root, eventStream); err != nil {
		return zeroValue, fmt.Errorf("aggregate.EventSourcedRepository: failed to rehydrate aggregate root, %w", err)
	}

	if err := group.Wait(); err != nil {
		return zeroValue, err
	}

	if root.Version() == 0 {
		return zeroValue, ErrRootNotFound
	}

	return root, nil
}

// Save commits the uncommitted Domain Events recorded on the Aggregate Root
// to the Event Store. Roots with no uncommitted events are left untouched.
//
// The expected stream version passed to the Event Store is derived from
// the Root version, so concurrent writers to the same stream surface
// as version.ConflictError values.
func (repo EventSourcedRepository[I, T]) Save(ctx context.Context, root T) error {
	events := root.FlushRecordedEvents()
	if len(events) == 0 {
		return nil
	}

	streamID := event.StreamID(root.AggregateID().String())
	expectedVersion := version.CheckExact(root.Version() - version.Version(len(events)))

	if _, err := repo.eventStore.Append(ctx, streamID, expectedVersion, events...); err != nil {
		return fmt.Errorf("aggregate.EventSourcedRepository: failed to commit recorded events, %w", err)
	}

	return nil
}
