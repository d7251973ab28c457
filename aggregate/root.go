// Package aggregate exposes the Aggregate Root abstractions for building
// event-sourced Domain entities, together with Repository implementations
// to save and load them from an Event Store.
package aggregate

import (
	"fmt"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/version"
)

// ID marks the types usable as Aggregate identifiers.
//
// An Aggregate ID must have a string representation, which names
// the Event Stream the Aggregate writes to.
type ID interface {
	fmt.Stringer
}

// StringID is a string-typed Aggregate ID.
type StringID string

func (id StringID) String() string { return string(id) }

// Aggregate describes the left-fold at the heart of an event-sourced entity:
// each Domain Event applied mutates the Aggregate Root state.
type Aggregate interface {
	// Apply mutates the Aggregate Root state with the given Domain Event.
	//
	// Implementations should use pointer receivers for the mutation
	// to stick, and must stay free of side effects beyond the state
	// change itself. No external calls belong here, which is why
	// no context.Context is passed.
	Apply(event.Event) error
}

// Root is the full contract of an Aggregate Root type.
//
// Embed aggregate.BaseRoot in your Aggregate Root type to satisfy
// everything except Apply and AggregateID.
type Root[I ID] interface {
	Aggregate

	// AggregateID returns the Aggregate Root identifier.
	AggregateID() I

	// Version returns the current Aggregate Root version, incremented
	// on every Domain Event recorded through aggregate.RecordThat.
	Version() version.Version

	// FlushRecordedEvents returns the Domain Events recorded since the
	// last flush, clearing the internal buffer.
	FlushRecordedEvents() []event.Envelope

	setVersion(version.Version)
	recordThat(Aggregate, ...event.Envelope) error
}

// Type ties an Aggregate Root implementation to its name, used as the
// Event Stream type, and to a factory producing zero-valued instances.
//
// Pointer-based Aggregate Root implementations should return a non-nil
// instance from the factory.
type Type[I ID, T Root[I]] struct {
	Name    string
	Factory func() T
}

// RecordThat applies the given Domain Events to the Aggregate Root and
// tracks them as uncommitted, ready to be flushed by a Repository on save.
//
// Failing to apply any of the events interrupts the recording and
// reports the error.
func RecordThat[I ID](root Root[I], events ...event.Envelope) error {
	return root.recordThat(root, events...)
}

// BaseRoot supplies the bookkeeping half of the aggregate.Root interface:
// version tracking and the buffer of recorded-but-uncommitted Domain
// Events. Embed it in your Aggregate Root types.
type BaseRoot struct {
	version        version.Version
	recordedEvents []event.Envelope
}

// Version returns the current version of the Aggregate Root instance.
func (br BaseRoot) Version() version.Version { return br.version }

// FlushRecordedEvents returns the Domain Events recorded since the last
// flush, resetting the internal buffer to nil.
func (br *BaseRoot) FlushRecordedEvents() []event.Envelope {
	flushed := br.recordedEvents
	br.recordedEvents = nil

	return flushed
}

func (br *BaseRoot) setVersion(v version.Version) {
	br.version = v
}

func (br *BaseRoot) recordThat(aggregate Aggregate, events ...event.Envelope) error {
	for _, evt := range events {
		if err := aggregate.Apply(evt.Message); err != nil {
			return fmt.Errorf("%T: failed to record event, %w", br, err)
		}

		br.recordedEvents = append(br.recordedEvents, evt)
		br.version++
	}

	return nil
}
