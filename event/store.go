package event

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rewindkit/go-rewind/version"
)

// Stream is a channel of persisted Domain Events, the transport used
// to replay an Event Stream out of an Event Store.
type Stream = chan Persisted

// StreamWrite is the write side of an event.Stream, handed to producers.
type StreamWrite chan<- Persisted

// StreamRead is the read side of an event.Stream, handed to consumers.
type StreamRead <-chan Persisted

// SliceToStream wraps a slice of persisted Domain Events into an
// already-closed event.Stream, buffered to the slice length and
// preserving the slice order.
func SliceToStream(events []Persisted) Stream {
	ch := make(chan Persisted, len(events))
	defer close(ch)

	for _, evt := range events {
		ch <- evt
	}

	return ch
}

// StreamToSlice drains the Event Stream produced by the given closure
// into a slice, returning the producer error, if any, once the stream
// has been exhausted.
func StreamToSlice(ctx context.Context, f func(ctx context.Context, stream StreamWrite) error) ([]Persisted, error) {
	ch := make(chan Persisted, 1)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error { return f(ctx, ch) })

	var events []Persisted
	for evt := range ch {
		events = append(events, evt)
	}

	return events, group.Wait()
}

// Streamer is an event.Store trait used to open a specific Event Stream
// and sink it onto the provided channel.
//
// Implementations close the provided channel when the stream is exhausted,
// and honor the version.Selector lower bound (inclusive).
type Streamer interface {
	Stream(ctx context.Context, stream StreamWrite, id StreamID, selector version.Selector) error
}

// Appender is an event.Store trait used to append new Domain Events to an Event Stream.
type Appender interface {
	Append(ctx context.Context, id StreamID, expected version.Check, events ...Envelope) (version.Version, error)
}

// Store is a full Event Store: Domain Events appended to it are durably
// recorded, and can be replayed back stream by stream.
type Store interface {
	Appender
	Streamer
}

// FusedStore fuses separate Appender and Streamer implementations
// in a single event.Store instance.
//
// Typically used when only one of the two traits is being decorated,
// e.g. wrapping Append with additional behavior while streaming
// from the original Event Store.
type FusedStore struct {
	Appender
	Streamer
}
