package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/rewindkit/go-rewind/version"
)

// Interface implementation assertion.
var _ Store = new(InMemoryStore)

// InMemoryStore is a thread-safe, in-memory event.Store implementation,
// useful for tests and local development.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[StreamID][]Envelope
}

// NewInMemoryStore returns a fresh InMemoryStore, ready for use.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		mu:     sync.RWMutex{},
		events: make(map[StreamID][]Envelope),
	}
}

// Stream sinks the committed events of the specified Event Stream onto the
// provided channel, starting from the version specified by the selector.
//
// The call is synchronous: it returns when all selected Events have been
// written to the channel, or when the context is canceled.
func (es *InMemoryStore) Stream(
	ctx context.Context,
	eventStream StreamWrite,
	id StreamID,
	selector version.Selector,
) error {
	es.mu.RLock()
	defer es.mu.RUnlock()
	defer close(eventStream)

	events := es.events[id]

	// Stream versions are 1-based: the event at index i carries version i+1.
	start := int(selector.From) - 1
	if start < 0 {
		start = 0
	}

	for i := start; i < len(events); i++ {
		persistedEvent := Persisted{
			Envelope: events[i],
			StreamID: id,
			Version:  version.Version(i) + 1,
		}

		select {
		case eventStream <- persistedEvent:
		case <-ctx.Done():
			return fmt.Errorf("event.InMemoryStore: context done while streaming, %w", ctx.Err())
		}
	}

	return nil
}

// Append inserts the specified Domain Events into the specified Event Stream,
// returning the new version of the Event Stream.
//
// `version.CheckExact` can be specified to enable an Optimistic Concurrency check
// on append, using the expected version of the Event Stream prior to appending
// the new Events. Alternatively, `version.Any` skips the check altogether.
//
// A `version.ConflictError` is returned when the optimistic locking check
// fails against the current version of the Event Stream.
func (es *InMemoryStore) Append(
	_ context.Context,
	id StreamID,
	expected version.Check,
	events ...Envelope,
) (version.Version, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	currentVersion := version.Version(len(es.events[id]))

	if expectedVersion, ok := expected.(version.CheckExact); ok && version.Version(expectedVersion) != currentVersion {
		return 0, fmt.Errorf("event.InMemoryStore: failed to append events, %w", version.ConflictError{
			Expected: version.Version(expectedVersion),
			Actual:   currentVersion,
		})
	}

	es.events[id] = append(es.events[id], events...)

	return version.Version(len(es.events[id])), nil
}
