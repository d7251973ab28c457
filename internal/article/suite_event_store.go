package article

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/version"
)

// EventStoreSuite returns an executable testing suite running on the
// event.Store value provided in input.
func EventStoreSuite(eventStore event.Store) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()

		// Testing the Event-sourced repository implementation, which
		// indirectly tests the Event Store instance.
		AggregateRepositorySuite(aggregate.NewEventSourcedRepository(eventStore, Type))(t)

		t.Run("append works when used with version.Any", func(t *testing.T) {
			id := uuid.New()

			art, err := Create(id, "Check Any", "check-any", "v1")
			require.NoError(t, err)
			require.NoError(t, art.EditBody("v2", nil))

			eventsToCommit := art.FlushRecordedEvents()
			expectedVersion := version.Version(len(eventsToCommit))

			newVersion, err := eventStore.Append(
				ctx,
				event.StreamID(id.String()),
				version.Any,
				eventsToCommit...,
			)

			require.NoError(t, err)
			require.Equal(t, expectedVersion, newVersion)

			// Update the same Event Stream once more, still without
			// an explicit version expectation.
			require.NoError(t, art.Archive())

			newEventsToCommit := art.FlushRecordedEvents()
			expectedVersion += version.Version(len(newEventsToCommit))

			newVersion, err = eventStore.Append(
				ctx,
				event.StreamID(id.String()),
				version.Any,
				newEventsToCommit...,
			)

			require.NoError(t, err)
			require.Equal(t, expectedVersion, newVersion)
		})
	}
}
