package article

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/version"
)

// AggregateRepositorySuite returns an executable testing suite running on the
// aggregate.Repository value provided in input.
//
// Package article of this module exposes a JSON-based serde, which can be useful
// to test serialization and deserialization of data to the target repository implementation.
func AggregateRepositorySuite(repository aggregate.Repository[uuid.UUID, *Article]) func(t *testing.T) { //nolint:funlen,lll // It's a test suite.
	return func(t *testing.T) {
		ctx := context.Background()

		t.Run("it can load and save aggregates from the repository", func(t *testing.T) {
			id := uuid.New()

			_, err := repository.Get(ctx, id)
			if !assert.ErrorIs(t, err, aggregate.ErrRootNotFound) {
				return
			}

			art, err := Create(id, "On Event Sourcing", "on-event-sourcing", "Events all the way down.")
			if !assert.NoError(t, err) {
				return
			}

			require.NoError(t, art.EditBody("Events, all the way down.", message.Metadata{
				"Edited-By": "repository-suite",
			}))
			require.NoError(t, art.Publish(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

			if err := repository.Save(ctx, art); !assert.NoError(t, err) {
				return
			}

			got, err := repository.Get(ctx, id)
			assert.NoError(t, err)
			assert.Equal(t, art, got)
		})

		t.Run("optimistic locking of aggregates is also working fine", func(t *testing.T) {
			id := uuid.New()

			art, err := Create(id, "Optimistic Locking", "optimistic-locking", "")
			require.NoError(t, err)

			if err := repository.Save(ctx, art); !assert.NoError(t, err) {
				return
			}

			// Create a second Article instance with the same id, unaware
			// of the Domain Events recorded by the first one.
			outdated, err := Create(id, "Optimistic Locking", "optimistic-locking", "")
			require.NoError(t, err)

			err = repository.Save(ctx, outdated)

			expectedErr := version.ConflictError{
				Expected: 0,
				Actual:   1,
			}

			var conflictErr version.ConflictError

			assert.ErrorAs(t, err, &conflictErr)
			assert.Equal(t, expectedErr, conflictErr)
		})
	}
}
