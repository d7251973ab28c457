package article

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/snapshot"
	"github.com/rewindkit/go-rewind/version"
)

// SnapshotRepositorySuite returns an executable testing suite exercising the
// full snapshot lifecycle against the provided Event Store and snapshot.Store
// pair: policy-driven snapshot recording on saves, snapshot-based loading,
// and explicit retention.
func SnapshotRepositorySuite(eventStore event.Store, snapshotStore snapshot.Store) func(t *testing.T) { //nolint:funlen // It's a test suite.
	return func(t *testing.T) {
		ctx := context.Background()

		registry := snapshot.NewRegistry()
		require.NoError(t, snapshot.Register(registry, Type, StateSerde))

		serializer, err := snapshot.NewEnvelopeSerializer(registry, Type)
		require.NoError(t, err)

		policy, err := snapshot.NewEveryNEventsPolicy(10)
		require.NoError(t, err)

		manager, err := snapshot.NewManager(Type, eventStore, snapshotStore, serializer, policy)
		require.NoError(t, err)

		repository := snapshot.Repository[uuid.UUID, *Article]{
			Inner:   aggregate.NewEventSourcedRepository(eventStore, Type),
			Manager: manager,
			Logger:  nil,
		}

		id := uuid.New()

		art, err := Create(id, "Snapshot Lifecycle", "snapshot-lifecycle", "v1")
		require.NoError(t, err)
		require.NoError(t, repository.Save(ctx, art))

		// Reach version 25 one event per save: the policy should have
		// recorded snapshots at versions 10 and 20 along the way.
		for i := art.Version(); i < 25; i++ {
			got, err := repository.Get(ctx, id)
			require.NoError(t, err)

			require.NoError(t, got.EditBody(fmt.Sprintf("v%d", i+1), nil))
			require.NoError(t, repository.Save(ctx, got))
		}

		latest, err := snapshotStore.GetLatest(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, version.Version(20), latest.Version)

		// Loading through the snapshot path returns the same state
		// a full Event Stream replay would.
		fromSnapshot, err := repository.Get(ctx, id)
		require.NoError(t, err)

		fromReplay, err := repository.Inner.Get(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, version.Version(25), fromSnapshot.Version())
		assert.Equal(t, fromReplay, fromSnapshot)

		// Retention stays an explicit operation: prune old entries,
		// then make sure loads still work off the latest snapshot.
		require.NoError(t, snapshotStore.DeleteOldSnapshots(ctx, id.String(), 1))

		latest, err = snapshotStore.GetLatest(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, version.Version(20), latest.Version)

		afterRetention, err := repository.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, fromSnapshot, afterRetention)
	}
}
