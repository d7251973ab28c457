package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/rewindkit/go-rewind/snapshot"
	"github.com/rewindkit/go-rewind/version"
)

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, snapshot.NewStoreSuite(func() snapshot.Store {
		return snapshot.NewInMemoryStore()
	}))
}

func TestInMemoryStoreConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewInMemoryStore()

	state := []byte(`{"writer":"first-wins"}`)

	// All writers race on the same (aggregate id, version) pair:
	// the store must end up with a single entry.
	var group errgroup.Group

	for i := 0; i < 16; i++ {
		group.Go(func() error {
			return store.Record(ctx, snapshot.Snapshot{
				AggregateID: "concurrent",
				Version:     42,
				State:       state,
				RecordedAt:  time.Now(),
				Metadata:    nil,
			})
		})
	}

	require.NoError(t, group.Wait())

	latest, err := store.GetLatest(ctx, "concurrent")
	require.NoError(t, err)
	assert.Equal(t, version.Version(42), latest.Version)
	assert.Equal(t, state, latest.State)
}
