package otelrewind_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
	"github.com/rewindkit/go-rewind/otelrewind"
	"github.com/rewindkit/go-rewind/snapshot"
	"github.com/rewindkit/go-rewind/version"
)

// The instrumented decorators use the global no-op providers here: these
// tests only assert that calls flow through to the wrapped components.
func TestInstrumentedStore(t *testing.T) {
	ctx := context.Background()

	store, err := otelrewind.NewInstrumentedStore(snapshot.NewInMemoryStore())
	require.NoError(t, err)

	_, err = store.GetLatest(ctx, "some-article")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	snap := snapshot.Snapshot{
		AggregateID: "some-article",
		Version:     3,
		State:       []byte(`{}`),
	}

	require.NoError(t, store.Record(ctx, snap))

	latest, err := store.GetLatest(ctx, "some-article")
	assert.NoError(t, err)
	assert.Equal(t, snap.Version, latest.Version)

	assert.Error(t, store.DeleteOldSnapshots(ctx, "some-article", 0))
	assert.NoError(t, store.DeleteOldSnapshots(ctx, "some-article", 1))
}

func TestInstrumentedManager(t *testing.T) {
	ctx := context.Background()
	eventStore := event.NewInMemoryStore()
	repository := aggregate.NewEventSourcedRepository(eventStore, article.Type)

	registry := snapshot.NewRegistry()
	require.NoError(t, snapshot.Register(registry, article.Type, article.StateSerde))

	serializer, err := snapshot.NewEnvelopeSerializer(registry, article.Type)
	require.NoError(t, err)

	policy, err := snapshot.NewEveryNEventsPolicy(2)
	require.NoError(t, err)

	manager, err := snapshot.NewManager(article.Type, eventStore, snapshot.NewInMemoryStore(), serializer, policy)
	require.NoError(t, err)

	instrumented, err := otelrewind.NewInstrumentedManager(article.Type, manager)
	require.NoError(t, err)

	id := uuid.New()

	art, err := article.Create(id, "Instrumentation", "instrumentation", "Decorate, measure, delegate.")
	require.NoError(t, err)
	require.NoError(t, art.EditBody("Decorate, measure, then delegate.", nil))
	require.NoError(t, repository.Save(ctx, art))

	assert.True(t, instrumented.ShouldTakeSnapshot(art))

	snap, err := instrumented.CreateSnapshot(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, version.Version(2), snap.Version)

	loaded, err := instrumented.Load(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, art, loaded)
}
