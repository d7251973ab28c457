package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
	"github.com/rewindkit/go-rewind/logger"
	"github.com/rewindkit/go-rewind/snapshot"
	"github.com/rewindkit/go-rewind/version"
)

var errRecordFailed = errors.New("record failed")

// failingRecorderStore rejects every Record call, to exercise the
// best-effort snapshotting on saves.
type failingRecorderStore struct {
	snapshot.Store
}

func (failingRecorderStore) Record(context.Context, snapshot.Snapshot) error {
	return errRecordFailed
}

func TestRepository(t *testing.T) {
	t.Run("get falls back to the inner repository only without a snapshot", func(t *testing.T) {
		ctx := context.Background()

		eventStore := event.NewInMemoryStore()
		snapshotStore := snapshot.NewInMemoryStore()
		streamer := event.NewTrackingStreamer(eventStore)

		manager := newArticleManager(t, streamer, snapshotStore, snapshot.NeverPolicy{})
		repository := snapshot.Repository[uuid.UUID, *article.Article]{
			Inner:   aggregate.NewEventSourcedRepository(eventStore, article.Type),
			Manager: manager,
			Logger:  logger.NewTest(t),
		}

		id := uuid.New()

		art, err := article.Create(id, "Fallback", "fallback", "v1")
		require.NoError(t, err)
		require.NoError(t, art.EditBody("v2", nil))
		require.NoError(t, art.EditBody("v3", nil))
		require.NoError(t, repository.Save(ctx, art))

		// No snapshot recorded: loading goes through the inner repository,
		// without touching the Manager's streamer.
		got, err := repository.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, art, got)
		assert.Empty(t, streamer.StreamRequests())

		// Once a snapshot exists, loads go through the snapshot path and
		// replay the Event Stream tail only.
		_, err = manager.CreateSnapshot(ctx, id)
		require.NoError(t, err)

		fromSnapshot, err := repository.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, got, fromSnapshot)

		requests := streamer.StreamRequests()
		require.NotEmpty(t, requests)
		assert.Equal(t, version.Selector{From: 4}, requests[len(requests)-1].Selector)
	})

	t.Run("unknown aggregates are still reported as not found", func(t *testing.T) {
		ctx := context.Background()

		eventStore := event.NewInMemoryStore()
		snapshotStore := snapshot.NewInMemoryStore()

		repository := snapshot.Repository[uuid.UUID, *article.Article]{
			Inner:   aggregate.NewEventSourcedRepository(eventStore, article.Type),
			Manager: newArticleManager(t, eventStore, snapshotStore, snapshot.NeverPolicy{}),
			Logger:  nil,
		}

		_, err := repository.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, aggregate.ErrRootNotFound)
	})

	t.Run("save records a snapshot when the policy advises", func(t *testing.T) {
		ctx := context.Background()

		eventStore := event.NewInMemoryStore()
		snapshotStore := snapshot.NewInMemoryStore()

		policy, err := snapshot.NewEveryNEventsPolicy(2)
		require.NoError(t, err)

		repository := snapshot.Repository[uuid.UUID, *article.Article]{
			Inner:   aggregate.NewEventSourcedRepository(eventStore, article.Type),
			Manager: newArticleManager(t, eventStore, snapshotStore, policy),
			Logger:  logger.NewTest(t),
		}

		id := uuid.New()

		art, err := article.Create(id, "Policy Driven", "policy-driven", "v1")
		require.NoError(t, err)
		require.NoError(t, repository.Save(ctx, art))

		// Version 1: the policy has not fired yet.
		_, err = snapshotStore.GetLatest(ctx, id.String())
		assert.ErrorIs(t, err, snapshot.ErrNotFound)

		require.NoError(t, art.EditBody("v2", nil))
		require.NoError(t, repository.Save(ctx, art))

		latest, err := snapshotStore.GetLatest(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, version.Version(2), latest.Version)
	})

	t.Run("snapshot failures never fail saves", func(t *testing.T) {
		ctx := context.Background()

		eventStore := event.NewInMemoryStore()
		snapshotStore := failingRecorderStore{Store: snapshot.NewInMemoryStore()}

		repository := snapshot.Repository[uuid.UUID, *article.Article]{
			Inner:   aggregate.NewEventSourcedRepository(eventStore, article.Type),
			Manager: newArticleManager(t, eventStore, snapshotStore, snapshot.AlwaysPolicy{}),
			Logger:  logger.NewTest(t),
		}

		id := uuid.New()

		art, err := article.Create(id, "Best Effort", "best-effort", "")
		require.NoError(t, err)

		// The snapshot store rejects every Record call: the save itself
		// must still succeed, with the events durably appended.
		require.NoError(t, repository.Save(ctx, art))

		got, err := repository.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, version.Version(1), got.Version())

		_, err = snapshotStore.GetLatest(ctx, id.String())
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run("save surfaces inner repository failures", func(t *testing.T) {
		ctx := context.Background()

		eventStore := event.NewInMemoryStore()
		snapshotStore := snapshot.NewInMemoryStore()

		repository := snapshot.Repository[uuid.UUID, *article.Article]{
			Inner:   aggregate.NewEventSourcedRepository(eventStore, article.Type),
			Manager: newArticleManager(t, eventStore, snapshotStore, snapshot.NeverPolicy{}),
			Logger:  nil,
		}

		id := uuid.New()

		art, err := article.Create(id, "Conflicting", "conflicting", "")
		require.NoError(t, err)
		require.NoError(t, repository.Save(ctx, art))

		// A second instance created from scratch is unaware of the events
		// recorded by the first one: saving it must conflict.
		outdated, err := article.Create(id, "Conflicting", "conflicting", "")
		require.NoError(t, err)

		err = repository.Save(ctx, outdated)

		var conflictErr version.ConflictError
		assert.ErrorAs(t, err, &conflictErr)
	})
}
