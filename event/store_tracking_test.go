package event_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
	"github.com/rewindkit/go-rewind/version"
)

func TestTrackingEventStore(t *testing.T) {
	ctx := context.Background()

	store := event.NewInMemoryStore()
	trackingStore := event.NewTrackingEventStore(store)

	repository := aggregate.NewEventSourcedRepository(event.FusedStore{
		Appender: trackingStore,
		Streamer: store,
	}, article.Type)

	id := uuid.New()

	art, err := article.Create(id, "Tracked", "tracked", "v1")
	require.NoError(t, err)
	require.NoError(t, art.EditBody("v2", nil))

	require.NoError(t, repository.Save(ctx, art))

	recorded := trackingStore.Recorded()
	require.Len(t, recorded, 2)

	assert.Equal(t, event.StreamID(id.String()), recorded[0].StreamID)
	assert.Equal(t, version.Version(1), recorded[0].Version)
	assert.Equal(t, version.Version(2), recorded[1].Version)
	assert.Equal(t, "ArticleWasCreated", recorded[0].Message.Name())
	assert.Equal(t, "ArticleBodyWasEdited", recorded[1].Message.Name())
}

func TestTrackingStreamer(t *testing.T) {
	ctx := context.Background()

	store := event.NewInMemoryStore()
	streamer := event.NewTrackingStreamer(store)

	id := event.StreamID("tracked-streamer")

	_, err := store.Append(ctx, id, version.Any,
		event.ToEnvelope(testPayload("first")),
		event.ToEnvelope(testPayload("second")),
	)
	require.NoError(t, err)

	events, err := event.StreamToSlice(ctx, func(ctx context.Context, eventStream event.StreamWrite) error {
		return streamer.Stream(ctx, eventStream, id, version.SelectFromBeginning)
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	tail, err := event.StreamToSlice(ctx, func(ctx context.Context, eventStream event.StreamWrite) error {
		return streamer.Stream(ctx, eventStream, id, version.Selector{From: 2})
	})
	require.NoError(t, err)
	require.Len(t, tail, 1)

	requests := streamer.StreamRequests()
	require.Len(t, requests, 2)
	assert.Equal(t, event.StreamRequest{ID: id, Selector: version.SelectFromBeginning}, requests[0])
	assert.Equal(t, event.StreamRequest{ID: id, Selector: version.Selector{From: 2}}, requests[1])
}
