package event_test

import (
	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
)

func ExampleFusedStore() {
	eventStore := event.NewInMemoryStore()
	trackingStore := event.NewTrackingEventStore(eventStore)

	// Record the events appended through the repository, while streaming
	// from the original Event Store.
	aggregate.NewEventSourcedRepository(event.FusedStore{
		Appender: trackingStore,
		Streamer: eventStore,
	}, article.Type)
}
