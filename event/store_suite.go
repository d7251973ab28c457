package event

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rewindkit/go-rewind/version"
)

// intPayload is the Domain Event payload used by the StoreSuite.
type intPayload int64

// Name implements message.Message.
func (intPayload) Name() string { return "int_payload" }

var (
	firstInstance  = StreamID("first-instance")
	secondInstance = StreamID("second-instance")
	thirdInstance  = StreamID("third-instance")
)

// makeStream builds the Event Stream contents the suite expects to read
// back for the given id: sequential intPayload events from version 1 to n.
func makeStream(id StreamID, n int) []Persisted {
	events := make([]Persisted, 0, n)

	for i := 1; i <= n; i++ {
		events = append(events, Persisted{
			StreamID: id,
			Version:  version.Version(i),
			Envelope: ToEnvelope(intPayload(i)),
		})
	}

	return events
}

// StoreSuite is a full testing suite for an event.Store instance.
type StoreSuite struct {
	suite.Suite

	storeFactory func() Store
	eventStore   Store // NOTE: this instance is initialized in SetupTest.
}

// NewStoreSuite creates a new Event Store testing suite using the provided
// event.Store factory.
func NewStoreSuite(factory func() Store) *StoreSuite {
	ss := new(StoreSuite)
	ss.storeFactory = factory

	return ss
}

// SetupTest creates a new, fresh Event Store instance for each test in the suite.
func (ss *StoreSuite) SetupTest() {
	ss.eventStore = ss.storeFactory()
}

// TestStore tests the event.Streamer and event.Appender interfaces using
// the provided Event Store instance.
func (ss *StoreSuite) TestStore() {
	t := ss.T()
	ctx := context.Background()

	// Append some events for the two test Event Streams.
	if err := ss.appendEvents(ctx); !assert.NoError(t, err) {
		return
	}

	// Make sure the Event Store has recorded the events as expected.
	streamFirstInstance, err := ss.readStream(ctx, firstInstance, version.SelectFromBeginning)
	assert.NoError(t, err)

	streamSecondInstance, err := ss.readStream(ctx, secondInstance, version.SelectFromBeginning)
	assert.NoError(t, err)

	assert.Equal(t, makeStream(firstInstance, 3), ss.skipMetadata(streamFirstInstance))
	assert.Equal(t, makeStream(secondInstance, 3), ss.skipMetadata(streamSecondInstance))

	// The Selector lower bound is inclusive: streaming from version 2
	// returns the last two events only.
	tailFirstInstance, err := ss.readStream(ctx, firstInstance, version.Selector{From: 2})
	assert.NoError(t, err)
	assert.Equal(t, makeStream(firstInstance, 3)[1:], ss.skipMetadata(tailFirstInstance))

	// Streaming with an out-of-bound Selector will yield no elements.
	streamFirstInstance, err = ss.readStream(ctx, firstInstance, version.Selector{From: 4})
	assert.NoError(t, err)

	streamSecondInstance, err = ss.readStream(ctx, secondInstance, version.Selector{From: 4})
	assert.NoError(t, err)

	assert.Empty(t, streamFirstInstance)
	assert.Empty(t, streamSecondInstance)

	// Testing the event.Appender interface and the optimistic concurrency handling.

	newVersion, err := ss.eventStore.Append(
		ctx,
		thirdInstance,
		version.CheckExact(0), // No event expected on this Event Stream!
		ToEnvelope(intPayload(0)),
	)

	assert.Equal(t, version.Version(1), newVersion)
	assert.NoError(t, err)

	_, err = ss.eventStore.Append(
		ctx,
		thirdInstance,
		version.CheckExact(0), // Appending with the same expected version should fail!
		ToEnvelope(intPayload(0)),
	)

	expectedErr := version.ConflictError{
		Expected: 0,
		Actual:   1,
	}

	var actualErr version.ConflictError

	assert.ErrorAs(t, err, &actualErr)
	assert.Equal(t, expectedErr, actualErr)
}

func (ss *StoreSuite) readStream(ctx context.Context, id StreamID, selector version.Selector) ([]Persisted, error) {
	return StreamToSlice(ctx, func(ctx context.Context, eventStream StreamWrite) error {
		return ss.eventStore.Stream(ctx, eventStream, id, selector)
	})
}

func (ss *StoreSuite) appendEvents(ctx context.Context) error {
	for i := 1; i < 4; i++ {
		for _, id := range []StreamID{firstInstance, secondInstance} {
			if _, err := ss.eventStore.Append(
				ctx,
				id,
				version.CheckExact(version.Version(i-1)),
				ToEnvelope(intPayload(i)),
			); err != nil {
				return fmt.Errorf("appendEvents: failed to append event %d to stream %s: %w", i, id, err)
			}
		}
	}

	return nil
}

func (*StoreSuite) skipMetadata(events []Persisted) []Persisted {
	mapped := make([]Persisted, 0, len(events))

	for _, evt := range events {
		newEvent := evt
		newEvent.Metadata = nil
		mapped = append(mapped, newEvent)
	}

	return mapped
}
