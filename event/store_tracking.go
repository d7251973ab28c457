package event

import (
	"context"
	"sync"

	"github.com/rewindkit/go-rewind/version"
)

// TrackingEventStore is an Event Store wrapper that records the Events
// committed through the inner Appender.
//
// Useful for test assertions.
type TrackingEventStore struct {
	Appender

	mx       sync.RWMutex
	recorded []Persisted
}

// NewTrackingEventStore wraps an Event Store to capture the Events
// that get appended to it.
func NewTrackingEventStore(appender Appender) *TrackingEventStore {
	return &TrackingEventStore{Appender: appender}
}

// Recorded returns the Events that have been appended to the Event Store,
// in append order.
func (es *TrackingEventStore) Recorded() []Persisted {
	es.mx.RLock()
	defer es.mx.RUnlock()

	return es.recorded
}

// Append forwards the call to the wrapped Event Store instance and,
// if the operation concludes successfully, records the appended events
// internally. Access them by calling Recorded().
func (es *TrackingEventStore) Append(
	ctx context.Context,
	id StreamID,
	expected version.Check,
	events ...Envelope,
) (version.Version, error) {
	es.mx.Lock()
	defer es.mx.Unlock()

	v, err := es.Appender.Append(ctx, id, expected, events...)
	if err != nil {
		return v, err
	}

	previousVersion := v - version.Version(len(events))

	for i, evt := range events {
		es.recorded = append(es.recorded, Persisted{
			StreamID: id,
			Version:  previousVersion + version.Version(i) + 1,
			Envelope: evt,
		})
	}

	return v, err
}

// StreamRequest records a single Stream call served by a Streamer.
type StreamRequest struct {
	ID       StreamID
	Selector version.Selector
}

// TrackingStreamer is a Streamer wrapper that records the stream requests
// served by the inner Streamer.
//
// Useful to assert which slice of an Event Stream a component replays,
// e.g. that loading from a snapshot only fetches the Events recorded
// past the snapshot version.
type TrackingStreamer struct {
	Streamer

	mx       sync.RWMutex
	requests []StreamRequest
}

// NewTrackingStreamer wraps a Streamer to capture the stream requests
// it serves.
func NewTrackingStreamer(streamer Streamer) *TrackingStreamer {
	return &TrackingStreamer{Streamer: streamer}
}

// StreamRequests returns the recorded stream requests, in call order.
func (ts *TrackingStreamer) StreamRequests() []StreamRequest {
	ts.mx.RLock()
	defer ts.mx.RUnlock()

	return ts.requests
}

// Stream records the request and forwards the call to the inner Streamer.
func (ts *TrackingStreamer) Stream(
	ctx context.Context,
	eventStream StreamWrite,
	id StreamID,
	selector version.Selector,
) error {
	ts.mx.Lock()
	ts.requests = append(ts.requests, StreamRequest{ID: id, Selector: selector})
	ts.mx.Unlock()

	return ts.Streamer.Stream(ctx, eventStream, id, selector)
}
