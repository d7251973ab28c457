// Package event contains the Domain Event abstraction, and the interfaces
// of the Event Store the rest of the module builds upon.
package event

import (
	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/version"
)

// Event is a Message representing some Domain information that has happened
// in the past, which is of vital importance to the Domain itself.
//
// Event type names should be phrased in the past tense, to enforce the notion
// of "information happened in the past".
type Event message.Message

// Envelope carries a Domain Event together with its Metadata.
type Envelope message.GenericEnvelope

// StreamID is the unique identifier of an Event Stream, typically
// the string representation of the Aggregate Root id.
type StreamID string

// Persisted represents a Domain Event that has been committed to the Event Store,
// carrying the Event Stream version assigned on append.
type Persisted struct {
	StreamID
	version.Version
	Envelope
}

// ToEnvelope wraps the given Domain Event in an Envelope with no Metadata.
func ToEnvelope(evt Event) Envelope {
	return Envelope{
		Message:  evt,
		Metadata: nil,
	}
}

// ToEnvelopes wraps each of the given Domain Events in an Envelope with no Metadata.
func ToEnvelopes(events ...Event) []Envelope {
	envelopes := make([]Envelope, 0, len(events))

	for _, evt := range events {
		envelopes = append(envelopes, Envelope{
			Message:  evt,
			Metadata: nil,
		})
	}

	return envelopes
}
