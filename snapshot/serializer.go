package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/version"
)

// Serializer captures the state of an Aggregate Root in an opaque byte
// envelope, and restores an Aggregate Root instance from one.
//
// The envelope is self-describing: it carries the Aggregate type name and
// the version the state was captured at, so that blobs can be dispatched
// to the right type and validated when read back.
type Serializer[I aggregate.ID, T aggregate.Root[I]] interface {
	Serialize(root T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}

// envelope is the wire format of a serialized Snapshot state.
type envelope struct {
	AggregateType string          `json:"aggregate_type"`
	Version       version.Version `json:"version"`
	State         []byte          `json:"state"`
}

// EnvelopeSerializer is the Registry-backed Serializer implementation.
//
// Serialization captures the Aggregate state through the serde registered
// for the Aggregate type and wraps it in a JSON envelope carrying type name
// and version. Deserialization dispatches on the envelope type name through
// the Registry: an envelope carrying an unregistered type name fails
// with UnknownTypeError.
type EnvelopeSerializer[I aggregate.ID, T aggregate.Root[I]] struct {
	registry *Registry
	typ      aggregate.Type[I, T]
}

// NewEnvelopeSerializer returns an EnvelopeSerializer for the given Aggregate
// type, dispatching through the given Registry.
//
// The Aggregate type itself should be registered in the Registry: an
// EnvelopeSerializer whose own type is unregistered fails all Serialize
// calls with UnknownTypeError.
func NewEnvelopeSerializer[I aggregate.ID, T aggregate.Root[I]](
	registry *Registry,
	typ aggregate.Type[I, T],
) (EnvelopeSerializer[I, T], error) {
	var zeroValue EnvelopeSerializer[I, T]

	if registry == nil {
		return zeroValue, fmt.Errorf("snapshot.NewEnvelopeSerializer: registry must not be nil")
	}

	if typ.Name == "" || typ.Factory == nil {
		return zeroValue, fmt.Errorf("snapshot.NewEnvelopeSerializer: aggregate type is incomplete")
	}

	return EnvelopeSerializer[I, T]{
		registry: registry,
		typ:      typ,
	}, nil
}

// Serialize captures the Aggregate Root state in an opaque envelope,
// recording the version the Root currently reports.
func (s EnvelopeSerializer[I, T]) Serialize(root T) ([]byte, error) {
	entry, err := s.registry.entry(s.typ.Name)
	if err != nil {
		return nil, err
	}

	state, err := entry.serialize(root)
	if err != nil {
		return nil, fmt.Errorf("snapshot.EnvelopeSerializer: failed to serialize aggregate state, %w", err)
	}

	data, err := json.Marshal(envelope{
		AggregateType: s.typ.Name,
		Version:       root.Version(),
		State:         state,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot.EnvelopeSerializer: failed to marshal envelope, %w", err)
	}

	return data, nil
}

// Deserialize restores an Aggregate Root instance from an envelope previously
// produced by Serialize. The returned Root reports the version carried
// by the envelope.
func (s EnvelopeSerializer[I, T]) Deserialize(data []byte) (T, error) {
	var zeroValue T

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return zeroValue, fmt.Errorf("snapshot.EnvelopeSerializer: failed to unmarshal envelope, %w", err)
	}

	entry, err := s.registry.entry(env.AggregateType)
	if err != nil {
		return zeroValue, err
	}

	root, err := entry.deserialize(env.State, env.Version)
	if err != nil {
		return zeroValue, fmt.Errorf("snapshot.EnvelopeSerializer: failed to deserialize aggregate state, %w", err)
	}

	typed, ok := root.(T)
	if !ok {
		return zeroValue, fmt.Errorf(
			"snapshot.EnvelopeSerializer: envelope type %s does not deserialize to the expected aggregate root, got %T",
			env.AggregateType, root,
		)
	}

	return typed, nil
}
