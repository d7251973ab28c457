package snapshot

import (
	"fmt"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/serde"
	"github.com/rewindkit/go-rewind/version"
)

// Transformer reshapes the serialized state of an Aggregate Root before
// it is wrapped in the snapshot envelope.
//
// Typical uses are redacting sensitive fields or compacting verbose state.
// The transformation is one-way: reversing its effects, where needed, is the
// responsibility of the Aggregate state serde registered alongside it.
type Transformer func(state []byte) ([]byte, error)

// Registry holds the closed set of Aggregate types a Serializer can
// dispatch on, keyed by Aggregate type name.
//
// A Registry is populated explicitly through snapshot.Register: there is
// no global registration, and looking up an unregistered name fails
// with UnknownTypeError.
type Registry struct {
	entries map[string]registryEntry
}

type registryEntry struct {
	serialize   func(root any) ([]byte, error)
	deserialize func(state []byte, v version.Version) (any, error)
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
	}
}

func (r *Registry) entry(aggregateType string) (registryEntry, error) {
	entry, ok := r.entries[aggregateType]
	if !ok {
		return registryEntry{}, UnknownTypeError{AggregateType: aggregateType}
	}

	return entry, nil
}

// RegisterOption changes the optional settings of a Register call.
type RegisterOption interface {
	apply(*registerConfig)
}

type registerConfig struct {
	transformer Transformer
}

type registerOption func(*registerConfig)

func (fn registerOption) apply(cfg *registerConfig) { fn(cfg) }

// WithTransformer sets a Transformer hook, applied to the serialized
// Aggregate state before wrapping it in the snapshot envelope.
func WithTransformer(transformer Transformer) RegisterOption {
	return registerOption(func(cfg *registerConfig) {
		cfg.transformer = transformer
	})
}

// Register adds the given Aggregate type to the Registry, using the provided
// state serde to capture and restore the Aggregate Root state.
//
// An error is returned when the Aggregate type name is empty or already
// registered, or when the state serde is missing.
func Register[I aggregate.ID, T aggregate.Root[I]](
	registry *Registry,
	typ aggregate.Type[I, T],
	stateSerde serde.Bytes[T],
	options ...RegisterOption,
) error {
	if registry == nil {
		return fmt.Errorf("snapshot.Register: registry must not be nil")
	}

	if typ.Name == "" {
		return fmt.Errorf("snapshot.Register: aggregate type name must not be empty")
	}

	if stateSerde == nil {
		return fmt.Errorf("snapshot.Register: state serde must not be nil, aggregate type: %s", typ.Name)
	}

	if _, ok := registry.entries[typ.Name]; ok {
		return fmt.Errorf("snapshot.Register: aggregate type already registered, %s", typ.Name)
	}

	cfg := new(registerConfig)
	for _, opt := range options {
		opt.apply(cfg)
	}

	transformer := cfg.transformer

	registry.entries[typ.Name] = registryEntry{
		serialize: func(root any) ([]byte, error) {
			typed, ok := root.(T)
			if !ok {
				return nil, fmt.Errorf("snapshot.Registry: unexpected root type for %s, got %T", typ.Name, root)
			}

			state, err := stateSerde.Serialize(typed)
			if err != nil {
				return nil, err
			}

			if transformer != nil {
				if state, err = transformer(state); err != nil {
					return nil, fmt.Errorf("snapshot.Registry: state transformer failed, %w", err)
				}
			}

			return state, nil
		},
		deserialize: func(state []byte, v version.Version) (any, error) {
			root, err := aggregate.RehydrateFromState[I, T, []byte](v, state, stateSerde)
			if err != nil {
				return nil, err
			}

			return root, nil
		},
	}

	return nil
}
