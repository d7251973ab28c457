// Package message defines the Message abstraction, the payload type
// exchanged through the system (Domain Events above all).
package message

// Message is a payload with a unique name identifier.
//
// The name is used to route the payload to its concrete type,
// typically through a serde implementation.
type Message interface {
	Name() string
}

// Metadata holds contextual information attached to a Message, not functional
// to the Message itself (e.g. the identity that produced it, the reason
// a snapshot was taken, correlation identifiers).
type Metadata map[string]string

// With returns a Metadata map that includes the given key-value entry.
// The receiver is extended in place when non-nil.
func (m Metadata) With(key, value string) Metadata {
	if m == nil {
		m = make(Metadata)
	}

	m[key] = value

	return m
}

// Merge extends the receiver with all entries from other, overwriting
// entries sharing the same key, and returns the extended map.
func (m Metadata) Merge(other Metadata) Metadata {
	if m == nil {
		return other
	}

	for key, value := range other {
		m[key] = value
	}

	return m
}

// Copy returns a detached copy of the Metadata map, so that callers can
// extend a shared base map without mutating it. Returns nil when the
// receiver is nil.
func (m Metadata) Copy() Metadata {
	if m == nil {
		return nil
	}

	copied := make(Metadata, len(m))
	for key, value := range m {
		copied[key] = value
	}

	return copied
}

// Envelope bundles a Message with its Metadata.
type Envelope[T Message] struct {
	Message  T
	Metadata Metadata
}

// ToGenericEnvelope maps the Envelope into its type-erased form.
func (e Envelope[T]) ToGenericEnvelope() GenericEnvelope {
	return GenericEnvelope{
		Message:  e.Message,
		Metadata: e.Metadata,
	}
}

// GenericEnvelope is the type-erased Envelope form, used when the concrete
// Message type is not of interest.
type GenericEnvelope Envelope[Message]
