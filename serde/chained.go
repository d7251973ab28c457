package serde

import "fmt"

// Chained is a Serde built out of two other serdes sharing a common
// intermediate type: values travel Src to Mid to Dst when serializing,
// and the other way around when deserializing.
//
// The typical use is composing a Domain-to-model mapping with a model
// codec, e.g. an Aggregate Root mapped to a JSON model, then marshaled
// through NewJSON.
type Chained[Src any, Mid any, Dst any] struct {
	inner Serde[Src, Mid]
	outer Serde[Mid, Dst]
}

// Serialize implements serde.Serializer.
func (c Chained[Src, Mid, Dst]) Serialize(src Src) (Dst, error) {
	var zeroValue Dst

	mid, err := c.inner.Serialize(src)
	if err != nil {
		return zeroValue, fmt.Errorf("serde.Chained: inner serializer failed, %w", err)
	}

	dst, err := c.outer.Serialize(mid)
	if err != nil {
		return zeroValue, fmt.Errorf("serde.Chained: outer serializer failed, %w", err)
	}

	return dst, nil
}

// Deserialize implements serde.Deserializer.
func (c Chained[Src, Mid, Dst]) Deserialize(dst Dst) (Src, error) {
	var zeroValue Src

	mid, err := c.outer.Deserialize(dst)
	if err != nil {
		return zeroValue, fmt.Errorf("serde.Chained: outer deserializer failed, %w", err)
	}

	src, err := c.inner.Deserialize(mid)
	if err != nil {
		return zeroValue, fmt.Errorf("serde.Chained: inner deserializer failed, %w", err)
	}

	return src, nil
}

// Chain composes the two given serdes into one going from Src to Dst
// through the shared Mid type.
func Chain[Src any, Mid any, Dst any](inner Serde[Src, Mid], outer Serde[Mid, Dst]) Chained[Src, Mid, Dst] {
	return Chained[Src, Mid, Dst]{
		inner: inner,
		outer: outer,
	}
}
