package serde

import (
	"encoding/json"
	"fmt"
)

// NewJSONSerializer returns a Serializer that marshals values of the T type
// to their JSON representation in bytes.
func NewJSONSerializer[T any]() SerializerFunc[T, []byte] {
	return func(t T) ([]byte, error) {
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.JSON: failed to marshal value, %w", err)
		}

		return data, nil
	}
}

// NewJSONDeserializer returns a Deserializer that unmarshals JSON bytes
// into values of the T type.
//
// The factory provides the instance unmarshaling writes into, so that
// pointer-typed T values start out non-nil.
func NewJSONDeserializer[T any](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		model := factory()

		if err := json.Unmarshal(data, &model); err != nil {
			var zeroValue T
			return zeroValue, fmt.Errorf("serde.JSON: failed to unmarshal value, %w", err)
		}

		return model, nil
	}
}

// NewJSON returns a Serde that maps values of the T type to and from
// their JSON representation in bytes.
func NewJSON[T any](factory func() T) Fused[T, []byte] {
	return Fuse(NewJSONSerializer[T](), NewJSONDeserializer(factory))
}
