package serde

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// NewProtoJSONSerializer returns a Serializer that marshals Protobuf
// messages of the T type to their canonical JSON representation in bytes.
func NewProtoJSONSerializer[T proto.Message]() SerializerFunc[T, []byte] {
	return func(t T) ([]byte, error) {
		data, err := protojson.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.ProtoJSON: failed to marshal message, %w", err)
		}

		return data, nil
	}
}

// NewProtoJSONDeserializer returns a Deserializer that unmarshals Protobuf
// JSON bytes into messages of the T type.
//
// The factory provides the message instance unmarshaling writes into.
func NewProtoJSONDeserializer[T proto.Message](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		model := factory()

		if err := protojson.Unmarshal(data, model); err != nil {
			var zeroValue T
			return zeroValue, fmt.Errorf("serde.ProtoJSON: failed to unmarshal message, %w", err)
		}

		return model, nil
	}
}

// NewProtoJSON returns a Serde that maps Protobuf messages of the T type
// to and from their canonical JSON representation in bytes.
func NewProtoJSON[T proto.Message](factory func() T) Fused[T, []byte] {
	return Fuse(NewProtoJSONSerializer[T](), NewProtoJSONDeserializer(factory))
}
