package serde

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// NewProtoSerializer returns a Serializer that marshals Protobuf messages
// of the T type to their wire format in bytes.
func NewProtoSerializer[T proto.Message]() SerializerFunc[T, []byte] {
	return func(t T) ([]byte, error) {
		data, err := proto.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.Proto: failed to marshal message, %w", err)
		}

		return data, nil
	}
}

// NewProtoDeserializer returns a Deserializer that unmarshals Protobuf wire
// format bytes into messages of the T type.
//
// The factory provides the message instance unmarshaling writes into.
func NewProtoDeserializer[T proto.Message](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		model := factory()

		if err := proto.Unmarshal(data, model); err != nil {
			var zeroValue T
			return zeroValue, fmt.Errorf("serde.Proto: failed to unmarshal message, %w", err)
		}

		return model, nil
	}
}

// NewProto returns a Serde that maps Protobuf messages of the T type
// to and from their wire format in bytes.
func NewProto[T proto.Message](factory func() T) Fused[T, []byte] {
	return Fuse(NewProtoSerializer[T](), NewProtoDeserializer(factory))
}
