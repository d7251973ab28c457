// Package serde defines the serialization and deserialization abstractions
// used to move values between their Domain representation and a target
// format, such as a byte array for persistence.
package serde

// Serializer maps values of the Src type onto the Dst type.
type Serializer[Src any, Dst any] interface {
	Serialize(src Src) (Dst, error)
}

// SerializerFunc is the functional adapter for the Serializer interface.
type SerializerFunc[Src any, Dst any] func(src Src) (Dst, error)

// Serialize implements serde.Serializer.
func (fn SerializerFunc[Src, Dst]) Serialize(src Src) (Dst, error) { return fn(src) }

// AsSerializerFunc adapts the given serialization function
// to the Serializer interface.
func AsSerializerFunc[Src, Dst any](f func(src Src) (Dst, error)) SerializerFunc[Src, Dst] {
	return SerializerFunc[Src, Dst](f)
}

// AsInfallibleSerializerFunc adapts a serialization function that can never
// fail to the Serializer interface.
func AsInfallibleSerializerFunc[Src, Dst any](f func(src Src) Dst) SerializerFunc[Src, Dst] {
	return func(src Src) (Dst, error) {
		return f(src), nil
	}
}

// Deserializer maps values of the Dst type back onto the Src type.
type Deserializer[Src any, Dst any] interface {
	Deserialize(dst Dst) (Src, error)
}

// DeserializerFunc is the functional adapter for the Deserializer interface.
type DeserializerFunc[Src any, Dst any] func(dst Dst) (Src, error)

// Deserialize implements serde.Deserializer.
func (fn DeserializerFunc[Src, Dst]) Deserialize(dst Dst) (Src, error) { return fn(dst) }

// AsDeserializerFunc adapts the given deserialization function
// to the Deserializer interface.
func AsDeserializerFunc[Src, Dst any](f func(dst Dst) (Src, error)) DeserializerFunc[Src, Dst] {
	return DeserializerFunc[Src, Dst](f)
}

// AsInfallibleDeserializerFunc adapts a deserialization function that can
// never fail to the Deserializer interface.
func AsInfallibleDeserializerFunc[Src, Dst any](f func(dst Dst) Src) DeserializerFunc[Src, Dst] {
	return func(dst Dst) (Src, error) {
		return f(dst), nil
	}
}

// Serde groups the Serializer and Deserializer behavior for the same
// pair of types.
type Serde[Src any, Dst any] interface {
	Serializer[Src, Dst]
	Deserializer[Src, Dst]
}

// Fused combines independent Serializer and Deserializer implementations
// into a Serde.
type Fused[Src any, Dst any] struct {
	Serializer[Src, Dst]
	Deserializer[Src, Dst]
}

// Fuse builds a Serde out of the given Serializer and Deserializer
// implementations, which must work on the same pair of types.
func Fuse[Src, Dst any](serializer Serializer[Src, Dst], deserializer Deserializer[Src, Dst]) Fused[Src, Dst] {
	return Fused[Src, Dst]{
		Serializer:   serializer,
		Deserializer: deserializer,
	}
}
