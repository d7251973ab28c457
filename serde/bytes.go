package serde

// BytesSerializer is a Serializer specialized to byte array destinations.
type BytesSerializer[Src any] interface {
	Serializer[Src, []byte]
}

// BytesDeserializer is a Deserializer specialized to byte array destinations.
type BytesDeserializer[Src any] interface {
	Deserializer[Src, []byte]
}

// Bytes is a Serde specialized to byte array destinations, the format
// persistence implementations consume.
type Bytes[Src any] interface {
	Serde[Src, []byte]
}
