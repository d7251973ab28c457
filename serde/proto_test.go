package serde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/protobuf/proto"

	"github.com/rewindkit/go-rewind/serde"
)

func TestProto(t *testing.T) {
	protoSerde := serde.NewProto(func() *date.Date { return new(date.Date) })

	publishedOn := &date.Date{Year: 2024, Month: 7, Day: 16}

	data, err := protoSerde.Serialize(publishedOn)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	deserialized, err := protoSerde.Deserialize(data)
	require.NoError(t, err)
	assert.True(t, proto.Equal(publishedOn, deserialized))
}

func TestProtoJSON(t *testing.T) {
	protoJSONSerde := serde.NewProtoJSON(func() *date.Date { return new(date.Date) })

	publishedOn := &date.Date{Year: 2024, Month: 7, Day: 16}

	data, err := protoJSONSerde.Serialize(publishedOn)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2024,"month":7,"day":16}`, string(data))

	deserialized, err := protoJSONSerde.Deserialize(data)
	require.NoError(t, err)
	assert.True(t, proto.Equal(publishedOn, deserialized))

	t.Run("it fails deserialization of invalid data", func(t *testing.T) {
		_, err := protoJSONSerde.Deserialize([]byte(`{"year":"twenty"}`))
		assert.Error(t, err)
	})
}
