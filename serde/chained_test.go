package serde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewindkit/go-rewind/serde"
)

func TestChained(t *testing.T) {
	mySerde := serde.Chain[contentData, *contentJSONData, []byte](
		contentDataSerde,
		serde.NewJSON(func() *contentJSONData { return new(contentJSONData) }),
	)

	data := contentData{
		Visibility: visibilityPublished,
		Revision:   3,
		Slug:       "hello-world",
	}

	expected := []byte(`{"visibility":"PUBLISHED","revision":3,"slug":"hello-world"}`)

	bytes, err := mySerde.Serialize(data)
	assert.NoError(t, err)
	assert.Equal(t, expected, bytes)

	deserialized, err := mySerde.Deserialize(bytes)
	assert.NoError(t, err)
	assert.Equal(t, data, deserialized)
}
