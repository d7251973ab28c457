package aggregate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
)

func TestFusedRepository(t *testing.T) {
	ctx := context.Background()
	eventStore := event.NewInMemoryStore()
	eventSourcedRepository := aggregate.NewEventSourcedRepository(eventStore, article.Type)

	repository := aggregate.FusedRepository[uuid.UUID, *article.Article]{
		Getter: eventSourcedRepository,
		Saver:  eventSourcedRepository,
	}

	id := uuid.New()

	art, err := article.Create(id, "Fused Repositories", "fused-repositories", "Compose read and write sides independently.")
	require.NoError(t, err)
	require.NoError(t, repository.Save(ctx, art))

	got, err := repository.Get(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, art, got)
}
