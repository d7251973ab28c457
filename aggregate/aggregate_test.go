package aggregate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
)

func TestRoot(t *testing.T) {
	var (
		id    = uuid.New()
		title = "The Craft of Event Sourcing"
		slug  = "craft-of-event-sourcing"
		body  = "Events are facts, state is a projection of them."
	)

	t.Run("create new aggregate root", func(t *testing.T) {
		art, err := article.Create(id, title, slug, body)
		assert.NoError(t, err)

		expectedEvents := event.ToEnvelopes(&article.Event{
			ID: id,
			Kind: &article.WasCreated{
				Title: title,
				Slug:  slug,
				Body:  body,
			},
		})

		assert.Equal(t, expectedEvents, art.FlushRecordedEvents())
	})

	t.Run("create new aggregate root with invalid fields", func(t *testing.T) {
		art, err := article.Create(id, "", "", body)
		assert.Error(t, err)
		assert.Nil(t, art)

		assert.ErrorIs(t, err, article.ErrInvalidTitle)
		assert.ErrorIs(t, err, article.ErrInvalidSlug)
	})

	t.Run("update an existing aggregate root", func(t *testing.T) {
		art, err := article.Create(id, title, slug, body)
		require.NoError(t, err)
		art.FlushRecordedEvents() // NOTE: flushing previously-recorded events to simulate fetching from a repository.

		newBody := "Events are immutable facts, state is merely a projection of them."

		err = art.EditBody(newBody, nil)
		assert.NoError(t, err)

		expectedEvents := event.ToEnvelopes(&article.Event{
			ID:   id,
			Kind: &article.BodyWasEdited{Body: newBody},
		})

		assert.Equal(t, expectedEvents, art.FlushRecordedEvents())
	})

	t.Run("archived aggregate roots reject further updates", func(t *testing.T) {
		art, err := article.Create(id, title, slug, body)
		require.NoError(t, err)
		require.NoError(t, art.Archive())
		art.FlushRecordedEvents()

		assert.ErrorIs(t, art.EditBody("too late", nil), article.ErrAlreadyArchived)
		assert.Empty(t, art.FlushRecordedEvents())
	})
}
