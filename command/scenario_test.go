package command_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/command"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/internal/article"
	"github.com/rewindkit/go-rewind/version"
)

func TestScenario(t *testing.T) {
	var (
		id    = uuid.New()
		title = "A Primer on Command Handlers"
		slug  = "primer-on-command-handlers"
		body  = "Commands express intent, Domain Events record the outcome."
	)

	makeCreateCommandHandler := func(s event.Store) article.CreateCommandHandler {
		return article.CreateCommandHandler{
			UUIDGenerator:     func() uuid.UUID { return id },
			ArticleRepository: aggregate.NewEventSourcedRepository(s, article.Type),
		}
	}

	t.Run("fails when the given arguments are invalid", func(t *testing.T) {
		command.
			Scenario[article.CreateCommand, article.CreateCommandHandler]().
			When(command.Envelope[article.CreateCommand]{
				Message: article.CreateCommand{
					Title: "",
					Slug:  "",
					Body:  body,
				},
				Metadata: nil,
			}).
			ThenErrors(
				article.ErrInvalidTitle,
				article.ErrInvalidSlug,
			).
			AssertOn(t, makeCreateCommandHandler)
	})

	t.Run("create new article", func(t *testing.T) {
		command.
			Scenario[article.CreateCommand, article.CreateCommandHandler]().
			When(command.Envelope[article.CreateCommand]{
				Message: article.CreateCommand{
					Title: title,
					Slug:  slug,
					Body:  body,
				},
				Metadata: nil,
			}).
			Then(event.Persisted{
				StreamID: event.StreamID(id.String()),
				Version:  1,
				Envelope: event.ToEnvelope(&article.Event{
					ID: id,
					Kind: &article.WasCreated{
						Title: title,
						Slug:  slug,
						Body:  body,
					},
				}),
			}).
			AssertOn(t, makeCreateCommandHandler)
	})

	t.Run("cannot create two articles with the same id", func(t *testing.T) {
		command.
			Scenario[article.CreateCommand, article.CreateCommandHandler]().
			Given(event.Persisted{
				StreamID: event.StreamID(id.String()),
				Version:  1,
				Envelope: event.ToEnvelope(&article.Event{
					ID: id,
					Kind: &article.WasCreated{
						Title: title,
						Slug:  slug,
						Body:  body,
					},
				}),
			}).
			When(command.Envelope[article.CreateCommand]{
				Message: article.CreateCommand{
					Title: title,
					Slug:  slug,
					Body:  body,
				},
				Metadata: nil,
			}).
			ThenError(version.ConflictError{
				Expected: 0,
				Actual:   1,
			}).
			AssertOn(t, makeCreateCommandHandler)
	})

	t.Run("publish an existing article", func(t *testing.T) {
		publishedOn := time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC)

		makePublishCommandHandler := func(s event.Store) article.PublishCommandHandler {
			return article.PublishCommandHandler{
				Clock:             func() time.Time { return publishedOn.Add(9 * time.Hour) },
				ArticleRepository: aggregate.NewEventSourcedRepository(s, article.Type),
			}
		}

		command.
			Scenario[article.PublishCommand, article.PublishCommandHandler]().
			Given(event.Persisted{
				StreamID: event.StreamID(id.String()),
				Version:  1,
				Envelope: event.ToEnvelope(&article.Event{
					ID: id,
					Kind: &article.WasCreated{
						Title: title,
						Slug:  slug,
						Body:  body,
					},
				}),
			}).
			When(command.Envelope[article.PublishCommand]{
				Message:  article.PublishCommand{ArticleID: id},
				Metadata: nil,
			}).
			Then(event.Persisted{
				StreamID: event.StreamID(id.String()),
				Version:  2,
				Envelope: event.ToEnvelope(&article.Event{
					ID:   id,
					Kind: &article.WasPublished{PublishedOn: publishedOn},
				}),
			}).
			AssertOn(t, makePublishCommandHandler)
	})

	t.Run("publishing a missing article fails", func(t *testing.T) {
		makePublishCommandHandler := func(s event.Store) article.PublishCommandHandler {
			return article.PublishCommandHandler{
				Clock:             time.Now,
				ArticleRepository: aggregate.NewEventSourcedRepository(s, article.Type),
			}
		}

		command.
			Scenario[article.PublishCommand, article.PublishCommandHandler]().
			When(command.Envelope[article.PublishCommand]{
				Message:  article.PublishCommand{ArticleID: id},
				Metadata: nil,
			}).
			ThenError(aggregate.ErrRootNotFound).
			AssertOn(t, makePublishCommandHandler)
	})
}
