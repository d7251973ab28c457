package article

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/command"
)

//nolint:exhaustruct // Interface implementation assertion.
var (
	_ command.Command                = CreateCommand{}
	_ command.Handler[CreateCommand] = CreateCommandHandler{}
)

// CreateCommand is a domain command that can be used to create a new Article.
type CreateCommand struct {
	Title string
	Slug  string
	Body  string
}

// Name implements command.Command.
func (CreateCommand) Name() string { return "CreateArticle" }

// CreateCommandHandler is the command handler for CreateCommand domain commands.
type CreateCommandHandler struct {
	UUIDGenerator     func() uuid.UUID
	ArticleRepository aggregate.Saver[uuid.UUID, *Article]
}

// Handle implements command.Handler.
func (h CreateCommandHandler) Handle(ctx context.Context, cmd command.Envelope[CreateCommand]) error {
	newArticleID := h.UUIDGenerator()

	article, err := Create(newArticleID, cmd.Message.Title, cmd.Message.Slug, cmd.Message.Body)
	if err != nil {
		return fmt.Errorf("article.CreateCommandHandler: failed to create new Article, %w", err)
	}

	if err := h.ArticleRepository.Save(ctx, article); err != nil {
		return fmt.Errorf("article.CreateCommandHandler: failed to save new Article to repository, %w", err)
	}

	return nil
}
