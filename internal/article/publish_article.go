package article

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/command"
)

//nolint:exhaustruct // Interface implementation assertion.
var (
	_ command.Command                 = PublishCommand{}
	_ command.Handler[PublishCommand] = PublishCommandHandler{}
)

// PublishCommand is a domain command that makes an existing Article
// publicly visible.
type PublishCommand struct {
	ArticleID uuid.UUID
}

// Name implements command.Command.
func (PublishCommand) Name() string { return "PublishArticle" }

// PublishCommandHandler is the command handler for PublishCommand domain commands.
type PublishCommandHandler struct {
	Clock             func() time.Time
	ArticleRepository aggregate.Repository[uuid.UUID, *Article]
}

// Handle implements command.Handler.
func (h PublishCommandHandler) Handle(ctx context.Context, cmd command.Envelope[PublishCommand]) error {
	article, err := h.ArticleRepository.Get(ctx, cmd.Message.ArticleID)
	if err != nil {
		return fmt.Errorf("article.PublishCommandHandler: failed to get Article from repository, %w", err)
	}

	if err := article.Publish(h.Clock()); err != nil {
		return fmt.Errorf("article.PublishCommandHandler: failed to publish Article, %w", err)
	}

	if err := h.ArticleRepository.Save(ctx, article); err != nil {
		return fmt.Errorf("article.PublishCommandHandler: failed to save Article to repository, %w", err)
	}

	return nil
}
