// Package article serves as a small domain example of how to model
// an Aggregate using go-rewind: a content page of a publishing system.
//
// This package is used for integration tests in the parent module.
package article

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/message"
)

// Status is the publication status of an Article.
type Status string

// All the publication statuses an Article can find itself in.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Type is the Article aggregate type.
var Type = aggregate.Type[uuid.UUID, *Article]{
	Name:    "Article",
	Factory: func() *Article { return new(Article) },
}

// Article is a naive content page implementation, modeled as an Aggregate
// using go-rewind's API.
type Article struct {
	aggregate.BaseRoot

	// Aggregate fields should remain unexported if possible,
	// to enforce encapsulation.

	id          uuid.UUID
	title       string
	slug        string
	body        string
	status      Status
	publishedOn time.Time
}

// Apply implements aggregate.Aggregate.
func (article *Article) Apply(evt event.Event) error {
	articleEvent, ok := evt.(*Event)
	if !ok {
		return fmt.Errorf("article.Apply: unexpected event type, %T", evt)
	}

	switch kind := articleEvent.Kind.(type) {
	case *WasCreated:
		article.id = articleEvent.ID
		article.title = kind.Title
		article.slug = kind.Slug
		article.body = kind.Body
		article.status = StatusDraft
	case *BodyWasEdited:
		article.body = kind.Body
	case *WasPublished:
		article.status = StatusPublished
		article.publishedOn = kind.PublishedOn
	case *WasArchived:
		article.status = StatusArchived
	default:
		return fmt.Errorf("article.Apply: unexpected event kind type, %T", kind)
	}

	return nil
}

// AggregateID implements aggregate.Root.
func (article *Article) AggregateID() uuid.UUID {
	return article.id
}

// Status returns the current publication status of the Article.
func (article *Article) Status() Status { return article.status }

// Title returns the current title of the Article.
func (article *Article) Title() string { return article.title }

// Body returns the current body of the Article.
func (article *Article) Body() string { return article.body }

// All the errors returned by Article methods.
var (
	ErrInvalidID       = errors.New("article: invalid id, is nil")
	ErrInvalidTitle    = errors.New("article: invalid title, is empty")
	ErrInvalidSlug     = errors.New("article: invalid slug, is empty")
	ErrAlreadyArchived = errors.New("article: already archived")
)

// Create creates a new Article in draft status using the provided input.
//
// All the invalid fields are reported at once through a joined error value.
func Create(id uuid.UUID, title, slug, body string) (*Article, error) {
	var errs error

	if id == uuid.Nil {
		errs = errors.Join(errs, ErrInvalidID)
	}

	if title == "" {
		errs = errors.Join(errs, ErrInvalidTitle)
	}

	if slug == "" {
		errs = errors.Join(errs, ErrInvalidSlug)
	}

	if errs != nil {
		return nil, errs
	}

	article := new(Article)

	if err := aggregate.RecordThat(article, event.ToEnvelope(&Event{
		ID: id,
		Kind: &WasCreated{
			Title: title,
			Slug:  slug,
			Body:  body,
		},
	})); err != nil {
		return nil, fmt.Errorf("article.Create: failed to record domain event, %w", err)
	}

	return article, nil
}

// EditBody replaces the Article body with the specified content.
func (article *Article) EditBody(body string, metadata message.Metadata) error {
	if article.status == StatusArchived {
		return ErrAlreadyArchived
	}

	if err := aggregate.RecordThat(article, event.Envelope{
		Metadata: metadata,
		Message: &Event{
			ID:   article.id,
			Kind: &BodyWasEdited{Body: body},
		},
	}); err != nil {
		return fmt.Errorf("article.EditBody: failed to record domain event, %w", err)
	}

	return nil
}

// Publish makes the Article publicly visible, recording the calendar date
// (in UTC) on which the publication happened.
//
// Publishing an Article that is already published is a no-op.
func (article *Article) Publish(on time.Time) error {
	if article.status == StatusArchived {
		return ErrAlreadyArchived
	}

	if article.status == StatusPublished {
		return nil
	}

	if err := aggregate.RecordThat(article, event.ToEnvelope(&Event{
		ID:   article.id,
		Kind: &WasPublished{PublishedOn: on.UTC().Truncate(24 * time.Hour)},
	})); err != nil {
		return fmt.Errorf("article.Publish: failed to record domain event, %w", err)
	}

	return nil
}

// Archive removes the Article from public visibility. Archived Articles
// cannot be edited or published again.
func (article *Article) Archive() error {
	if article.status == StatusArchived {
		return ErrAlreadyArchived
	}

	if err := aggregate.RecordThat(article, event.ToEnvelope(&Event{
		ID:   article.id,
		Kind: &WasArchived{},
	})); err != nil {
		return fmt.Errorf("article.Archive: failed to record domain event, %w", err)
	}

	return nil
}
