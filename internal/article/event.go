package article

import (
	"time"

	"github.com/google/uuid"

	"github.com/rewindkit/go-rewind/event"
)

var _ event.Event = new(Event)

// Event is the container of all the domain events recorded by an Article.
type Event struct {
	ID   uuid.UUID
	Kind eventKind
}

// Name implements event.Event.
func (evt *Event) Name() string { return evt.Kind.Name() }

type eventKind interface {
	event.Event
	isEventKind()
}

var (
	_ eventKind = new(WasCreated)
	_ eventKind = new(BodyWasEdited)
	_ eventKind = new(WasPublished)
	_ eventKind = new(WasArchived)
)

// WasCreated is the domain event recorded after an Article is created.
type WasCreated struct {
	Title string
	Slug  string
	Body  string
}

// Name implements message.Message.
func (*WasCreated) Name() string { return "ArticleWasCreated" }
func (*WasCreated) isEventKind() {}

// BodyWasEdited is the domain event recorded after the Article body
// is replaced with new content.
type BodyWasEdited struct {
	Body string
}

// Name implements message.Message.
func (*BodyWasEdited) Name() string { return "ArticleBodyWasEdited" }
func (*BodyWasEdited) isEventKind() {}

// WasPublished is the domain event recorded after an Article
// becomes publicly visible.
type WasPublished struct {
	PublishedOn time.Time
}

// Name implements message.Message.
func (*WasPublished) Name() string { return "ArticleWasPublished" }
func (*WasPublished) isEventKind() {}

// WasArchived is the domain event recorded after an Article is removed
// from public visibility.
type WasArchived struct{}

// Name implements message.Message.
func (*WasArchived) Name() string { return "ArticleWasArchived" }
func (*WasArchived) isEventKind() {}
