package article

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/type/date"

	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/serde"
)

func timeToDate(t time.Time) *date.Date {
	if t.IsZero() {
		return nil
	}

	return &date.Date{
		Year:  int32(t.Year()),
		Month: int32(t.Month()),
		Day:   int32(t.Day()),
	}
}

func dateToTime(d *date.Date) time.Time {
	if d == nil {
		return time.Time{}
	}

	return time.Date(
		int(d.Year), time.Month(d.Month), int(d.Day),
		0, 0, 0, 0, time.UTC,
	)
}

type jsonArticle struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Status      Status     `json:"status"`
	PublishedOn *date.Date `json:"published_on,omitempty"`
}

// StateSerde is the serde.Bytes implementation for an Article, mapping it
// to and from its JSON representation. Suggested for snapshot states.
var StateSerde serde.Bytes[*Article] = serde.Chain[*Article, *jsonArticle, []byte](
	serde.Fuse[*Article, *jsonArticle](
		serde.AsSerializerFunc(serializeArticle),
		serde.AsDeserializerFunc(deserializeArticle),
	),
	serde.NewJSON(func() *jsonArticle { return new(jsonArticle) }),
)

func serializeArticle(article *Article) (*jsonArticle, error) {
	return &jsonArticle{
		ID:          article.id.String(),
		Title:       article.title,
		Slug:        article.slug,
		Body:        article.body,
		Status:      article.status,
		PublishedOn: timeToDate(article.publishedOn),
	}, nil
}

func deserializeArticle(src *jsonArticle) (*Article, error) {
	id, err := uuid.Parse(src.ID)
	if err != nil {
		return nil, fmt.Errorf("article.deserializeArticle: failed to deserialize article id, %w", err)
	}

	article := &Article{ //nolint:exhaustruct // Version is restored by go-rewind.
		id:          id,
		title:       src.Title,
		slug:        src.Slug,
		body:        src.Body,
		status:      src.Status,
		publishedOn: dateToTime(src.PublishedOn),
	}

	return article, nil
}

type jsonEvent struct {
	Kind        string     `json:"kind"`
	ArticleID   string     `json:"article_id"`
	Title       string     `json:"title,omitempty"`
	Slug        string     `json:"slug,omitempty"`
	Body        string     `json:"body,omitempty"`
	PublishedOn *date.Date `json:"published_on,omitempty"`
}

// EventSerde is the serde.Bytes implementation for Article domain events,
// mapping them to and from their JSON representation. Suggested for
// Event Store implementations that persist events as raw bytes.
var EventSerde serde.Bytes[message.Message] = serde.Fuse[message.Message, []byte](
	serde.AsSerializerFunc(serializeEvent),
	serde.AsDeserializerFunc(deserializeEvent),
)

func serializeEvent(msg message.Message) ([]byte, error) {
	evt, ok := msg.(*Event)
	if !ok {
		return nil, fmt.Errorf("article.serializeEvent: unexpected message type, %T", msg)
	}

	model := jsonEvent{ //nolint:exhaustruct // Kind fields are set below.
		Kind:      evt.Name(),
		ArticleID: evt.ID.String(),
	}

	switch kind := evt.Kind.(type) {
	case *WasCreated:
		model.Title = kind.Title
		model.Slug = kind.Slug
		model.Body = kind.Body
	case *BodyWasEdited:
		model.Body = kind.Body
	case *WasPublished:
		model.PublishedOn = timeToDate(kind.PublishedOn)
	case *WasArchived:
		// No additional fields to capture.
	default:
		return nil, fmt.Errorf("article.serializeEvent: unexpected event kind type, %T", kind)
	}

	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("article.serializeEvent: failed to serialize event, %w", err)
	}

	return data, nil
}

func deserializeEvent(data []byte) (message.Message, error) {
	var model jsonEvent
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("article.deserializeEvent: failed to deserialize event, %w", err)
	}

	id, err := uuid.Parse(model.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("article.deserializeEvent: failed to deserialize article id, %w", err)
	}

	evt := &Event{ //nolint:exhaustruct // Kind is set below.
		ID: id,
	}

	switch model.Kind {
	case "ArticleWasCreated":
		evt.Kind = &WasCreated{
			Title: model.Title,
			Slug:  model.Slug,
			Body:  model.Body,
		}
	case "ArticleBodyWasEdited":
		evt.Kind = &BodyWasEdited{Body: model.Body}
	case "ArticleWasPublished":
		evt.Kind = &WasPublished{PublishedOn: dateToTime(model.PublishedOn)}
	case "ArticleWasArchived":
		evt.Kind = &WasArchived{}
	default:
		return nil, fmt.Errorf("article.deserializeEvent: unexpected event kind, %s", model.Kind)
	}

	return evt, nil
}
