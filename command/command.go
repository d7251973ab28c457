// Package command contains the Command and Command Handler abstractions,
// the write-side entrypoints through which Aggregates get created
// and mutated.
package command

import (
	"context"

	"github.com/rewindkit/go-rewind/message"
)

// Command is a specific kind of Message that represents an intent
// to mutate the state of the system.
//
// In order to enforce this concept, it is suggested to name Command types
// using imperative, present-tense verbs.
type Command message.Message

// Envelope carries both the Command and some optional Metadata attached to it.
type Envelope[T Command] message.Envelope[T]

// ToEnvelope is a convenience function that wraps the provided Command type
// into an Envelope, with no Metadata attached.
func ToEnvelope[T Command](cmd T) Envelope[T] {
	return Envelope[T]{
		Message:  cmd,
		Metadata: nil,
	}
}

// Handler is the interface that defines a Command Handler, a component
// that receives a specific kind of Command and executes the business logic
// related to that particular Command.
type Handler[T Command] interface {
	Handle(ctx context.Context, cmd Envelope[T]) error
}

// HandlerFunc is a functional type that implements the Handler interface.
// Useful for stateless Handlers and for testing.
type HandlerFunc[T Command] func(ctx context.Context, cmd Envelope[T]) error

// Handle implements command.Handler.
func (fn HandlerFunc[T]) Handle(ctx context.Context, cmd Envelope[T]) error {
	return fn(ctx, cmd)
}
