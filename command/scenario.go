package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/version"
)

// Scenario starts the definition of a Command Handler test case, a BDD-style
// description of the Domain Events a Command evaluation records.
//
// Use Given to seed the Event Store consulted by the Command Handler, or
// When directly for Commands evaluated against an empty system.
func Scenario[Cmd Command, T Handler[Cmd]]() ScenarioInit[Cmd, T] {
	return ScenarioInit[Cmd, T]{}
}

// ScenarioInit is the entrypoint state of a Command Handler scenario.
type ScenarioInit[Cmd Command, T Handler[Cmd]] struct{}

// Given seeds the Event Store with the Domain Events recorded before
// the Command under test is evaluated.
func (sc ScenarioInit[Cmd, T]) Given(events ...event.Persisted) ScenarioGiven[Cmd, T] {
	return ScenarioGiven[Cmd, T]{given: events}
}

// When provides the Command to evaluate.
func (sc ScenarioInit[Cmd, T]) When(cmd Envelope[Cmd]) ScenarioWhen[Cmd, T] {
	return ScenarioWhen[Cmd, T]{
		ScenarioGiven: ScenarioGiven[Cmd, T]{given: nil},
		when:          cmd,
	}
}

// ScenarioGiven is the scenario state carrying the Event Store history
// set through Given.
type ScenarioGiven[Cmd Command, T Handler[Cmd]] struct {
	given []event.Persisted
}

// When provides the Command to evaluate.
func (sc ScenarioGiven[Cmd, T]) When(cmd Envelope[Cmd]) ScenarioWhen[Cmd, T] {
	return ScenarioWhen[Cmd, T]{
		ScenarioGiven: sc,
		when:          cmd,
	}
}

// ScenarioWhen is the scenario state carrying the Command to evaluate,
// ready for the expected outcome to be set through Then, ThenFails,
// ThenError or ThenErrors.
type ScenarioWhen[Cmd Command, T Handler[Cmd]] struct {
	ScenarioGiven[Cmd, T]

	when Envelope[Cmd]
}

// Then expects the Command evaluation to succeed, committing the given
// Domain Events to the Event Store, in order.
func (sc ScenarioWhen[Cmd, T]) Then(events ...event.Persisted) ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		wantEvents:   events,
		wantErrors:   nil,
		wantFail:     false,
	}
}

// ThenError expects the Command evaluation to fail with an error matching
// the given one, through errors.Is semantics.
func (sc ScenarioWhen[Cmd, T]) ThenError(err error) ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		wantEvents:   nil,
		wantErrors:   []error{err},
		wantFail:     true,
	}
}

// ThenErrors expects the Command evaluation to fail with an error matching
// all the given ones.
//
// Useful for Command Handlers that report all the invalid fields of
// a Command at once through errors.Join.
func (sc ScenarioWhen[Cmd, T]) ThenErrors(errs ...error) ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		wantEvents:   nil,
		wantErrors:   errs,
		wantFail:     true,
	}
}

// ThenFails expects the Command evaluation to fail, without inspecting
// the returned error.
func (sc ScenarioWhen[Cmd, T]) ThenFails() ScenarioThen[Cmd, T] {
	return ScenarioThen[Cmd, T]{
		ScenarioWhen: sc,
		wantEvents:   nil,
		wantErrors:   nil,
		wantFail:     true,
	}
}

// ScenarioThen is the fully specified scenario, ready to be run
// through AssertOn.
type ScenarioThen[Cmd Command, T Handler[Cmd]] struct {
	ScenarioWhen[Cmd, T]

	wantEvents []event.Persisted
	wantErrors []error
	wantFail   bool
}

// AssertOn runs the scenario: the factory receives an Event Store seeded
// with the Given history and builds the Command Handler under test, the
// Command gets evaluated, and the recorded Domain Events or the returned
// error are matched against the expectations.
func (sc ScenarioThen[Cmd, T]) AssertOn( //nolint:gocritic
	t *testing.T,
	handlerFactory func(event.Store) T,
) {
	ctx := context.Background()
	store := event.NewInMemoryStore()

	for _, evt := range sc.given {
		_, err := store.Append(ctx, evt.StreamID, version.Any, evt.Envelope)
		if !assert.NoError(t, err) {
			return
		}
	}

	trackingStore := event.NewTrackingEventStore(store)
	handler := handlerFactory(event.FusedStore{
		Appender: trackingStore,
		Streamer: store,
	})

	err := handler.Handle(ctx, sc.when)

	if sc.wantFail {
		if !assert.Error(t, err) {
			return
		}

		for _, wantErr := range sc.wantErrors {
			assert.ErrorIs(t, err, wantErr)
		}

		return
	}

	assert.NoError(t, err)
	assert.Equal(t, sc.wantEvents, trackingStore.Recorded())
}
