package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rewindkit/go-rewind/event"
	"github.com/rewindkit/go-rewind/version"
)

// Scenario starts the definition of an Aggregate Root test case, a BDD-style
// description of the effects of calling a Domain method on an Aggregate Root.
//
// Use Given to set the Event Stream history the Aggregate Root is rehydrated
// from, or When directly for cases creating a new Aggregate Root instance.
func Scenario[I ID, T Root[I]](typ Type[I, T]) ScenarioInit[I, T] {
	return ScenarioInit[I, T]{typ: typ}
}

// ScenarioInit is the entrypoint state of an Aggregate Root scenario.
type ScenarioInit[I ID, T Root[I]] struct {
	typ Type[I, T]
}

// Given sets the Domain Events the Aggregate Root under test is rehydrated
// from before the Domain method is called.
func (sc ScenarioInit[I, T]) Given(events ...event.Persisted) ScenarioGiven[I, T] {
	return ScenarioGiven[I, T]{
		typ:   sc.typ,
		given: events,
	}
}

// When provides the closure exercising the Domain function under test.
// Used for functions that create a new Aggregate Root instance, hence
// the lack of input parameters on the closure.
func (sc ScenarioInit[I, T]) When(fn func() (T, error)) ScenarioWhen[I, T] {
	return ScenarioWhen[I, T]{fn: fn}
}

// ScenarioGiven is the scenario state carrying the Event Stream history
// set through Given.
type ScenarioGiven[I ID, T Root[I]] struct {
	typ   Type[I, T]
	given []event.Persisted
}

// When provides the closure exercising the Domain method under test, called
// on the Aggregate Root rehydrated from the Given history.
func (sc ScenarioGiven[I, T]) When(fn func(T) error) ScenarioWhen[I, T] {
	return ScenarioWhen[I, T]{
		fn: func() (T, error) {
			var zeroValue T

			root := sc.typ.Factory()
			if err := RehydrateFromEvents[I](root, event.SliceToStream(sc.given)); err != nil {
				return zeroValue, err
			}

			if err := fn(root); err != nil {
				return zeroValue, err
			}

			return root, nil
		},
	}
}

// ScenarioWhen is the scenario state carrying the Domain method under test,
// ready for the expected outcome to be set through Then, ThenFails,
// ThenError or ThenErrors.
type ScenarioWhen[I ID, T Root[I]] struct {
	fn func() (T, error)
}

// Then expects the Domain method to succeed, recording the given Domain
// Events and leaving the Aggregate Root at version v.
func (sc ScenarioWhen[I, T]) Then(v version.Version, events ...event.Envelope) ScenarioThen[I, T] {
	return ScenarioThen[I, T]{
		fn:          sc.fn,
		wantVersion: v,
		wantEvents:  events,
		wantErrors:  nil,
		wantFail:    false,
	}
}

// ThenFails expects the Domain method to fail, without inspecting
// the returned error.
func (sc ScenarioWhen[I, T]) ThenFails() ScenarioThen[I, T] {
	return ScenarioThen[I, T]{
		fn:          sc.fn,
		wantVersion: 0,
		wantEvents:  nil,
		wantErrors:  nil,
		wantFail:    true,
	}
}

// ThenError expects the Domain method to fail with an error matching
// the given one, through errors.Is semantics.
func (sc ScenarioWhen[I, T]) ThenError(err error) ScenarioThen[I, T] {
	return ScenarioThen[I, T]{
		fn:          sc.fn,
		wantVersion: 0,
		wantEvents:  nil,
		wantErrors:  []error{err},
		wantFail:    true,
	}
}

// ThenErrors expects the Domain method to fail with an error matching all
// the given ones, typically an error combined through errors.Join.
func (sc ScenarioWhen[I, T]) ThenErrors(errs ...error) ScenarioThen[I, T] {
	return ScenarioThen[I, T]{
		fn:          sc.fn,
		wantVersion: 0,
		wantEvents:  nil,
		wantErrors:  errs,
		wantFail:    true,
	}
}

// ScenarioThen is the fully specified scenario, ready to be run
// through AssertOn.
type ScenarioThen[I ID, T Root[I]] struct {
	fn func() (T, error)

	wantVersion version.Version
	wantEvents  []event.Envelope
	wantErrors  []error
	wantFail    bool
}

// AssertOn runs the scenario against the provided testing.T instance.
func (sc ScenarioThen[I, T]) AssertOn(t *testing.T) {
	root, err := sc.fn()

	if sc.wantFail {
		assert.Error(t, err)

		for _, wantErr := range sc.wantErrors {
			assert.ErrorIs(t, err, wantErr)
		}

		return
	}

	assert.NoError(t, err)
	assert.Equal(t, sc.wantEvents, root.FlushRecordedEvents())
	assert.Equal(t, sc.wantVersion, root.Version())
}
