package version

import "fmt"

// Any is the Check value that skips optimistic concurrency verification
// on append.
var Any = CheckAny{}

// Check expresses the optimistic concurrency expectation attached to an
// Event Store append, performed through the event.Appender interface.
//
// CheckAny and CheckExact are the two available variants.
type Check interface {
	isVersionCheck()
}

// CheckAny accepts whatever version the Event Stream finds itself at.
type CheckAny struct{}

func (CheckAny) isVersionCheck() {}

// CheckExact requires the Event Stream to sit exactly at the given version
// for the append to go through.
type CheckExact Version

func (CheckExact) isVersionCheck() {}

// ConflictError is reported by Event Stores when a CheckExact expectation
// does not match the actual version of the Event Stream.
type ConflictError struct {
	Expected Version
	Actual   Version
}

func (err ConflictError) Error() string {
	return fmt.Sprintf(
		"version.Check: conflict detected; expected stream version: %d, actual: %d",
		err.Expected,
		err.Actual,
	)
}
