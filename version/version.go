// Package version holds the Event Stream versioning primitives: the Version
// type itself, stream slice Selectors, and the optimistic concurrency
// Checks used on append.
package version

// Version numbers the Domain Events committed to a single Event Stream.
//
// The first committed event carries version 1, so the latest version
// doubles as the length of the stream.
type Version uint32

// SelectFromBeginning selects an Event Stream in its entirety.
var SelectFromBeginning = Selector{From: 0}

// Selector picks the tail of an Event Stream, for use when streaming
// Domain Events out of the Event Store.
//
// From is inclusive: the Domain Event recorded at that version, if any,
// is part of the returned stream.
type Selector struct {
	From Version
}
