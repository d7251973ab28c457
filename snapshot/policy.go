package snapshot

import (
	"fmt"

	"github.com/rewindkit/go-rewind/version"
)

// Policy advises on when a new Snapshot of an Aggregate Root
// should be recorded.
//
// ShouldRecord is a pure function of the version provided: the advice is
// computed from the version alone, with no internal state involved, so the
// same version always yields the same advice.
type Policy interface {
	ShouldRecord(v version.Version) bool
}

// NeverPolicy is a Policy that never advises to record Snapshots.
//
// Useful to disable snapshotting without changing the component wiring.
type NeverPolicy struct{}

// ShouldRecord always returns false.
func (NeverPolicy) ShouldRecord(version.Version) bool { return false }

// AlwaysPolicy is a Policy advising to record a Snapshot after every
// Domain Event. Mostly useful in tests.
type AlwaysPolicy struct{}

// ShouldRecord returns true for every version greater than zero.
func (AlwaysPolicy) ShouldRecord(v version.Version) bool { return v > 0 }

// EveryNEventsPolicy is a Policy advising to record a Snapshot every n
// Domain Events recorded on the Aggregate Root.
//
// With n set to 100, the policy advises to record at versions 100, 200, 300
// and so on. Version zero never triggers the policy: an Aggregate Root with
// no recorded Domain Events has no state worth capturing.
type EveryNEventsPolicy struct {
	n version.Version
}

// NewEveryNEventsPolicy creates an EveryNEventsPolicy with the given
// threshold. An error is returned when the threshold is zero.
func NewEveryNEventsPolicy(n version.Version) (EveryNEventsPolicy, error) {
	if n == 0 {
		return EveryNEventsPolicy{}, fmt.Errorf("snapshot.NewEveryNEventsPolicy: threshold must be at least 1")
	}

	return EveryNEventsPolicy{n: n}, nil
}

// ShouldRecord returns true when the version is a positive multiple
// of the configured threshold.
func (p EveryNEventsPolicy) ShouldRecord(v version.Version) bool {
	return v > 0 && v%p.n == 0
}
