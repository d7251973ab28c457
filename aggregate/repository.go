package aggregate

import (
	"context"
	"errors"
)

// ErrRootNotFound is returned by Repository implementations when no
// Aggregate Root exists with the requested id.
var ErrRootNotFound = errors.New("aggregate: root not found")

// Getter is the read half of an Aggregate Repository, loading Aggregate
// Roots from whatever storage backs the implementation.
type Getter[I ID, T Root[I]] interface {
	Get(ctx context.Context, id I) (T, error)
}

// Saver is the write half of an Aggregate Repository, persisting
// Aggregate Roots to whatever storage backs the implementation.
type Saver[I ID, T Root[I]] interface {
	Save(ctx context.Context, root T) error
}

// Repository loads and persists Aggregate Roots of a single Aggregate type.
type Repository[I ID, T Root[I]] interface {
	Getter[I, T]
	Saver[I, T]
}

// FusedRepository combines separate Getter and Saver implementations
// into a single Repository.
type FusedRepository[I ID, T Root[I]] struct {
	Getter[I, T]
	Saver[I, T]
}
