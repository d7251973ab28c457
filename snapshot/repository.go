package snapshot

import (
	"context"
	"errors"

	"github.com/rewindkit/go-rewind/aggregate"
	"github.com/rewindkit/go-rewind/logger"
)

// Repository decorates an aggregate.Repository with snapshot support.
//
// Loads go through the snapshot path first, falling back to the inner
// repository only when no Snapshot has been recorded for the Aggregate yet.
// Saves flow through the inner repository first, then record a new Snapshot
// when the Policy advises so.
//
// Snapshot retention is not handled here: deciding when to prune old entries
// remains an explicit, caller-driven operation (see Pruner).
type Repository[I aggregate.ID, T aggregate.Root[I]] struct {
	// Inner is the decorated repository, typically
	// an aggregate.EventSourcedRepository.
	Inner aggregate.Repository[I, T]

	// Manager coordinates snapshot creation and loading.
	Manager *Manager[I, T]

	// Logger reports snapshot failures happening during Save calls.
	// Optional.
	Logger logger.Logger
}

// Get returns the Aggregate Root with the specified id, reconstructed from
// its latest Snapshot plus the Domain Events recorded past it.
//
// The inner repository is consulted only when no Snapshot has been recorded
// for the Aggregate yet. Any other snapshot failure is returned as is, so
// that corrupted entries surface instead of silently turning into
// full replays.
func (repo Repository[I, T]) Get(ctx context.Context, id I) (T, error) {
	var zeroValue T

	root, err := repo.Manager.Load(ctx, id)
	if err == nil {
		return root, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return zeroValue, err
	}

	logger.Debug(repo.Logger, "no snapshot recorded, loading through the inner repository",
		logger.With("aggregate_id", id.String()),
	)

	return repo.Inner.Get(ctx, id)
}

// Save stores the Aggregate Root through the inner repository, then records
// a new Snapshot when the Policy advises so for the new Root version.
//
// Snapshot failures are reported to the Logger and never fail the save:
// snapshots are an optimization, the Event Stream remains the source
// of truth.
func (repo Repository[I, T]) Save(ctx context.Context, root T) error {
	if err := repo.Inner.Save(ctx, root); err != nil {
		return err
	}

	if !repo.Manager.ShouldTakeSnapshot(root) {
		return nil
	}

	if _, err := repo.Manager.CreateSnapshot(ctx, root.AggregateID()); err != nil {
		logger.Error(repo.Logger, "failed to record snapshot after save",
			logger.With("aggregate_id", root.AggregateID().String()),
			logger.With("error", err.Error()),
		)
	}

	return nil
}
