package internal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is the subset of the pgx connection API needed to open
// a transaction. Implemented by pgxpool.Pool and pgx.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, options pgx.TxOptions) (pgx.Tx, error)
}

// RunTransaction wraps a data change path in a transaction, committing it
// when the provided closure returns no error, and rolling it back otherwise.
func RunTransaction(
	ctx context.Context,
	db TxBeginner,
	options pgx.TxOptions, //nolint:gocritic // pgx uses value semantics for options.
	do func(ctx context.Context, tx pgx.Tx) error,
) error {
	tx, err := db.BeginTx(ctx, options)
	if err != nil {
		return fmt.Errorf("failed to begin transaction, %w", err)
	}

	// Rolling back after a successful commit is a no-op.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := do(ctx, tx); err != nil {
		return fmt.Errorf("failed to perform transaction, %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction, %w", err)
	}

	return nil
}
