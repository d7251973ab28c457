package postgres

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	// Postgres driver for the migrate engine.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// migrationsTableName is where the migrate engine tracks the applied
// migrations. A dedicated table avoids clashing with other go-migrate
// users running against the same database.
const migrationsTableName = "rewind_schema_migrations"

// RunMigrations creates or updates the tables the implementations
// in this package rely on.
//
// Run it in the entrypoint of your application, before building
// an EventStore or SnapshotStore instance.
func RunMigrations(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("postgres.RunMigrations: invalid dsn format, %w", err)
	}

	q := u.Query()
	q.Add("x-migrations-table", migrationsTableName)
	u.RawQuery = q.Encode()

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("postgres.RunMigrations: failed to read embedded migrations, %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, u.String())
	if err != nil {
		return fmt.Errorf("postgres.RunMigrations: failed to build the migrate engine, %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres.RunMigrations: failed to apply migrations, %w", err)
	}

	return nil
}
