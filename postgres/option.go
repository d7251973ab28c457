package postgres

// Option can be used to change the configuration of an object.
type Option[T any] interface {
	apply(T)
}

type option[T any] func(T)

func newOption[T any](f func(T)) option[T] { return option[T](f) }

func (apply option[T]) apply(val T) { apply(val) }

// DefaultSnapshotsTableName is the default table name a SnapshotStore
// records Snapshots into.
const DefaultSnapshotsTableName = "snapshots"

// WithSnapshotsTableName allows you to specify a different table name
// that a SnapshotStore should record Snapshots into.
//
// The table must follow the same schema as the default table
// created by RunMigrations.
func WithSnapshotsTableName(tableName string) Option[*SnapshotStore] {
	return newOption(func(store *SnapshotStore) {
		store.tableName = tableName
	})
}
