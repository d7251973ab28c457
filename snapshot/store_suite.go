package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rewindkit/go-rewind/message"
	"github.com/rewindkit/go-rewind/version"
)

// StoreSuite is a full testing suite for a snapshot.Store implementation,
// covering recording, latest-snapshot queries, idempotency and retention.
type StoreSuite struct {
	suite.Suite

	storeFactory func() Store
	store        Store // NOTE: this value is set in SetupTest.
}

// NewStoreSuite creates a new StoreSuite using the provided snapshot.Store
// factory. The factory is called before each test to get a fresh, empty
// Store instance.
func NewStoreSuite(factory func() Store) *StoreSuite {
	ss := new(StoreSuite)
	ss.storeFactory = factory

	return ss
}

// SetupTest creates a new Store instance for each test in the suite.
func (ss *StoreSuite) SetupTest() {
	ss.store = ss.storeFactory()
}

func (ss *StoreSuite) TestGetLatest() {
	t := ss.T()
	ctx := context.Background()

	const aggregateID = "landing-page"

	_, err := ss.store.GetLatest(ctx, aggregateID)
	assert.ErrorIs(t, err, ErrNotFound)

	first := makeTestSnapshot(aggregateID, 5)
	assert.NoError(t, ss.store.Record(ctx, first))

	latest, err := ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	ss.assertSnapshotsEqual(first, latest)

	second := makeTestSnapshot(aggregateID, 10)
	assert.NoError(t, ss.store.Record(ctx, second))

	latest, err = ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	ss.assertSnapshotsEqual(second, latest)

	// Recording an older version out of order must not
	// change the latest snapshot.
	stale := makeTestSnapshot(aggregateID, 7)
	assert.NoError(t, ss.store.Record(ctx, stale))

	latest, err = ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	ss.assertSnapshotsEqual(second, latest)
}

func (ss *StoreSuite) TestRecordIsIdempotent() {
	t := ss.T()
	ctx := context.Background()

	const aggregateID = "about-page"

	first := makeTestSnapshot(aggregateID, 3)
	assert.NoError(t, ss.store.Record(ctx, first))

	// Recording again at the same version must be a benign no-op:
	// the first recorded entry wins.
	overwrite := first
	overwrite.State = []byte(`{"tampered":true}`)
	assert.NoError(t, ss.store.Record(ctx, overwrite))

	latest, err := ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	assert.Equal(t, first.State, latest.State)
}

func (ss *StoreSuite) TestRecordWithoutMetadata() {
	t := ss.T()
	ctx := context.Background()

	const aggregateID = "sitemap"

	snap := makeTestSnapshot(aggregateID, 1)
	snap.Metadata = nil

	assert.NoError(t, ss.store.Record(ctx, snap))

	latest, err := ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	assert.Empty(t, latest.Metadata)
	assert.Equal(t, snap.State, latest.State)
}

func (ss *StoreSuite) TestDeleteOldSnapshots() {
	t := ss.T()
	ctx := context.Background()

	const aggregateID = "news-feed"
	const otherAggregateID = "news-archive"

	for v := version.Version(1); v <= 5; v++ {
		assert.NoError(t, ss.store.Record(ctx, makeTestSnapshot(aggregateID, v)))
	}

	assert.NoError(t, ss.store.Record(ctx, makeTestSnapshot(otherAggregateID, 2)))

	// Retention values below 1 are rejected: they would delete
	// every snapshot recorded for the Aggregate.
	assert.Error(t, ss.store.DeleteOldSnapshots(ctx, aggregateID, 0))
	assert.Error(t, ss.store.DeleteOldSnapshots(ctx, aggregateID, -1))

	assert.NoError(t, ss.store.DeleteOldSnapshots(ctx, aggregateID, 2))

	latest, err := ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	assert.Equal(t, version.Version(5), latest.Version)

	// A version removed by retention can be recorded again.
	assert.NoError(t, ss.store.Record(ctx, makeTestSnapshot(aggregateID, 1)))

	latest, err = ss.store.GetLatest(ctx, aggregateID)
	assert.NoError(t, err)
	assert.Equal(t, version.Version(5), latest.Version)

	// Retention works per Aggregate id: other entries are untouched.
	otherLatest, err := ss.store.GetLatest(ctx, otherAggregateID)
	assert.NoError(t, err)
	assert.Equal(t, version.Version(2), otherLatest.Version)

	// A retention higher than the number of recorded snapshots
	// retains everything.
	assert.NoError(t, ss.store.DeleteOldSnapshots(ctx, otherAggregateID, 10))

	otherLatest, err = ss.store.GetLatest(ctx, otherAggregateID)
	assert.NoError(t, err)
	assert.Equal(t, version.Version(2), otherLatest.Version)
}

func (ss *StoreSuite) assertSnapshotsEqual(expected, actual Snapshot) {
	t := ss.T()

	assert.Equal(t, expected.AggregateID, actual.AggregateID)
	assert.Equal(t, expected.Version, actual.Version)
	assert.Equal(t, expected.State, actual.State)
	assert.Equal(t, expected.Metadata, actual.Metadata)
	assert.WithinDuration(t, expected.RecordedAt, actual.RecordedAt, time.Second)
}

func makeTestSnapshot(aggregateID string, v version.Version) Snapshot {
	return Snapshot{
		AggregateID: aggregateID,
		Version:     v,
		State:       []byte(fmt.Sprintf(`{"version":%d}`, v)),
		RecordedAt:  time.Now().UTC().Truncate(time.Millisecond),
		Metadata: message.Metadata{
			"Snapshotted-By": "store-suite",
		},
	}
}
