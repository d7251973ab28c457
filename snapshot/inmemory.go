package snapshot

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var _ Store = &InMemoryStore{}

// InMemoryStore is a thread-safe, in-memory snapshot.Store implementation.
//
// Snapshots are retained per Aggregate id in ascending version order.
// There is no automatic entry eviction, so this store is suggested for
// test scenarios only.
type InMemoryStore struct {
	mx        sync.RWMutex
	snapshots map[string][]Snapshot
}

// NewInMemoryStore creates a new snapshot.InMemoryStore instance.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[string][]Snapshot),
	}
}

// Record stores the given Snapshot.
//
// Recording an (AggregateID, Version) pair already present in the store
// is a no-op: the first recorded entry wins.
func (s *InMemoryStore) Record(_ context.Context, snapshot Snapshot) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	entries := s.snapshots[snapshot.AggregateID]

	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Version >= snapshot.Version
	})

	if i < len(entries) && entries[i].Version == snapshot.Version {
		return nil
	}

	entries = append(entries, Snapshot{})
	copy(entries[i+1:], entries[i:])
	entries[i] = snapshot
	s.snapshots[snapshot.AggregateID] = entries

	return nil
}

// GetLatest returns the Snapshot with the highest version recorded for the
// given Aggregate id, or ErrNotFound if the store holds none.
func (s *InMemoryStore) GetLatest(_ context.Context, aggregateID string) (Snapshot, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	entries := s.snapshots[aggregateID]
	if len(entries) == 0 {
		return Snapshot{}, ErrNotFound
	}

	return entries[len(entries)-1], nil
}

// DeleteOldSnapshots removes all Snapshots recorded for the given Aggregate
// id except the keepLast ones with the highest versions.
func (s *InMemoryStore) DeleteOldSnapshots(_ context.Context, aggregateID string, keepLast int) error {
	if keepLast < 1 {
		return fmt.Errorf("snapshot.InMemoryStore: invalid retention, keepLast must be at least 1, got %d", keepLast)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	entries := s.snapshots[aggregateID]
	if len(entries) <= keepLast {
		return nil
	}

	kept := make([]Snapshot, keepLast)
	copy(kept, entries[len(entries)-keepLast:])
	s.snapshots[aggregateID] = kept

	return nil
}
