package testutil

import (
	"chrono-go/internal/snapshot"
)

// NewTestSnapshotStore creates a new in-memory snapshot store for testing.
func NewTestSnapshotStore() *snapshot.MemoryStore {
	return snapshot.NewMemoryStore()
}
