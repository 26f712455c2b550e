package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"

	"chrono-go/internal/chrono"
)

// MemoryStore is an in-memory implementation of the SnapshotStore interface.
// It is useful for testing and safe for concurrent use.
type MemoryStore struct {
	bodies   map[int64]map[string][]byte  // commitID -> relPath -> body
	safety   map[string]map[string][]byte // name -> relPath -> body
	metadata map[string][]byte
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bodies:   make(map[int64]map[string][]byte),
		safety:   make(map[string]map[string][]byte),
		metadata: make(map[string][]byte),
	}
}

func capture(write func(w io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PutBody stores the body for relPath under commitID.
func (m *MemoryStore) PutBody(commitID int64, relPath string, write func(w io.Writer) error) (int64, error) {
	data, err := capture(write)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.bodies[commitID]
	if !ok {
		set = make(map[string][]byte)
		m.bodies[commitID] = set
	}
	set[path.Clean(relPath)] = data
	return int64(len(data)), nil
}

// GetBody writes the stored body to w.
func (m *MemoryStore) GetBody(commitID int64, relPath string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.bodies[commitID][path.Clean(relPath)]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("commit %d, %s: %w", commitID, relPath, chrono.ErrBodyNotFound)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

// HasBody reports whether a body is stored.
func (m *MemoryStore) HasBody(commitID int64, relPath string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.bodies[commitID][path.Clean(relPath)]
	return ok, nil
}

// DeleteCommit removes the body set of commitID.
func (m *MemoryStore) DeleteCommit(commitID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.bodies, commitID)
	return nil
}

// ListCommits returns the ids of commits with a body set, ascending.
func (m *MemoryStore) ListCommits() ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.bodies))
	for id := range m.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// CreateSafety creates an empty safety snapshot.
func (m *MemoryStore) CreateSafety(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.safety[name]; ok {
		return fmt.Errorf("safety snapshot %q already exists", name)
	}
	m.safety[name] = make(map[string][]byte)
	return nil
}

// PutSafety stores one file of the named safety snapshot.
func (m *MemoryStore) PutSafety(name string, relPath string, write func(w io.Writer) error) (int64, error) {
	data, err := capture(write)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.safety[name]
	if !ok {
		return 0, fmt.Errorf("safety snapshot %q does not exist", name)
	}
	snap[path.Clean(relPath)] = data
	return int64(len(data)), nil
}

// ListSafety returns all safety snapshots ordered by name.
func (m *MemoryStore) ListSafety() ([]chrono.SafetySnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := make([]chrono.SafetySnapshot, 0, len(m.safety))
	for name, files := range m.safety {
		snap := chrono.SafetySnapshot{Name: name, Files: len(files)}
		for _, data := range files {
			snap.Bytes += int64(len(data))
		}
		snapshots = append(snapshots, snap)
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Name < snapshots[j].Name })
	return snapshots, nil
}

// SafetyFile returns one file of a safety snapshot. It exists for tests.
func (m *MemoryStore) SafetyFile(name, relPath string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.safety[name][path.Clean(relPath)]
	return data, ok
}

// DeleteSafety removes the named safety snapshot.
func (m *MemoryStore) DeleteSafety(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.safety, name)
	return nil
}

// PutMetadata stores a named metadata item.
func (m *MemoryStore) PutMetadata(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.metadata[name] = data
	return nil
}

// Metadata returns a stored metadata item. It exists for tests.
func (m *MemoryStore) Metadata(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.metadata[name]
	return data, ok
}

// Usage reports bytes held by bodies and safety snapshots.
func (m *MemoryStore) Usage() (*chrono.StoreUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usage := &chrono.StoreUsage{SafetySnapshots: len(m.safety)}
	for _, set := range m.bodies {
		for _, data := range set {
			usage.BodyBytes += int64(len(data))
		}
	}
	for _, files := range m.safety {
		for _, data := range files {
			usage.SafetyBytes += int64(len(data))
		}
	}
	return usage, nil
}

// Reset removes everything.
func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bodies = make(map[int64]map[string][]byte)
	m.safety = make(map[string]map[string][]byte)
	m.metadata = make(map[string][]byte)
	return nil
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryStore implements chrono.SnapshotStore interface
var _ chrono.SnapshotStore = (*MemoryStore)(nil)
