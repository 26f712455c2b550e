package chrono

import "io"

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_snapshot.go -package=mocks chrono-go/internal/chrono SnapshotStore

// SnapshotStore holds copies of file bodies outside the working tree.
// Bodies are addressed by commit id and relative path; safety snapshots are
// addressed by name. Writers receive a function that streams the body so
// implementations can write atomically.
type SnapshotStore interface {
	// PutBody stores the body for relPath under commitID, replacing any
	// existing copy. Returns the number of bytes stored.
	PutBody(commitID int64, relPath string, write func(w io.Writer) error) (int64, error)

	// GetBody writes the stored body to w. Returns an error wrapping
	// ErrBodyNotFound if nothing is stored.
	GetBody(commitID int64, relPath string, w io.Writer) error

	// HasBody reports whether a body is stored for commitID and relPath.
	HasBody(commitID int64, relPath string) (bool, error)

	// DeleteCommit removes every body stored under commitID.
	DeleteCommit(commitID int64) error

	// ListCommits returns the commit ids that have a body set, ascending.
	ListCommits() ([]int64, error)

	// CreateSafety creates an empty safety snapshot. It fails if the name
	// is already taken.
	CreateSafety(name string) error

	// PutSafety stores one file of the named safety snapshot.
	PutSafety(name string, relPath string, write func(w io.Writer) error) (int64, error)

	// ListSafety returns all safety snapshots ordered by name, oldest first.
	ListSafety() ([]SafetySnapshot, error)

	// DeleteSafety removes the named safety snapshot.
	DeleteSafety(name string) error

	// PutMetadata stores a named metadata item such as a database copy.
	PutMetadata(name string, r io.Reader) error

	// Usage reports the bytes held by bodies and safety snapshots.
	Usage() (*StoreUsage, error)

	// Reset removes every body, safety snapshot and metadata item.
	Reset() error

	// ValidateSetup verifies that the store is accessible.
	ValidateSetup() error
}

// SafetySnapshot describes a full-tree copy taken before a revert.
type SafetySnapshot struct {
	Name  string
	Files int
	Bytes int64
}

// StoreUsage summarizes snapshot store disk usage.
type StoreUsage struct {
	BodyBytes       int64
	SafetyBytes     int64
	SafetySnapshots int
}
