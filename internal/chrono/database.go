package chrono

import (
	"time"

	"chrono-go/internal/database/sqlc"
)

// Database provides an interface for metadata storage operations.
// Finder methods return nil, nil when the record does not exist.
type Database interface {
	// Commit operations

	// RecordCommit inserts a commit and one change record per change in a
	// single transaction, updating tracked files as it goes. backup is called
	// with the new commit before the transaction commits; if it returns an
	// error the whole commit is rolled back.
	RecordCommit(message string, createdAt time.Time, changes []FileChange, backup func(commit *sqlc.Commit) error) (*sqlc.Commit, error)

	// FindCommitByID returns a commit by id.
	FindCommitByID(id int64) (*sqlc.Commit, error)

	// ListCommits returns commits newest first. limit <= 0 means no limit.
	ListCommits(limit int) ([]*sqlc.Commit, error)

	// ListCommitIDs returns every commit id, ascending.
	ListCommitIDs() ([]int64, error)

	// RenameCommit replaces a commit message. Returns false if no such commit.
	RenameCommit(id int64, message string) (bool, error)

	// CountCommits returns the number of commits.
	CountCommits() (int64, error)

	// Tracked file operations

	// FindTrackedFileByPath returns a tracked file by path.
	FindTrackedFileByPath(path string) (*sqlc.TrackedFile, error)

	// ListTrackedFiles returns every tracked file ordered by path, including
	// files whose last change was a deletion.
	ListTrackedFiles() ([]*sqlc.TrackedFile, error)

	// TrackedDigests returns path -> digest for files not marked deleted.
	TrackedDigests() (map[string]string, error)

	// CountTrackedFiles returns live and deleted tracked file counts.
	CountTrackedFiles() (live int64, deleted int64, err error)

	// Change record operations

	// FindChangesForCommit returns a commit's change records with their
	// paths, oldest first.
	FindChangesForCommit(commitID int64) ([]*sqlc.GetCommitChangesRow, error)

	// CountChangesByStatus returns status -> count for a commit.
	CountChangesByStatus(commitID int64) (map[ChangeStatus]int64, error)

	// Operation tracking

	CreateOperation(operation string, parameters string) (*sqlc.Operation, error)
	FinishOperation(id int64, status string) error
	ListOperations(limit int) ([]*sqlc.Operation, error)

	// Maintenance

	// Reset deletes all change records, commits and tracked files.
	Reset() error

	// Compact rebuilds the database file to reclaim free pages.
	Compact() error

	// Size returns the database size in bytes.
	Size() (int64, error)

	// Close closes the database connection.
	Close() error
}
