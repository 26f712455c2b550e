package chrono

import "errors"

var (
	// ErrEmptyMessage is returned when a commit message is empty after trimming.
	ErrEmptyMessage = errors.New("commit message cannot be empty")

	// ErrNoChanges is returned by Commit when the working tree matches the
	// tracked state. Nothing is written.
	ErrNoChanges = errors.New("no changes to commit")

	// ErrCommitNotFound is returned when a commit id does not exist.
	ErrCommitNotFound = errors.New("commit not found")

	// ErrResetNotConfirmed is returned by Reset when the caller did not confirm.
	ErrResetNotConfirmed = errors.New("reset requires confirmation")

	// ErrBodyNotFound is returned by a SnapshotStore when no body is stored
	// for the requested commit and path.
	ErrBodyNotFound = errors.New("body not found in snapshot store")
)
