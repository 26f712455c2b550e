package chrono

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chrono-go/internal/database/sqlc"
)

// CommitResult describes a recorded commit.
type CommitResult struct {
	Commit  *sqlc.Commit
	Changes *ChangeSet

	// MissingBodies lists added or modified paths whose body could not be
	// copied into the snapshot store, or changed while being copied.
	MissingBodies []string
}

// errDigestMismatch means a file changed between the scan and the body copy.
var errDigestMismatch = errors.New("file changed while it was being copied")

// Commit records the current state of the working tree.
// The message must contain something other than whitespace. If the tree
// matches the tracked state, ErrNoChanges is returned and nothing is written.
func (s *ChronoService) Commit(message string) (*CommitResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	changes, err := s.Status()
	if err != nil {
		return nil, err
	}
	if !changes.HasChanges() {
		s.logger.Info("nothing to commit")
		return nil, ErrNoChanges
	}

	result := &CommitResult{Changes: changes}
	list := changes.Changes()

	commit, err := s.database.RecordCommit(message, s.clock.Now().UTC(), list, func(commit *sqlc.Commit) error {
		missing, err := s.backupBodies(commit.ID, list)
		result.MissingBodies = missing
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recording commit: %w", err)
	}
	result.Commit = commit

	s.logger.Info("commit recorded",
		"commit", commit.ID,
		"added", len(changes.Added),
		"modified", len(changes.Modified),
		"deleted", len(changes.Deleted),
		"missing_bodies", len(result.MissingBodies),
	)
	return result, nil
}

// backupBodies copies every added or modified file into the snapshot store
// under commitID. Any stale body set for the id is removed first. In strict
// mode the first failure removes the partial set and is returned.
func (s *ChronoService) backupBodies(commitID int64, changes []FileChange) ([]string, error) {
	if err := s.snapshots.DeleteCommit(commitID); err != nil {
		return nil, fmt.Errorf("clearing stale bodies for commit %d: %w", commitID, err)
	}

	var missing []string
	for _, change := range changes {
		if change.Status == StatusDeleted {
			continue
		}

		err := s.backupBody(commitID, change)
		if err == nil {
			continue
		}

		if s.opts.StrictBackup {
			if cleanupErr := s.snapshots.DeleteCommit(commitID); cleanupErr != nil {
				s.logger.Error("removing partial body set", "commit", commitID, "error", cleanupErr)
			}
			return nil, fmt.Errorf("backing up %s: %w", change.Path, err)
		}

		s.logger.Warn("body not backed up", "commit", commitID, "path", change.Path, "error", err)
		missing = append(missing, change.Path)
	}
	return missing, nil
}

// backupBody streams one working file through the encryptor into the
// snapshot store, hashing the plaintext on the way to confirm it still
// matches the scanned digest.
func (s *ChronoService) backupBody(commitID int64, change FileChange) error {
	src, err := s.fsmgr.Open(change.Path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer src.Close()

	h := NewDigest()
	size, err := s.snapshots.PutBody(commitID, change.Path, func(w io.Writer) error {
		return s.encryptor.Encrypt(io.TeeReader(src, h), w)
	})
	if err != nil {
		return err
	}

	if got := EncodeDigest(h); got != change.Digest {
		return fmt.Errorf("%w: scanned %s, copied %s", errDigestMismatch, ShortDigest(change.Digest), ShortDigest(got))
	}

	s.logger.Debug("body stored", "commit", commitID, "path", change.Path, "bytes", size)
	return nil
}
