package chrono

import (
	"fmt"
	"io"

	"chrono-go/internal/database/sqlc"
)

// RevertResult describes what a revert changed in the working tree.
type RevertResult struct {
	Commit *sqlc.Commit

	// SafetySnapshot is the name of the full-tree copy taken beforehand.
	SafetySnapshot string

	Restored []string
	Removed  []string

	// Missing lists paths whose body was absent or unreadable.
	Missing []string
}

// Revert applies the changes recorded by a single commit to the working
// tree: added and modified files are copied back from that commit's body set
// and deleted files are removed. Files the commit did not touch are left as
// they are. A safety snapshot of the whole tree is always taken first.
// decryptCtx must come from the configured Encryptor's Unlock.
func (s *ChronoService) Revert(commitID int64, decryptCtx DecryptionContext) (*RevertResult, error) {
	if decryptCtx == nil {
		return nil, fmt.Errorf("decryption context is required")
	}

	commit, err := s.database.FindCommitByID(commitID)
	if err != nil {
		return nil, fmt.Errorf("finding commit: %w", err)
	}
	if commit == nil {
		return nil, fmt.Errorf("%w: %d", ErrCommitNotFound, commitID)
	}

	records, err := s.database.FindChangesForCommit(commit.ID)
	if err != nil {
		return nil, fmt.Errorf("loading changes for commit %d: %w", commit.ID, err)
	}

	s.logger.Info("revert started", "commit", commit.ID, "changes", len(records))

	safety, err := s.takeSafetySnapshot()
	if err != nil {
		return nil, fmt.Errorf("taking safety snapshot: %w", err)
	}

	result := &RevertResult{Commit: commit, SafetySnapshot: safety}
	for _, rec := range records {
		switch ChangeStatus(rec.Status) {
		case StatusAdded, StatusModified:
			if err := s.restoreBody(commit.ID, rec, decryptCtx); err != nil {
				s.logger.Warn("file not restored", "commit", commit.ID, "path", rec.Path, "error", err)
				result.Missing = append(result.Missing, rec.Path)
				continue
			}
			result.Restored = append(result.Restored, rec.Path)

		case StatusDeleted:
			exists, err := s.fsmgr.Exists(rec.Path)
			if err != nil {
				return result, fmt.Errorf("checking %s: %w", rec.Path, err)
			}
			if !exists {
				continue
			}
			if err := s.fsmgr.Remove(rec.Path); err != nil {
				return result, fmt.Errorf("removing %s: %w", rec.Path, err)
			}
			s.logger.Info("file removed", "path", rec.Path)
			result.Removed = append(result.Removed, rec.Path)

		default:
			s.logger.Warn("unknown change status", "commit", commit.ID, "path", rec.Path, "status", rec.Status)
		}
	}

	s.logger.Info("revert finished",
		"commit", commit.ID,
		"safety_snapshot", safety,
		"restored", len(result.Restored),
		"removed", len(result.Removed),
		"missing", len(result.Missing),
	)
	return result, nil
}

// restoreBody writes a stored body back to its working path. The store read
// is piped into the decryptor; the plaintext is hashed on its way to disk
// and compared with the digest the commit recorded.
func (s *ChronoService) restoreBody(commitID int64, rec *sqlc.GetCommitChangesRow, decryptCtx DecryptionContext) error {
	ok, err := s.snapshots.HasBody(commitID, rec.Path)
	if err != nil {
		return fmt.Errorf("checking body: %w", err)
	}
	if !ok {
		return ErrBodyNotFound
	}

	h := NewDigest()
	err = s.fsmgr.WriteFile(rec.Path, func(w io.Writer) error {
		pr, pw := io.Pipe()
		storeErrCh := make(chan error, 1)
		go func() {
			err := s.snapshots.GetBody(commitID, rec.Path, pw)
			pw.CloseWithError(err)
			storeErrCh <- err
		}()

		decryptErr := decryptCtx.Decrypt(pr, io.MultiWriter(w, h))
		pr.CloseWithError(decryptErr) // unblock the reader goroutine on early failure
		storeErr := <-storeErrCh

		if decryptErr != nil {
			return fmt.Errorf("decrypting body: %w", decryptErr)
		}
		if storeErr != nil {
			return fmt.Errorf("reading body: %w", storeErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if rec.Digest.Valid {
		if got := EncodeDigest(h); got != rec.Digest.String {
			s.logger.Warn("restored body does not match recorded digest",
				"path", rec.Path, "recorded", ShortDigest(rec.Digest.String), "restored", ShortDigest(got))
		}
	}

	s.logger.Info("file restored", "commit", commitID, "path", rec.Path)
	return nil
}

// takeSafetySnapshot copies every file of the current tree into a new safety
// snapshot named after the current time. In strict mode any file that cannot
// be copied aborts the snapshot.
func (s *ChronoService) takeSafetySnapshot() (string, error) {
	name := SafetySnapshotName(s.clock.Now(), s.idgen.New())

	current, err := s.scan()
	if err != nil {
		return "", fmt.Errorf("scanning working tree: %w", err)
	}

	if err := s.snapshots.CreateSafety(name); err != nil {
		return "", err
	}

	copied := 0
	for _, path := range sortedKeys(current) {
		if err := s.copySafetyFile(name, path); err != nil {
			if s.opts.StrictBackup {
				return "", fmt.Errorf("copying %s: %w", path, err)
			}
			s.logger.Warn("file not captured in safety snapshot", "snapshot", name, "path", path, "error", err)
			continue
		}
		copied++
	}

	s.logger.Info("safety snapshot taken", "snapshot", name, "files", copied)
	return name, nil
}

func (s *ChronoService) copySafetyFile(name, path string) error {
	src, err := s.fsmgr.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = s.snapshots.PutSafety(name, path, func(w io.Writer) error {
		return s.encryptor.Encrypt(src, w)
	})
	return err
}
