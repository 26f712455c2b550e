package chrono

import (
	"fmt"

	"chrono-go/internal/database/sqlc"
)

// LogEntry is one commit in the log with its per-status change counts.
type LogEntry struct {
	Commit   *sqlc.Commit
	Added    int64
	Modified int64
	Deleted  int64
}

// CommitDetails is a commit together with its change records.
type CommitDetails struct {
	Commit  *sqlc.Commit
	Changes []*ChangeEntry
}

// ChangeEntry is one change record resolved to its path.
type ChangeEntry struct {
	Path   string
	Status ChangeStatus
	// Digest is empty for deleted entries.
	Digest string
}

// Log returns commits most recent first. limit <= 0 returns all commits; a
// limited log is always a prefix of the full one.
func (s *ChronoService) Log(limit int) ([]*LogEntry, error) {
	commits, err := s.database.ListCommits(limit)
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	entries := make([]*LogEntry, 0, len(commits))
	for _, commit := range commits {
		counts, err := s.database.CountChangesByStatus(commit.ID)
		if err != nil {
			return nil, fmt.Errorf("counting changes for commit %d: %w", commit.ID, err)
		}
		entries = append(entries, &LogEntry{
			Commit:   commit,
			Added:    counts[StatusAdded],
			Modified: counts[StatusModified],
			Deleted:  counts[StatusDeleted],
		})
	}
	return entries, nil
}

// ShowCommit returns a commit and its change records in recording order.
func (s *ChronoService) ShowCommit(commitID int64) (*CommitDetails, error) {
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

	details := &CommitDetails{Commit: commit, Changes: make([]*ChangeEntry, 0, len(records))}
	for _, rec := range records {
		details.Changes = append(details.Changes, &ChangeEntry{
			Path:   rec.Path,
			Status: ChangeStatus(rec.Status),
			Digest: rec.Digest.String,
		})
	}
	return details, nil
}

// ListFiles returns every tracked file ordered by path. Files whose last
// recorded change was a deletion are included with Deleted set.
func (s *ChronoService) ListFiles() ([]*sqlc.TrackedFile, error) {
	files, err := s.database.ListTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("listing tracked files: %w", err)
	}
	return files, nil
}
