package chrono

import (
	"fmt"
	"strings"
)

// Stats summarizes the repository.
type Stats struct {
	Commits         int64
	TrackedFiles    int64
	DeletedFiles    int64
	DatabaseBytes   int64
	BodyBytes       int64
	SafetyBytes     int64
	SafetySnapshots int
}

// CleanupResult describes what Cleanup removed.
type CleanupResult struct {
	DatabaseBytesBefore int64
	DatabaseBytesAfter  int64
	PrunedSafety        []string
	OrphanedBodySets    []int64
}

// Stats reports counts and disk usage.
func (s *ChronoService) Stats() (*Stats, error) {
	commits, err := s.database.CountCommits()
	if err != nil {
		return nil, fmt.Errorf("counting commits: %w", err)
	}
	live, deleted, err := s.database.CountTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("counting tracked files: %w", err)
	}
	size, err := s.database.Size()
	if err != nil {
		return nil, fmt.Errorf("measuring database: %w", err)
	}
	usage, err := s.snapshots.Usage()
	if err != nil {
		return nil, fmt.Errorf("measuring snapshot store: %w", err)
	}

	return &Stats{
		Commits:         commits,
		TrackedFiles:    live,
		DeletedFiles:    deleted,
		DatabaseBytes:   size,
		BodyBytes:       usage.BodyBytes,
		SafetyBytes:     usage.SafetyBytes,
		SafetySnapshots: usage.SafetySnapshots,
	}, nil
}

// Cleanup compacts the database, keeps only the newest safety snapshots and
// removes body sets that belong to no commit.
func (s *ChronoService) Cleanup() (*CleanupResult, error) {
	result := &CleanupResult{}

	before, err := s.database.Size()
	if err != nil {
		return nil, fmt.Errorf("measuring database: %w", err)
	}
	if err := s.database.Compact(); err != nil {
		return nil, fmt.Errorf("compacting database: %w", err)
	}
	after, err := s.database.Size()
	if err != nil {
		return nil, fmt.Errorf("measuring database: %w", err)
	}
	result.DatabaseBytesBefore, result.DatabaseBytesAfter = before, after

	safety, err := s.snapshots.ListSafety()
	if err != nil {
		return nil, fmt.Errorf("listing safety snapshots: %w", err)
	}
	if excess := len(safety) - s.opts.SafetyKeep; excess > 0 {
		for _, snap := range safety[:excess] {
			if err := s.snapshots.DeleteSafety(snap.Name); err != nil {
				return result, fmt.Errorf("deleting safety snapshot %s: %w", snap.Name, err)
			}
			s.logger.Info("safety snapshot pruned", "snapshot", snap.Name)
			result.PrunedSafety = append(result.PrunedSafety, snap.Name)
		}
	}

	known, err := s.database.ListCommitIDs()
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	exists := make(map[int64]bool, len(known))
	for _, id := range known {
		exists[id] = true
	}
	stored, err := s.snapshots.ListCommits()
	if err != nil {
		return nil, fmt.Errorf("listing body sets: %w", err)
	}
	for _, id := range stored {
		if exists[id] {
			continue
		}
		if err := s.snapshots.DeleteCommit(id); err != nil {
			return result, fmt.Errorf("deleting orphaned body set %d: %w", id, err)
		}
		s.logger.Info("orphaned body set removed", "commit", id)
		result.OrphanedBodySets = append(result.OrphanedBodySets, id)
	}

	return result, nil
}

// Reset deletes all history and stored bodies. It refuses to run unless
// confirm is true. The working tree is not touched.
func (s *ChronoService) Reset(confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}
	if err := s.database.Reset(); err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}
	if err := s.snapshots.Reset(); err != nil {
		return fmt.Errorf("resetting snapshot store: %w", err)
	}
	s.logger.Warn("repository reset")
	return nil
}

// RenameCommit replaces the message of an existing commit.
func (s *ChronoService) RenameCommit(commitID int64, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	ok, err := s.database.RenameCommit(commitID, message)
	if err != nil {
		return fmt.Errorf("renaming commit: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrCommitNotFound, commitID)
	}
	s.logger.Info("commit renamed", "commit", commitID)
	return nil
}
