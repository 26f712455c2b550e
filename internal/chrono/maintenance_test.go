package chrono_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chrono-go/internal/chrono"
)

func TestChronoService_Stats(t *testing.T) {
	h := newHarness(t, chrono.Options{})
	seedHistory(t, h)

	stats, err := h.svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Commits)
	assert.Equal(t, int64(2), stats.TrackedFiles)
	assert.Equal(t, int64(1), stats.DeletedFiles)
	assert.Positive(t, stats.DatabaseBytes)
	assert.Positive(t, stats.BodyBytes)
	assert.Zero(t, stats.SafetySnapshots)
}

func TestChronoService_Cleanup(t *testing.T) {
	t.Run("keeps only the newest safety snapshots", func(t *testing.T) {
		h := newHarness(t, chrono.Options{SafetyKeep: 2})
		for i := 1; i <= 4; i++ {
			require.NoError(t, h.store.CreateSafety(fmt.Sprintf("2024011%dT000000Z-aaaaaaaa", i)))
		}

		result, err := h.svc.Cleanup()
		require.NoError(t, err)

		assert.Equal(t, []string{"20240111T000000Z-aaaaaaaa", "20240112T000000Z-aaaaaaaa"}, result.PrunedSafety)
		list, err := h.store.ListSafety()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "20240113T000000Z-aaaaaaaa", list[0].Name)
	})

	t.Run("removes body sets without a commit", func(t *testing.T) {
		h := newHarness(t, chrono.Options{})
		h.tree.AddFile("a.txt", []byte("x"))
		c1 := h.commit(t, "c1")
		_, err := h.store.PutBody(99, "stale.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, "orphan")
			return err
		})
		require.NoError(t, err)

		result, err := h.svc.Cleanup()
		require.NoError(t, err)

		assert.Equal(t, []int64{99}, result.OrphanedBodySets)
		ids, err := h.store.ListCommits()
		require.NoError(t, err)
		assert.Equal(t, []int64{c1.Commit.ID}, ids)
	})

	t.Run("is a no-op on a tidy repository", func(t *testing.T) {
		h := newHarness(t, chrono.Options{})
		seedHistory(t, h)

		result, err := h.svc.Cleanup()
		require.NoError(t, err)

		assert.Empty(t, result.PrunedSafety)
		assert.Empty(t, result.OrphanedBodySets)
		assert.Positive(t, result.DatabaseBytesAfter)
	})
}

func TestChronoService_Reset(t *testing.T) {
	t.Run("refuses without confirmation", func(t *testing.T) {
		h := newHarness(t, chrono.Options{})
		seedHistory(t, h)

		err := h.svc.Reset(false)
		assert.ErrorIs(t, err, chrono.ErrResetNotConfirmed)

		count, err := h.db.CountCommits()
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("clears history but not the tree or journal", func(t *testing.T) {
		h := newHarness(t, chrono.Options{})
		seedHistory(t, h)
		op, err := h.db.CreateOperation("commit", "")
		require.NoError(t, err)
		require.NoError(t, h.db.FinishOperation(op.ID, "success"))

		require.NoError(t, h.svc.Reset(true))

		stats, err := h.svc.Stats()
		require.NoError(t, err)
		assert.Zero(t, stats.Commits)
		assert.Zero(t, stats.TrackedFiles)
		assert.Zero(t, stats.DeletedFiles)
		assert.Zero(t, stats.BodyBytes)

		assert.Equal(t, []string{"a.txt", "c.txt"}, h.tree.Paths())

		ops, err := h.svc.GetHistory(0)
		require.NoError(t, err)
		assert.Len(t, ops, 1)

		status, err := h.svc.Status()
		require.NoError(t, err)
		assert.Len(t, status.Added, 2, "every file is new after a reset")
	})
}

func TestChronoService_RenameCommit(t *testing.T) {
	h := newHarness(t, chrono.Options{})
	seedHistory(t, h)

	require.NoError(t, h.svc.RenameCommit(2, "  renamed  "))
	details, err := h.svc.ShowCommit(2)
	require.NoError(t, err)
	assert.Equal(t, "renamed", details.Commit.Message)

	assert.ErrorIs(t, h.svc.RenameCommit(2, " "), chrono.ErrEmptyMessage)
	assert.ErrorIs(t, h.svc.RenameCommit(77, "nope"), chrono.ErrCommitNotFound)
}
