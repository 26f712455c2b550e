package chrono_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chrono-go/internal/chrono"
	"chrono-go/internal/testutil"
)

func seedHistory(t *testing.T, h *harness) {
	t.Helper()
	h.tree.AddFile("a.txt", []byte("a1"))
	h.tree.AddFile("b.txt", []byte("b1"))
	h.commit(t, "first")
	h.tree.AddFile("a.txt", []byte("a2"))
	h.tree.DeleteFile("b.txt")
	h.tree.AddFile("c.txt", []byte("c1"))
	h.commit(t, "second")
	h.tree.AddFile("c.txt", []byte("c2"))
	h.commit(t, "third")
}

func TestChronoService_Log(t *testing.T) {
	h := newHarness(t, chrono.Options{})
	seedHistory(t, h)

	t.Run("lists newest first with change counts", func(t *testing.T) {
		entries, err := h.svc.Log(0)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		var messages []string
		for _, e := range entries {
			messages = append(messages, e.Commit.Message)
		}
		assert.Equal(t, []string{"third", "second", "first"}, messages)

		second := entries[1]
		assert.Equal(t, int64(1), second.Added)
		assert.Equal(t, int64(1), second.Modified)
		assert.Equal(t, int64(1), second.Deleted)
	})

	t.Run("limited log is a prefix of the full log", func(t *testing.T) {
		full, err := h.svc.Log(-1)
		require.NoError(t, err)

		for limit := 1; limit <= 4; limit++ {
			limited, err := h.svc.Log(limit)
			require.NoError(t, err)
			want := full
			if limit < len(full) {
				want = full[:limit]
			}
			assert.Equal(t, want, limited, "limit %d", limit)
		}
	})

	t.Run("ties on time are broken by id", func(t *testing.T) {
		h := newHarness(t, chrono.Options{})
		h.tree.AddFile("a.txt", []byte("1"))
		_, err := h.svc.Commit("same time 1")
		require.NoError(t, err)
		h.tree.AddFile("a.txt", []byte("2"))
		_, err = h.svc.Commit("same time 2")
		require.NoError(t, err)

		entries, err := h.svc.Log(0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "same time 2", entries[0].Commit.Message)
	})
}

func TestChronoService_ShowCommit(t *testing.T) {
	h := newHarness(t, chrono.Options{})
	seedHistory(t, h)

	details, err := h.svc.ShowCommit(2)
	require.NoError(t, err)

	assert.Equal(t, "second", details.Commit.Message)
	assert.Equal(t, []*chrono.ChangeEntry{
		{Path: "c.txt", Status: chrono.StatusAdded, Digest: testutil.SHA256Hex([]byte("c1"))},
		{Path: "a.txt", Status: chrono.StatusModified, Digest: testutil.SHA256Hex([]byte("a2"))},
		{Path: "b.txt", Status: chrono.StatusDeleted, Digest: ""},
	}, details.Changes)

	_, err = h.svc.ShowCommit(42)
	assert.ErrorIs(t, err, chrono.ErrCommitNotFound)
}

func TestChronoService_ListFiles(t *testing.T) {
	h := newHarness(t, chrono.Options{})
	seedHistory(t, h)

	files, err := h.svc.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 3)

	got := map[string]bool{}
	var order []string
	for _, f := range files {
		got[f.Path] = f.Deleted
		order = append(order, f.Path)
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, order)
	assert.Equal(t, map[string]bool{"a.txt": false, "b.txt": true, "c.txt": false}, got)
}

func TestChronoService_GetHistory(t *testing.T) {
	h := newHarness(t, chrono.Options{})

	for _, name := range []string{"init", "commit", "revert"} {
		op, err := h.db.CreateOperation(name, "")
		require.NoError(t, err)
		require.NoError(t, h.db.FinishOperation(op.ID, "success"))
	}

	ops, err := h.svc.GetHistory(2)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "revert", ops[0].Operation)
	assert.Equal(t, "commit", ops[1].Operation)

	all, err := h.svc.GetHistory(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
