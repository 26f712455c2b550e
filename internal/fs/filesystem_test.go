package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chrono-go/internal/chrono"
	"chrono-go/internal/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func newManager(t *testing.T, root string, cfg config.FilesystemConfig) *OSFilesystemManager {
	t.Helper()
	m, err := NewOSFilesystemManager(root, NewIgnoreRules(cfg, nil), cfg.CaseInsensitive)
	require.NoError(t, err)
	return m
}

func digestOf(content string) string {
	d, _, _ := chrono.DigestReader(bytes.NewReader([]byte(content)))
	return d
}

func TestNewOSFilesystemManager(t *testing.T) {
	t.Run("rejects missing root", func(t *testing.T) {
		_, err := NewOSFilesystemManager(filepath.Join(t.TempDir(), "nope"), NewIgnoreRules(config.FilesystemConfig{}, nil), false)
		assert.Error(t, err)
	})

	t.Run("rejects file root", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.txt": "x"})
		_, err := NewOSFilesystemManager(filepath.Join(root, "a.txt"), NewIgnoreRules(config.FilesystemConfig{}, nil), false)
		assert.Error(t, err)
	})
}

func TestOSFilesystemManager_Scan(t *testing.T) {
	t.Run("digests every tracked file", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"a.txt":         "alpha",
			"src/b.go":      "package b",
			"src/deep/c.md": "",
		})
		m := newManager(t, root, config.FilesystemConfig{})

		result, err := m.Scan()
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"a.txt":         digestOf("alpha"),
			"src/b.go":      digestOf("package b"),
			"src/deep/c.md": digestOf(""),
		}, result.Files)
		assert.Empty(t, result.Skipped)
	})

	t.Run("is deterministic", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.txt": "1", "b/c.txt": "2"})
		m := newManager(t, root, config.FilesystemConfig{})

		first, err := m.Scan()
		require.NoError(t, err)
		second, err := m.Scan()
		require.NoError(t, err)
		assert.Equal(t, first.Files, second.Files)
	})

	t.Run("applies default ignore rules", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"keep.py":                     "print()",
			"keep.pyc":                    "bytecode",
			".chrono/chrono.db":           "db",
			".git/HEAD":                   "ref",
			"web/node_modules/x/index.js": "js",
			".hidden":                     "secret",
			".gitignore":                  "*.o",
		})
		m := newManager(t, root, config.FilesystemConfig{})

		result, err := m.Scan()
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"keep.py", ".gitignore"}, keys(result.Files))
	})

	t.Run("honours config and ignore file patterns", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"main.go":       "package main",
			"debug.log":     "log",
			"build/out.bin": "bin",
			".chronoignore": "build/\n",
		})
		patterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
		require.NoError(t, err)
		cfg := config.FilesystemConfig{Ignore: []string{"*.log"}}
		m, err := NewOSFilesystemManager(root, NewIgnoreRules(cfg, patterns), false)
		require.NoError(t, err)

		result, err := m.Scan()
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"main.go", ".chronoignore"}, keys(result.Files))
	})

	t.Run("folds case when configured", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"Docs/README.md": "hi"})
		m := newManager(t, root, config.FilesystemConfig{CaseInsensitive: true})

		result, err := m.Scan()
		require.NoError(t, err)
		assert.Contains(t, result.Files, "docs/readme.md")
	})

	t.Run("skips symlinks", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		root := t.TempDir()
		writeTree(t, root, map[string]string{"target.txt": "t"})
		require.NoError(t, os.Symlink(filepath.Join(root, "target.txt"), filepath.Join(root, "link.txt")))
		m := newManager(t, root, config.FilesystemConfig{})

		result, err := m.Scan()
		require.NoError(t, err)
		assert.Equal(t, []string{"target.txt"}, keys(result.Files))
	})

	t.Run("reports unreadable files as skipped", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		root := t.TempDir()
		writeTree(t, root, map[string]string{"ok.txt": "ok", "locked.txt": "no"})
		locked := filepath.Join(root, "locked.txt")
		require.NoError(t, os.Chmod(locked, 0000))
		t.Cleanup(func() { os.Chmod(locked, 0644) })
		m := newManager(t, root, config.FilesystemConfig{})

		result, err := m.Scan()
		require.NoError(t, err)

		assert.Equal(t, []string{"ok.txt"}, keys(result.Files))
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, "locked.txt", result.Skipped[0].Path)
	})
}

func TestOSFilesystemManager_WriteFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		root := t.TempDir()
		m := newManager(t, root, config.FilesystemConfig{})

		err := m.WriteFile("a/b/c.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, "content")
			return err
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(root, "a", "b", "c.txt"))
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("keeps existing permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not enforced")
		}
		root := t.TempDir()
		writeTree(t, root, map[string]string{"run.sh": "old"})
		require.NoError(t, os.Chmod(filepath.Join(root, "run.sh"), 0755))
		m := newManager(t, root, config.FilesystemConfig{})

		require.NoError(t, m.WriteFile("run.sh", func(w io.Writer) error {
			_, err := io.WriteString(w, "new")
			return err
		}))

		info, err := os.Stat(filepath.Join(root, "run.sh"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	})

	t.Run("leaves target untouched on failure", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.txt": "original"})
		m := newManager(t, root, config.FilesystemConfig{})

		err := m.WriteFile("a.txt", func(w io.Writer) error {
			io.WriteString(w, "partial")
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		data, err := os.ReadFile(filepath.Join(root, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file should be cleaned up")
	})

	t.Run("rejects paths outside the tree", func(t *testing.T) {
		m := newManager(t, t.TempDir(), config.FilesystemConfig{})
		err := m.WriteFile("../escape.txt", func(w io.Writer) error { return nil })
		assert.Error(t, err)
	})
}

func TestOSFilesystemManager_RemoveAndExists(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x"})
	m := newManager(t, root, config.FilesystemConfig{})

	exists, err := m.Exists("a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.Remove("a.txt"))

	exists, err = m.Exists("a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, m.Remove("a.txt"), "removing a missing file is not an error")
}

func TestOSFilesystemManager_Open(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"dir/f.txt": "body"})
	m := newManager(t, root, config.FilesystemConfig{})

	rc, err := m.Open("dir/f.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "body", string(data))
}

func TestOSFilesystemManager_FoldedKeysUseOnDiskNames(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"Docs/README.md": "hi"})
	m := newManager(t, root, config.FilesystemConfig{CaseInsensitive: true})

	result, err := m.Scan()
	require.NoError(t, err)
	require.Contains(t, result.Files, "docs/readme.md")

	rc, err := m.Open("docs/readme.md")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	require.NoError(t, m.WriteFile("docs/readme.md", func(w io.Writer) error {
		_, err := io.WriteString(w, "restored")
		return err
	}))
	data, err = os.ReadFile(filepath.Join(root, "Docs", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "restored", string(data))

	exists, err := m.Exists("docs/readme.md")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.Remove("docs/readme.md"))
	_, err = os.Stat(filepath.Join(root, "Docs", "README.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/b.txt", NormalizePath(filepath.Join("a", "b.txt"), false))
	assert.Equal(t, "a/b.txt", NormalizePath("a/./b.txt", false))
	assert.Equal(t, "a/readme.md", NormalizePath("A/README.md", true))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
