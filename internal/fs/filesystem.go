package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chrono-go/internal/chrono"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It scans and edits the working tree under root.
type OSFilesystemManager struct {
	root     string
	rules    *IgnoreRules
	foldCase bool

	// onDisk maps folded keys from the last Scan to the names found on disk.
	onDisk map[string]string
}

// NewOSFilesystemManager creates a filesystem manager for the tree at root.
// When foldCase is true, scanned paths are lower-cased so that trees on
// case-insensitive filesystems produce stable keys. Files seen by the last
// Scan are then opened and replaced under their on-disk names.
func NewOSFilesystemManager(root string, rules *IgnoreRules, foldCase bool) (*OSFilesystemManager, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", absRoot)
	}

	return &OSFilesystemManager{root: absRoot, rules: rules, foldCase: foldCase}, nil
}

// Root returns the absolute path of the working tree.
func (m *OSFilesystemManager) Root() string {
	return m.root
}

// Scan walks the tree and digests every regular file that is not ignored.
// Symlinks, devices, pipes and sockets are skipped silently. Files and
// directories that cannot be read are reported in Skipped.
func (m *OSFilesystemManager) Scan() (*chrono.ScanResult, error) {
	result := &chrono.ScanResult{Files: make(map[string]string)}
	onDisk := make(map[string]string)

	err := filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == m.root {
				return err
			}
			rel, _ := filepath.Rel(m.root, p)
			result.Skipped = append(result.Skipped, chrono.SkippedFile{Path: filepath.ToSlash(rel), Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == m.root {
			return nil
		}

		rel, err := filepath.Rel(m.root, p)
		if err != nil {
			return fmt.Errorf("calculating relative path: %w", err)
		}

		if d.IsDir() {
			if m.rules.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if m.rules.Ignored(rel) {
			return nil
		}

		key := NormalizePath(rel, m.foldCase)
		digest, err := digestFile(p)
		if err != nil {
			result.Skipped = append(result.Skipped, chrono.SkippedFile{Path: key, Err: err})
			return nil
		}
		result.Files[key] = digest
		if m.foldCase {
			onDisk[key] = filepath.ToSlash(rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", m.root, err)
	}
	m.onDisk = onDisk

	return result, nil
}

func digestFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest, _, err := chrono.DigestReader(f)
	return digest, err
}

// Open opens a working file for reading.
func (m *OSFilesystemManager) Open(relPath string) (io.ReadCloser, error) {
	abs, err := m.abs(relPath)
	if err != nil {
		return nil, err
	}
	return os.Open(abs)
}

// WriteFile replaces the file at relPath atomically: the content is written
// to a temporary file in the same directory and renamed over the target.
// An existing file keeps its permission bits.
func (m *OSFilesystemManager) WriteFile(relPath string, write func(w io.Writer) error) error {
	abs, err := m.abs(relPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(abs); err == nil {
		if info.IsDir() {
			return fmt.Errorf("cannot replace directory with file: %s", relPath)
		}
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".chrono-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, abs); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Remove deletes a working file. A missing file is not an error.
func (m *OSFilesystemManager) Remove(relPath string) error {
	abs, err := m.abs(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether a regular file is present at relPath.
func (m *OSFilesystemManager) Exists(relPath string) (bool, error) {
	abs, err := m.abs(relPath)
	if err != nil {
		return false, err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// abs maps a relative slash path onto the tree, refusing paths that would
// escape the root. Folded keys resolve to the name seen by the last Scan.
func (m *OSFilesystemManager) abs(relPath string) (string, error) {
	if m.foldCase {
		if disk, ok := m.onDisk[NormalizePath(relPath, true)]; ok {
			relPath = disk
		}
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes working tree: %q", relPath)
	}
	return filepath.Join(m.root, clean), nil
}

// NormalizePath converts a relative path into the form used as a tracked
// file key: cleaned, forward slashes, optionally lower-cased.
func NormalizePath(relPath string, foldCase bool) string {
	p := filepath.ToSlash(filepath.Clean(relPath))
	if foldCase {
		p = strings.ToLower(p)
	}
	return p
}

// Compile-time check that OSFilesystemManager implements chrono.FilesystemManager interface
var _ chrono.FilesystemManager = (*OSFilesystemManager)(nil)
