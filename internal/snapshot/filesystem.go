package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"chrono-go/internal/chrono"
)

// FileSystemStore is a filesystem-based implementation of the SnapshotStore
// interface. It lays out bodies and safety snapshots as plain files:
//
//	<root>/
//	  commits/
//	    <commitID>/<relPath>   (body as of that commit)
//	  safety/
//	    <name>/<relPath>       (full-tree copy taken before a revert)
//	  metadata/
//	    <name>                 (database copies and other items)
type FileSystemStore struct {
	root        string
	commitsDir  string
	safetyDir   string
	metadataDir string
}

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	s := &FileSystemStore{
		root:        root,
		commitsDir:  filepath.Join(root, "commits"),
		safetyDir:   filepath.Join(root, "safety"),
		metadataDir: filepath.Join(root, "metadata"),
	}
	if err := s.createDirs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSystemStore) createDirs() error {
	for _, dir := range []string{s.commitsDir, s.safetyDir, s.metadataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	return nil
}

// PutBody stores the body for relPath under commitID.
func (s *FileSystemStore) PutBody(commitID int64, relPath string, write func(w io.Writer) error) (int64, error) {
	dest, err := joinRel(s.commitDir(commitID), relPath)
	if err != nil {
		return 0, err
	}
	return writeAtomic(dest, write)
}

// GetBody writes the stored body for relPath under commitID to w.
func (s *FileSystemStore) GetBody(commitID int64, relPath string, w io.Writer) error {
	src, err := joinRel(s.commitDir(commitID), relPath)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("commit %d, %s: %w", commitID, relPath, chrono.ErrBodyNotFound)
		}
		return fmt.Errorf("failed to open body: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	return nil
}

// HasBody reports whether a body is stored for commitID and relPath.
func (s *FileSystemStore) HasBody(commitID int64, relPath string) (bool, error) {
	p, err := joinRel(s.commitDir(commitID), relPath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DeleteCommit removes the body set of commitID.
func (s *FileSystemStore) DeleteCommit(commitID int64) error {
	if err := os.RemoveAll(s.commitDir(commitID)); err != nil {
		return fmt.Errorf("removing bodies of commit %d: %w", commitID, err)
	}
	return nil
}

// ListCommits returns the ids of commits with a body directory, ascending.
// Entries that are not numeric are ignored.
func (s *FileSystemStore) ListCommits() ([]int64, error) {
	entries, err := os.ReadDir(s.commitsDir)
	if err != nil {
		return nil, fmt.Errorf("reading commits directory: %w", err)
	}

	var ids []int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id, err := strconv.ParseInt(e.Name(), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// CreateSafety creates the directory for a new safety snapshot.
func (s *FileSystemStore) CreateSafety(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Mkdir(filepath.Join(s.safetyDir, name), 0755); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("safety snapshot %q already exists", name)
		}
		return fmt.Errorf("creating safety snapshot: %w", err)
	}
	return nil
}

// PutSafety stores one file of the named safety snapshot.
func (s *FileSystemStore) PutSafety(name string, relPath string, write func(w io.Writer) error) (int64, error) {
	if err := validName(name); err != nil {
		return 0, err
	}
	dir := filepath.Join(s.safetyDir, name)
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("safety snapshot %q: %w", name, err)
	}
	dest, err := joinRel(dir, relPath)
	if err != nil {
		return 0, err
	}
	return writeAtomic(dest, write)
}

// ListSafety returns all safety snapshots ordered by name.
func (s *FileSystemStore) ListSafety() ([]chrono.SafetySnapshot, error) {
	entries, err := os.ReadDir(s.safetyDir)
	if err != nil {
		return nil, fmt.Errorf("reading safety directory: %w", err)
	}

	var snapshots []chrono.SafetySnapshot
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, bytes, err := dirUsage(filepath.Join(s.safetyDir, e.Name()))
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, chrono.SafetySnapshot{Name: e.Name(), Files: files, Bytes: bytes})
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Name < snapshots[j].Name })
	return snapshots, nil
}

// DeleteSafety removes the named safety snapshot.
func (s *FileSystemStore) DeleteSafety(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.safetyDir, name)); err != nil {
		return fmt.Errorf("removing safety snapshot %q: %w", name, err)
	}
	return nil
}

// PutMetadata stores a named metadata item.
func (s *FileSystemStore) PutMetadata(name string, r io.Reader) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := writeAtomic(filepath.Join(s.metadataDir, name), func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
	return err
}

// Usage reports bytes held under commits/ and safety/.
func (s *FileSystemStore) Usage() (*chrono.StoreUsage, error) {
	_, bodyBytes, err := dirUsage(s.commitsDir)
	if err != nil {
		return nil, err
	}
	safety, err := s.ListSafety()
	if err != nil {
		return nil, err
	}

	usage := &chrono.StoreUsage{BodyBytes: bodyBytes, SafetySnapshots: len(safety)}
	for _, snap := range safety {
		usage.SafetyBytes += snap.Bytes
	}
	return usage, nil
}

// Reset removes everything in the store and recreates the empty layout.
func (s *FileSystemStore) Reset() error {
	for _, dir := range []string{s.commitsDir, s.safetyDir, s.metadataDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clearing %s: %w", dir, err)
		}
	}
	return s.createDirs()
}

// ValidateSetup verifies that the store directories are accessible.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("snapshot root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot root is not a directory: %s", s.root)
	}

	for _, dir := range []string{s.commitsDir, s.safetyDir, s.metadataDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("snapshot directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("snapshot path is not a directory: %s", dir)
		}
	}
	return nil
}

func (s *FileSystemStore) commitDir(commitID int64) string {
	return filepath.Join(s.commitsDir, strconv.FormatInt(commitID, 10))
}

// countingWriter counts bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeAtomic writes to a temp file in the destination directory and renames
// it into place once write succeeds.
func writeAtomic(destPath string, write func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	cw := &countingWriter{w: tmpFile}
	if err := write(cw); err != nil {
		tmpFile.Close()
		return 0, err
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return cw.n, nil
}

// dirUsage counts regular files and their bytes below dir.
func dirUsage(dir string) (int, int64, error) {
	var files int
	var total int64
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files++
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("measuring %s: %w", dir, err)
	}
	return files, total, nil
}

// joinRel joins a slash-separated relative path onto base, refusing paths
// that would leave base.
func joinRel(base, relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid snapshot path: %q", relPath)
	}
	return filepath.Join(base, clean), nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid snapshot name: %q", name)
	}
	return nil
}

// Compile-time check that FileSystemStore implements chrono.SnapshotStore interface
var _ chrono.SnapshotStore = (*FileSystemStore)(nil)
