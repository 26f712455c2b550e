package testutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"chrono-go/internal/chrono"
)

// MockFile represents a file in the mock working tree.
type MockFile struct {
	Content []byte
	// Unreadable makes Scan report the file as skipped and Open fail.
	Unreadable bool
}

// MockFilesystemManager is an in-memory working tree for testing.
// Paths are relative and slash-separated. Safe for concurrent use.
type MockFilesystemManager struct {
	mu    sync.Mutex
	root  string
	files map[string]*MockFile
}

// NewMockFilesystemManager creates a new empty mock working tree.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		root:  "/mock/tree",
		files: make(map[string]*MockFile),
	}
}

// AddFile adds or replaces a file in the mock tree.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &MockFile{Content: append([]byte(nil), content...)}
}

// AddUnreadableFile adds a file that cannot be read.
func (m *MockFilesystemManager) AddUnreadableFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &MockFile{Unreadable: true}
}

// DeleteFile removes a file from the mock tree.
func (m *MockFilesystemManager) DeleteFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// Content returns the content of a file and whether it exists.
func (m *MockFilesystemManager) Content(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return f.Content, true
}

// Paths returns every file path in the tree, sorted.
func (m *MockFilesystemManager) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPathsLocked()
}

func (m *MockFilesystemManager) Root() string {
	return m.root
}

func (m *MockFilesystemManager) Scan() (*chrono.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &chrono.ScanResult{Files: make(map[string]string)}
	for _, p := range m.sortedPathsLocked() {
		f := m.files[p]
		if f.Unreadable {
			result.Skipped = append(result.Skipped, chrono.SkippedFile{Path: p, Err: os.ErrPermission})
			continue
		}
		result.Files[p] = SHA256Hex(f.Content)
	}
	return result, nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	if f.Unreadable {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrPermission)
	}
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

// WriteFile replaces the file only if write succeeds.
func (m *MockFilesystemManager) WriteFile(path string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &MockFile{Content: buf.Bytes()}
	return nil
}

func (m *MockFilesystemManager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *MockFilesystemManager) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *MockFilesystemManager) sortedPathsLocked() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Compile-time check
var _ chrono.FilesystemManager = (*MockFilesystemManager)(nil)
