package chrono

import "io"

// FilesystemManager provides access to the working tree.
// All paths are relative to the root and use forward slashes.
type FilesystemManager interface {
	// Root returns the absolute path of the working tree.
	Root() string

	// Scan walks the working tree and digests every file that is not ignored.
	// Files that cannot be read are reported in ScanResult.Skipped rather
	// than failing the scan.
	Scan() (*ScanResult, error)

	// Open opens a working file for reading.
	Open(relPath string) (io.ReadCloser, error)

	// WriteFile atomically replaces a working file with whatever write
	// produces, creating parent directories as needed.
	WriteFile(relPath string, write func(w io.Writer) error) error

	// Remove deletes a working file. A missing file is not an error.
	Remove(relPath string) error

	// Exists reports whether a working file is present.
	Exists(relPath string) (bool, error)
}

// ScanResult is the outcome of a single working tree scan.
type ScanResult struct {
	// Files maps each relative path to its content digest.
	Files map[string]string

	// Skipped lists files that were found but could not be digested.
	Skipped []SkippedFile
}

// SkippedFile records a file the scanner could not read.
type SkippedFile struct {
	Path string
	Err  error
}
