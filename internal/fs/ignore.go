package fs

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"chrono-go/internal/config"
)

// IgnoreFileName is the per-repository ignore file read from the root.
const IgnoreFileName = ".chronoignore"

// Built-in rules used when the config leaves a list empty.
var (
	DefaultIgnoreSegments   = []string{".chrono", ".git", "__pycache__", ".DS_Store", ".vscode", ".idea", "node_modules", ".env"}
	DefaultIgnoreExtensions = []string{".pyc", ".pyo", ".pyd"}
	DefaultAllowHidden      = []string{".gitignore", IgnoreFileName}
)

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against basename only
}

// IgnoreMatcher checks file paths against a set of glob patterns.
// Patterns without '/' match against the file's basename only.
// Patterns with '/' match against the full relative path from the root.
// A trailing '/' is dropped, so "build/" matches a directory named build.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		raw = strings.TrimSuffix(raw, "/")
		if raw == "" {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the given relative path should be ignored.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if len(m.patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relativePath)
	basename := path.Base(normalized)

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = path.Match(p.pattern, normalized)
		} else {
			matched, err = path.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern, skip rather than crash.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns the raw pattern strings.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}

// IgnoreRules decides which working tree paths the scanner skips.
// A path is ignored when any of its segments is an ignored name, when its
// extension is ignored, when its file name is hidden and not allow-listed,
// or when it matches a glob pattern.
type IgnoreRules struct {
	segments    map[string]bool
	extensions  map[string]bool
	allowHidden map[string]bool
	patterns    *IgnoreMatcher
}

// NewIgnoreRules builds rules from config, falling back to the built-in lists
// for empty fields. extraPatterns are appended to cfg.Ignore.
func NewIgnoreRules(cfg config.FilesystemConfig, extraPatterns []string) *IgnoreRules {
	patterns := append(append([]string{}, cfg.Ignore...), extraPatterns...)
	return &IgnoreRules{
		segments:    toSet(orDefault(cfg.IgnoreSegments, DefaultIgnoreSegments), false),
		extensions:  toSet(orDefault(cfg.IgnoreExtensions, DefaultIgnoreExtensions), true),
		allowHidden: toSet(orDefault(cfg.AllowHidden, DefaultAllowHidden), false),
		patterns:    NewIgnoreMatcher(patterns),
	}
}

// Ignored reports whether a file at relPath should be skipped.
func (r *IgnoreRules) Ignored(relPath string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, segment := range strings.Split(normalized, "/") {
		if r.segments[segment] {
			return true
		}
	}

	name := path.Base(normalized)
	if r.extensions[strings.ToLower(path.Ext(name))] {
		return true
	}
	if strings.HasPrefix(name, ".") && !r.allowHidden[name] {
		return true
	}
	return r.patterns.Match(normalized)
}

// SkipDir reports whether the directory at relPath can be pruned from the walk.
func (r *IgnoreRules) SkipDir(relPath string) bool {
	normalized := filepath.ToSlash(relPath)
	if r.segments[path.Base(normalized)] {
		return true
	}
	return r.patterns.Match(normalized)
}

func orDefault(values, defaults []string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}

func toSet(values []string, lower bool) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if lower {
			v = strings.ToLower(v)
		}
		set[v] = true
	}
	return set
}
