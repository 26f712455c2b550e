package chrono

import "slices"

// ChangeStatus classifies how a path differs from the tracked state.
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "added"
	StatusModified ChangeStatus = "modified"
	StatusDeleted  ChangeStatus = "deleted"
)

// Valid reports whether s is one of the three known statuses.
func (s ChangeStatus) Valid() bool {
	switch s {
	case StatusAdded, StatusModified, StatusDeleted:
		return true
	}
	return false
}

// FileChange is one entry of a change set. For deleted files Digest is the
// last tracked digest.
type FileChange struct {
	Path   string
	Digest string
	Status ChangeStatus
}

// ChangeSet partitions the difference between the working tree and the
// tracked state. Each map is path -> digest.
type ChangeSet struct {
	Added    map[string]string
	Modified map[string]string
	Deleted  map[string]string
}

// Detect compares the current scan with the tracked mapping.
// A path is added if only current has it, modified if both have it with
// different digests, and deleted if only tracked has it.
func Detect(current, tracked map[string]string) *ChangeSet {
	cs := &ChangeSet{
		Added:    make(map[string]string),
		Modified: make(map[string]string),
		Deleted:  make(map[string]string),
	}

	for path, digest := range current {
		old, ok := tracked[path]
		switch {
		case !ok:
			cs.Added[path] = digest
		case old != digest:
			cs.Modified[path] = digest
		}
	}
	for path, digest := range tracked {
		if _, ok := current[path]; !ok {
			cs.Deleted[path] = digest
		}
	}

	return cs
}

// HasChanges reports whether any of the three sets is non-empty.
func (c *ChangeSet) HasChanges() bool {
	return c.Total() > 0
}

// Total returns the number of changed paths.
func (c *ChangeSet) Total() int {
	return len(c.Added) + len(c.Modified) + len(c.Deleted)
}

// Changes flattens the set into added, modified, then deleted entries, each
// group ordered by path.
func (c *ChangeSet) Changes() []FileChange {
	changes := make([]FileChange, 0, c.Total())
	changes = appendSorted(changes, c.Added, StatusAdded)
	changes = appendSorted(changes, c.Modified, StatusModified)
	changes = appendSorted(changes, c.Deleted, StatusDeleted)
	return changes
}

func appendSorted(dst []FileChange, set map[string]string, status ChangeStatus) []FileChange {
	for _, path := range sortedKeys(set) {
		dst = append(dst, FileChange{Path: path, Digest: set[path], Status: status})
	}
	return dst
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
