package chrono

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the compact UTC form used in safety snapshot names and
// operation ids.
const TimestampLayout = "20060102T150405Z"

// safetyIDLen is how much of a generated id a safety snapshot name keeps.
const safetyIDLen = 8

// Clock supplies commit and snapshot times. Tests substitute a stub so
// commit timestamps and safety snapshot names are predictable.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator supplies the unique part of safety snapshot names.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// SafetySnapshotName names a safety snapshot taken at t. The timestamp keeps
// names in creation order; the id prefix separates snapshots taken within the
// same second.
func SafetySnapshotName(t time.Time, id string) string {
	if len(id) > safetyIDLen {
		id = id[:safetyIDLen]
	}
	return t.UTC().Format(TimestampLayout) + "-" + id
}
