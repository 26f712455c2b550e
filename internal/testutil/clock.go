package testutil

import (
	"fmt"
	"sync"
	"time"

	"chrono-go/internal/chrono"
)

// CommitInterval is how far Tick moves a FixedClock: tests commit once per
// tick so every commit gets its own timestamp and safety snapshot name.
const CommitInterval = time.Minute

// StubClock is a chrono.Clock that only moves when told to.
type StubClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

var _ chrono.Clock = (*StubClock)(nil)

// NewStubClock creates a StubClock at t that ticks by step.
func NewStubClock(t time.Time, step time.Duration) *StubClock {
	return &StubClock{now: t.UTC(), step: step}
}

// FixedClock returns a StubClock at 2024-01-15 10:30:00 UTC ticking by
// CommitInterval.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), CommitInterval)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Tick moves the clock forward by its step and returns the new time.
func (c *StubClock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// SafetyName is the safety snapshot name a revert would take now with id.
func (c *StubClock) SafetyName(id string) string {
	return chrono.SafetySnapshotName(c.Now(), id)
}

// StubIDGenerator is a chrono.IDGenerator returning "id-1", "id-2", ...
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

var _ chrono.IDGenerator = (*StubIDGenerator)(nil)

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}
