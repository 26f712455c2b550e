package chrono_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chrono-go/internal/chrono"
	"chrono-go/internal/database"
	"chrono-go/internal/encryption"
	"chrono-go/internal/snapshot"
	"chrono-go/internal/testutil"
)

// harness wires a ChronoService to in-memory collaborators.
type harness struct {
	svc    *chrono.ChronoService
	tree   *testutil.MockFilesystemManager
	store  *snapshot.MemoryStore
	db     *database.SQLiteDatabase
	clock  *testutil.StubClock
	logger *recordingLogger
}

func newHarness(t *testing.T, opts chrono.Options) *harness {
	t.Helper()
	h := &harness{
		tree:   testutil.NewMockFilesystemManager(),
		store:  testutil.NewTestSnapshotStore(),
		db:     testutil.NewTestDatabase(t),
		clock:  testutil.FixedClock(),
		logger: &recordingLogger{},
	}
	h.svc = chrono.NewChronoService(h.db, h.store, h.tree, testutil.NewTestEncryptor(), h.logger, h.clock, testutil.NewStubIDGenerator(), opts)
	return h
}

// commit records the tree and advances the clock so commits get distinct times.
func (h *harness) commit(t *testing.T, message string) *chrono.CommitResult {
	t.Helper()
	result, err := h.svc.Commit(message)
	require.NoError(t, err, "Commit(%q)", message)
	h.clock.Tick()
	return result
}

func (h *harness) revert(t *testing.T, id int64) *chrono.RevertResult {
	t.Helper()
	result, err := h.svc.Revert(id, &encryption.TestDecryptionContext{})
	require.NoError(t, err, "Revert(%d)", id)
	return result
}

func (h *harness) content(t *testing.T, path string) string {
	t.Helper()
	data, ok := h.tree.Content(path)
	require.True(t, ok, "%s missing from tree", path)
	return string(data)
}

// safetyContent returns the plaintext of one file in a safety snapshot.
func (h *harness) safetyContent(t *testing.T, name, path string) string {
	t.Helper()
	data, ok := h.store.SafetyFile(name, path)
	require.True(t, ok, "%s missing from safety snapshot %s", path, name)
	var out bytes.Buffer
	require.NoError(t, (&encryption.TestDecryptionContext{}).Decrypt(bytes.NewReader(data), &out))
	return out.String()
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger keeps every message so tests can assert on warnings.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

// warnings returns "msg path" for every warning that carried a path.
func (l *recordingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.level != "WARN" {
			continue
		}
		path := ""
		for i := 0; i+1 < len(e.args); i += 2 {
			if e.args[i] == "path" {
				path = fmt.Sprint(e.args[i+1])
			}
		}
		out = append(out, e.msg+" "+path)
	}
	return out
}
