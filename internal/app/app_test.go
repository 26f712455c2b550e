package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"chrono-go/internal/chrono"
	"chrono-go/internal/config"
	"chrono-go/internal/encryption"
)

// testRepo is an initialized repository in a temp directory.
type testRepo struct {
	root       string
	configPath string
}

func newTestRepo(t *testing.T, cfg *config.Config, passphrase string) *testRepo {
	t.Helper()
	root := t.TempDir()
	configPath := filepath.Join(root, RepoDirName, ConfigFileName)
	if err := Initialize(root, configPath, cfg, passphrase); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return &testRepo{root: root, configPath: configPath}
}

func (r *testRepo) open(t *testing.T, operation string) *ChronoApp {
	t.Helper()
	cfg, err := config.ReadFromFile(r.configPath)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	a, err := NewChronoApp(r.root, cfg, operation, Options{})
	if err != nil {
		t.Fatalf("NewChronoApp() error = %v", err)
	}
	return a
}

// run opens the app, calls fn and closes it, like one CLI invocation.
func (r *testRepo) run(t *testing.T, operation string, fn func(a *ChronoApp)) {
	t.Helper()
	a := r.open(t, operation)
	fn(a)
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func (r *testRepo) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(r.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (r *testRepo) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", rel, err)
	}
	return string(data)
}

func (r *testRepo) commit(t *testing.T, message string) int64 {
	t.Helper()
	var id int64
	r.run(t, "commit", func(a *ChronoApp) {
		result, err := a.Commit(message)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		id = result.Commit.ID
	})
	return id
}

func TestInitialize(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")

	for _, rel := range []string{
		ConfigFileName,
		"chrono.db",
		filepath.Join("snapshots", "commits"),
		filepath.Join("snapshots", "safety"),
		filepath.Join("snapshots", "metadata"),
	} {
		if _, err := os.Stat(filepath.Join(repo.root, RepoDirName, rel)); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}

	root, err := FindRoot(repo.root)
	if err != nil {
		t.Fatalf("FindRoot() error = %v", err)
	}
	if root != repo.root {
		t.Errorf("FindRoot() = %q, want %q", root, repo.root)
	}
}

func TestInitialize_AlreadyInitialized(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")

	err := Initialize(repo.root, repo.configPath, config.NewConfig(), "")
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Initialize() error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitialize_AgeRequiresPassphrase(t *testing.T) {
	cfg := config.NewConfig()
	cfg.EnableAge()

	root := t.TempDir()
	err := Initialize(root, filepath.Join(root, RepoDirName, ConfigFileName), cfg, "")
	if err == nil {
		t.Fatal("Initialize() expected error without a passphrase")
	}
	if _, statErr := os.Stat(filepath.Join(root, RepoDirName, ConfigFileName)); statErr == nil {
		t.Error("config written despite failed init")
	}
}

func TestChronoApp_CommitAndRevert(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")
	repo.write(t, "docs/b.txt", "b1")

	first := repo.commit(t, "first")

	repo.write(t, "a.txt", "v2")
	second := repo.commit(t, "second")
	if second <= first {
		t.Fatalf("commit ids not increasing: %d then %d", first, second)
	}

	repo.run(t, "revert", func(a *ChronoApp) {
		if a.NeedsPassphrase() {
			t.Error("NeedsPassphrase() = true for unencrypted repo")
		}
		result, err := a.Revert(first, "")
		if err != nil {
			t.Fatalf("Revert() error = %v", err)
		}
		if result.SafetySnapshot == "" {
			t.Error("Revert() took no safety snapshot")
		}
	})

	if got := repo.read(t, "a.txt"); got != "v1" {
		t.Errorf("a.txt = %q, want v1", got)
	}
	if got := repo.read(t, "docs/b.txt"); got != "b1" {
		t.Errorf("docs/b.txt = %q, want b1", got)
	}

	safety, err := os.ReadDir(filepath.Join(repo.root, RepoDirName, "snapshots", "safety"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(safety) != 1 {
		t.Errorf("safety snapshots = %d, want 1", len(safety))
	}
}

func TestChronoApp_StatusIgnoresRepoDir(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")

	repo.run(t, "status", func(a *ChronoApp) {
		changes, err := a.Status()
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if len(changes.Added) != 1 {
			t.Errorf("Added = %v, want only a.txt", changes.Added)
		}
		for path := range changes.Added {
			if strings.HasPrefix(path, RepoDirName) {
				t.Errorf("repository file %s reported as added", path)
			}
		}
	})
}

func TestChronoApp_ReadOnlyCommands(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")
	repo.write(t, "b.txt", "b1")
	id := repo.commit(t, "first")

	repo.run(t, "log", func(a *ChronoApp) {
		entries, err := a.Log(0)
		if err != nil {
			t.Fatalf("Log() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Added != 2 {
			t.Fatalf("Log() = %+v, want one commit adding 2 files", entries)
		}

		details, err := a.Show(id)
		if err != nil {
			t.Fatalf("Show() error = %v", err)
		}
		if details.Commit.Message != "first" || len(details.Changes) != 2 {
			t.Errorf("Show() = %+v", details)
		}

		if _, err := a.Show(id + 100); !errors.Is(err, chrono.ErrCommitNotFound) {
			t.Errorf("Show(unknown) error = %v, want ErrCommitNotFound", err)
		}

		files, err := a.Files()
		if err != nil {
			t.Fatalf("Files() error = %v", err)
		}
		if len(files) != 2 {
			t.Errorf("Files() returned %d files, want 2", len(files))
		}

		stats, err := a.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.Commits != 1 || stats.TrackedFiles != 2 {
			t.Errorf("Stats() = %+v", stats)
		}
	})

	repo.run(t, "history", func(a *ChronoApp) {
		ops, err := a.History(0)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(ops) != 1 || ops[0].Operation != "commit" {
			t.Errorf("History() = %+v, want only the commit", ops)
		}
	})
}

func TestChronoApp_Journal(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")
	id := repo.commit(t, "first")

	repo.run(t, "commit", func(a *ChronoApp) {
		if _, err := a.Commit("again"); !errors.Is(err, chrono.ErrNoChanges) {
			t.Fatalf("Commit() error = %v, want ErrNoChanges", err)
		}
	})
	repo.run(t, "commit", func(a *ChronoApp) {
		if _, err := a.Commit("   "); !errors.Is(err, chrono.ErrEmptyMessage) {
			t.Fatalf("Commit() error = %v, want ErrEmptyMessage", err)
		}
	})
	repo.run(t, "amend", func(a *ChronoApp) {
		if err := a.Amend(id, "renamed"); err != nil {
			t.Fatalf("Amend() error = %v", err)
		}
	})
	repo.run(t, "reset", func(a *ChronoApp) {
		if err := a.Reset(false); !errors.Is(err, chrono.ErrResetNotConfirmed) {
			t.Fatalf("Reset(false) error = %v, want ErrResetNotConfirmed", err)
		}
	})

	var ops []string
	repo.run(t, "history", func(a *ChronoApp) {
		history, err := a.History(0)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		for _, op := range history {
			ops = append(ops, op.Operation+":"+op.Status)
			if !op.FinishedAt.Valid {
				t.Errorf("operation %d not finished", op.ID)
			}
		}

		details, err := a.Show(id)
		if err != nil {
			t.Fatalf("Show() error = %v", err)
		}
		if details.Commit.Message != "renamed" {
			t.Errorf("message = %q, want renamed", details.Commit.Message)
		}
	})

	want := []string{"amend:success", "commit:error", "commit:success", "commit:success"}
	if strings.Join(ops, ",") != strings.Join(want, ",") {
		t.Errorf("History() = %v, want %v", ops, want)
	}
}

func TestChronoApp_ResetKeepsJournal(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")
	repo.commit(t, "first")

	repo.run(t, "reset", func(a *ChronoApp) {
		if err := a.Reset(true); err != nil {
			t.Fatalf("Reset() error = %v", err)
		}
	})

	repo.run(t, "log", func(a *ChronoApp) {
		entries, err := a.Log(0)
		if err != nil {
			t.Fatalf("Log() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Log() after reset = %d entries, want 0", len(entries))
		}
		ops, err := a.History(0)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(ops) != 2 || ops[0].Operation != "reset" {
			t.Errorf("History() = %+v, want reset then commit", ops)
		}
	})

	if got := repo.read(t, "a.txt"); got != "v1" {
		t.Errorf("a.txt = %q after reset, want v1", got)
	}
}

func TestChronoApp_Cleanup(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")
	first := repo.commit(t, "first")

	repo.run(t, "cleanup", func(a *ChronoApp) {
		result, err := a.Cleanup()
		if err != nil {
			t.Fatalf("Cleanup() error = %v", err)
		}
		if len(result.OrphanedBodySets) != 0 || len(result.PrunedSafety) != 0 {
			t.Errorf("Cleanup() removed data from a clean repo: %+v", result)
		}
	})

	entries, err := os.ReadDir(filepath.Join(repo.root, RepoDirName, "snapshots", "commits"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != strconv.FormatInt(first, 10) {
		t.Errorf("body sets after cleanup = %v", entries)
	}
}

func TestChronoApp_CloseStoresDatabaseCopy(t *testing.T) {
	repo := newTestRepo(t, config.NewConfig(), "")
	repo.write(t, "a.txt", "v1")

	metadata := filepath.Join(repo.root, RepoDirName, "snapshots", "metadata", MetadataName)

	repo.run(t, "status", func(a *ChronoApp) {
		if _, err := a.Status(); err != nil {
			t.Fatalf("Status() error = %v", err)
		}
	})
	if _, err := os.Stat(metadata); err == nil {
		t.Fatal("read-only command stored a database copy")
	}

	repo.commit(t, "first")
	info, err := os.Stat(metadata)
	if err != nil {
		t.Fatalf("database copy missing after commit: %v", err)
	}
	if info.Size() == 0 {
		t.Error("database copy is empty")
	}

	logData, err := os.ReadFile(filepath.Join(repo.root, RepoDirName, "log", LogFileName))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(logData), "INFO") {
		t.Errorf("log has no info records: %q", logData)
	}
}

func TestChronoApp_MemoryDatabase(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	repo := newTestRepo(t, cfg, "")
	repo.write(t, "a.txt", "v1")

	repo.run(t, "commit", func(a *ChronoApp) {
		result, err := a.Commit("first")
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if result.Commit.ID != 1 {
			t.Errorf("commit id = %d, want 1", result.Commit.ID)
		}
	})
}

func TestChronoApp_AgeEncryption(t *testing.T) {
	cfg := config.NewConfig()
	cfg.EnableAge()
	repo := newTestRepo(t, cfg, "correct horse")

	repo.write(t, "a.txt", "secret v1")
	first := repo.commit(t, "first")

	body, err := os.ReadFile(filepath.Join(repo.root, RepoDirName, "snapshots", "commits", "1", "a.txt"))
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if strings.Contains(string(body), "secret v1") {
		t.Error("body stored in plaintext")
	}

	repo.write(t, "a.txt", "secret v2")
	repo.commit(t, "second")

	repo.run(t, "revert", func(a *ChronoApp) {
		if !a.NeedsPassphrase() {
			t.Error("NeedsPassphrase() = false for age repo")
		}
		if _, err := a.Revert(first, "wrong"); !errors.Is(err, encryption.ErrWrongPassphrase) {
			t.Errorf("Revert() error = %v, want ErrWrongPassphrase", err)
		}
	})
	if got := repo.read(t, "a.txt"); got != "secret v2" {
		t.Fatalf("a.txt changed by failed revert: %q", got)
	}

	repo.run(t, "revert", func(a *ChronoApp) {
		if _, err := a.Revert(first, "correct horse"); err != nil {
			t.Fatalf("Revert() error = %v", err)
		}
	})
	if got := repo.read(t, "a.txt"); got != "secret v1" {
		t.Errorf("a.txt = %q, want secret v1", got)
	}
}
