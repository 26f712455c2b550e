package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"chrono-go/internal/chrono"
	"chrono-go/internal/config"
	"chrono-go/internal/database"
	"chrono-go/internal/database/sqlc"
	"chrono-go/internal/encryption"
	"chrono-go/internal/fs"
	"chrono-go/internal/snapshot"
)

// MetadataName is the snapshot store item holding the latest database copy.
const MetadataName = "chrono.db"

// Options controls how the app reports progress.
type Options struct {
	// Console receives warnings, and every record at the configured level
	// when Verbose is set. Nil disables console logging.
	Console io.Writer
	Verbose bool
}

// ChronoApp is the application layer between the CLI and ChronoService.
// It constructs all dependencies from config, exposes high-level operations,
// and manages the database lifecycle on Close.
type ChronoApp struct {
	root      string
	cfg       *config.Config
	db        *database.SQLiteDatabase
	snapshots chrono.SnapshotStore
	fsmgr     chrono.FilesystemManager
	encryptor chrono.Encryptor
	service   *chrono.ChronoService
	op        *Operation
	logFile   *os.File
}

// NewChronoApp creates a fully wired ChronoApp for the working tree at root.
// cfg is the config as read from disk; relative paths are resolved against
// the repository directory. operation identifies the CLI command being run.
// The caller must call Close when done.
func NewChronoApp(root string, cfg *config.Config, operation string, opts Options) (*ChronoApp, error) {
	cfg = cfg.Resolve(filepath.Join(root, RepoDirName))

	fsmgr, err := newFilesystemManager(root, cfg.Filesystem)
	if err != nil {
		return nil, fmt.Errorf("creating filesystem manager: %w", err)
	}

	store, err := snapshot.NewStoreFromConfig(cfg.Snapshots)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}
	if err := store.ValidateSetup(); err != nil {
		return nil, fmt.Errorf("snapshot store not usable: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		return nil, fmt.Errorf("encryption keys missing for type %q", cfg.Encryption.Type)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if cfg.Database.Type == "memory" {
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating in-memory database: %w", err)
		}
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	level := ParseLevel(cfg.LogLevel)
	consoleLevel := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
		consoleLevel = slog.LevelDebug
	}
	opID := chrono.RealClock{}.Now().Format(chrono.TimestampLayout)
	logger, logFile, err := newLogger(cfg.LogDir, opID, level, opts.Console, consoleLevel)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := chrono.NewChronoService(db, store, fsmgr, enc, &slogAdapter{l: logger}, chrono.RealClock{}, chrono.UUIDGenerator{}, chrono.Options{
		StrictBackup: cfg.Commit.StrictBackup,
		SafetyKeep:   cfg.Safety.Keep,
	})

	return &ChronoApp{
		root:      root,
		cfg:       cfg,
		db:        db,
		snapshots: store,
		fsmgr:     fsmgr,
		encryptor: enc,
		service:   svc,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

// newFilesystemManager builds the scanner for root. The repository
// directory is always excluded, even when the config replaces the default
// ignore segments.
func newFilesystemManager(root string, cfg config.FilesystemConfig) (*fs.OSFilesystemManager, error) {
	if len(cfg.IgnoreSegments) > 0 && !slices.Contains(cfg.IgnoreSegments, RepoDirName) {
		cfg.IgnoreSegments = append(slices.Clone(cfg.IgnoreSegments), RepoDirName)
	}

	patterns, err := fs.ParseIgnoreFile(filepath.Join(root, fs.IgnoreFileName))
	if err != nil {
		return nil, err
	}
	return fs.NewOSFilesystemManager(root, fs.NewIgnoreRules(cfg, patterns), cfg.CaseInsensitive)
}

// Root returns the working tree root.
func (a *ChronoApp) Root() string {
	return a.root
}

// Config returns the resolved configuration.
func (a *ChronoApp) Config() *config.Config {
	return a.cfg
}

// NeedsPassphrase reports whether Revert must be given the passphrase.
func (a *ChronoApp) NeedsPassphrase() bool {
	return encryption.RequiresPassphrase(a.cfg.Encryption)
}

// persistOperation saves the operation to the journal, giving it an
// auto-increment ID. This should only be called for mutating commands.
func (a *ChronoApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateOperation(a.op.Operation, parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Status compares the working tree with the last commit.
func (a *ChronoApp) Status() (*chrono.ChangeSet, error) {
	return a.service.Status()
}

// Commit records the working tree. A commit that finds nothing to record is
// journaled as a success.
func (a *ChronoApp) Commit(message string) (*chrono.CommitResult, error) {
	if err := a.persistOperation(strconv.Quote(message)); err != nil {
		return nil, err
	}
	result, err := a.service.Commit(message)
	if errors.Is(err, chrono.ErrNoChanges) {
		return nil, err
	}
	return result, a.op.Fail(err)
}

// Revert restores the changes of commitID. passphrase is only used when the
// repository encrypts bodies with age.
func (a *ChronoApp) Revert(commitID int64, passphrase string) (*chrono.RevertResult, error) {
	if err := a.persistOperation(strconv.FormatInt(commitID, 10)); err != nil {
		return nil, err
	}
	ctx, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, a.op.Fail(fmt.Errorf("unlocking key: %w", err))
	}
	result, err := a.service.Revert(commitID, ctx)
	return result, a.op.Fail(err)
}

// Log returns the most recent commits.
func (a *ChronoApp) Log(limit int) ([]*chrono.LogEntry, error) {
	return a.service.Log(limit)
}

// Show returns one commit with its changes.
func (a *ChronoApp) Show(commitID int64) (*chrono.CommitDetails, error) {
	return a.service.ShowCommit(commitID)
}

// Files returns every tracked file.
func (a *ChronoApp) Files() ([]*sqlc.TrackedFile, error) {
	return a.service.ListFiles()
}

// Stats returns repository statistics.
func (a *ChronoApp) Stats() (*chrono.Stats, error) {
	return a.service.Stats()
}

// Cleanup compacts the database and prunes the snapshot store.
func (a *ChronoApp) Cleanup() (*chrono.CleanupResult, error) {
	if err := a.persistOperation(""); err != nil {
		return nil, err
	}
	result, err := a.service.Cleanup()
	return result, a.op.Fail(err)
}

// Reset deletes all history. It is journaled only when confirmed.
func (a *ChronoApp) Reset(confirm bool) error {
	if !confirm {
		return chrono.ErrResetNotConfirmed
	}
	if err := a.persistOperation(""); err != nil {
		return err
	}
	return a.op.Fail(a.service.Reset(true))
}

// Amend replaces a commit message.
func (a *ChronoApp) Amend(commitID int64, message string) error {
	if err := a.persistOperation(fmt.Sprintf("%d %s", commitID, strconv.Quote(message))); err != nil {
		return err
	}
	return a.op.Fail(a.service.RenameCommit(commitID, message))
}

// History returns the most recent journaled operations.
func (a *ChronoApp) History(limit int) ([]*sqlc.Operation, error) {
	return a.service.GetHistory(limit)
}

// Close finalizes the operation and closes all resources.
// For persisted operations: finishes the journal record, copies the database
// and stores the copy in the snapshot store.
// For non-persisted operations: just closes the database.
func (a *ChronoApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}

		tmpPath, err := a.backupDatabase()
		if err != nil && firstErr == nil {
			firstErr = err
		}

		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}

		if tmpPath != "" {
			if err := a.storeMetadata(tmpPath); err != nil && firstErr == nil {
				firstErr = err
			}
			os.Remove(tmpPath)
		}
	} else {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// backupDatabase copies the database into a temp file. It returns "" when
// no copy was made.
func (a *ChronoApp) backupDatabase() (string, error) {
	tmpFile, err := os.CreateTemp("", "chrono-db-backup-*.db")
	if err != nil {
		return "", fmt.Errorf("creating temp file for db backup: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := a.db.BackupTo(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

func (a *ChronoApp) storeMetadata(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening db backup: %w", err)
	}
	defer f.Close()

	if err := a.snapshots.PutMetadata(MetadataName, f); err != nil {
		return fmt.Errorf("storing db backup: %w", err)
	}
	return nil
}
