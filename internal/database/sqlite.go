package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"chrono-go/internal/chrono"
	"chrono-go/internal/database/migrations"
	"chrono-go/internal/database/sqlc"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
	}
}

// OpenConnection opens and configures a SQLite database connection.
// Foreign keys and the busy timeout are set through the DSN so that every
// connection the pool opens gets them. The pool is limited to one
// connection: an in-memory database only exists on the connection that
// created it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connectionDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// connectionDSN appends the go-sqlite3 connection parameters to path.
// SQLite's default for foreign keys is OFF for backward compatibility.
func connectionDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// Commit operations

// RecordCommit writes a commit, its change records and the matching tracked
// file updates in one transaction. backup runs after every row is written and
// before the transaction commits, so a failing backup leaves no trace.
// backup must not use the database: the only connection is held by the
// transaction.
func (s *SQLiteDatabase) RecordCommit(message string, createdAt time.Time, changes []chrono.FileChange, backup func(commit *sqlc.Commit) error) (*sqlc.Commit, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	commit, err := qtx.InsertCommit(ctx, sqlc.InsertCommitParams{
		Message:   message,
		CreatedAt: createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting commit: %w", err)
	}

	for _, change := range changes {
		file, err := applyChange(ctx, qtx, change)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", change.Status, change.Path, err)
		}

		var digest sql.NullString
		if change.Status != chrono.StatusDeleted {
			digest = sql.NullString{String: change.Digest, Valid: true}
		}
		_, err = qtx.InsertChangeRecord(ctx, sqlc.InsertChangeRecordParams{
			CommitID:  commit.ID,
			FileID:    file.ID,
			Status:    string(change.Status),
			Digest:    digest,
			CreatedAt: createdAt,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting change record for %s: %w", change.Path, err)
		}
	}

	if backup != nil {
		if err := backup(&commit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &commit, nil
}

// applyChange updates the tracked file row for one change and returns it.
func applyChange(ctx context.Context, qtx *sqlc.Queries, change chrono.FileChange) (sqlc.TrackedFile, error) {
	switch change.Status {
	case chrono.StatusAdded:
		return qtx.UpsertTrackedFile(ctx, sqlc.UpsertTrackedFileParams{
			Path:   change.Path,
			Digest: change.Digest,
		})
	case chrono.StatusModified:
		return qtx.UpdateTrackedFileDigest(ctx, sqlc.UpdateTrackedFileDigestParams{
			Digest: change.Digest,
			Path:   change.Path,
		})
	case chrono.StatusDeleted:
		return qtx.MarkTrackedFileDeleted(ctx, change.Path)
	default:
		return sqlc.TrackedFile{}, fmt.Errorf("unknown change status %q", change.Status)
	}
}

func (s *SQLiteDatabase) FindCommitByID(id int64) (*sqlc.Commit, error) {
	commit, err := s.queries.GetCommitByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding commit by id: %w", err)
	}
	return &commit, nil
}

func (s *SQLiteDatabase) ListCommits(limit int) ([]*sqlc.Commit, error) {
	ctx := context.Background()

	var commits []sqlc.Commit
	var err error
	if limit > 0 {
		commits, err = s.queries.ListCommitsLimit(ctx, int64(limit))
	} else {
		commits, err = s.queries.ListCommits(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	return toPointers(commits), nil
}

func (s *SQLiteDatabase) ListCommitIDs() ([]int64, error) {
	ids, err := s.queries.ListCommitIDs(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing commit ids: %w", err)
	}
	return ids, nil
}

func (s *SQLiteDatabase) RenameCommit(id int64, message string) (bool, error) {
	n, err := s.queries.UpdateCommitMessage(context.Background(), sqlc.UpdateCommitMessageParams{
		Message: message,
		ID:      id,
	})
	if err != nil {
		return false, fmt.Errorf("updating commit message: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDatabase) CountCommits() (int64, error) {
	n, err := s.queries.CountCommits(context.Background())
	if err != nil {
		return 0, fmt.Errorf("counting commits: %w", err)
	}
	return n, nil
}

// Tracked file operations

func (s *SQLiteDatabase) FindTrackedFileByPath(path string) (*sqlc.TrackedFile, error) {
	file, err := s.queries.GetTrackedFileByPath(context.Background(), path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding tracked file by path: %w", err)
	}
	return &file, nil
}

func (s *SQLiteDatabase) ListTrackedFiles() ([]*sqlc.TrackedFile, error) {
	files, err := s.queries.ListTrackedFiles(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing tracked files: %w", err)
	}
	return toPointers(files), nil
}

func (s *SQLiteDatabase) TrackedDigests() (map[string]string, error) {
	files, err := s.queries.ListLiveTrackedFiles(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing live tracked files: %w", err)
	}

	digests := make(map[string]string, len(files))
	for _, f := range files {
		digests[f.Path] = f.Digest
	}
	return digests, nil
}

func (s *SQLiteDatabase) CountTrackedFiles() (int64, int64, error) {
	row, err := s.queries.CountTrackedFiles(context.Background())
	if err != nil {
		return 0, 0, fmt.Errorf("counting tracked files: %w", err)
	}
	return row.Live, row.Deleted, nil
}

// Change record operations

func (s *SQLiteDatabase) FindChangesForCommit(commitID int64) ([]*sqlc.GetCommitChangesRow, error) {
	rows, err := s.queries.GetCommitChanges(context.Background(), commitID)
	if err != nil {
		return nil, fmt.Errorf("finding changes for commit: %w", err)
	}
	return toPointers(rows), nil
}

func (s *SQLiteDatabase) CountChangesByStatus(commitID int64) (map[chrono.ChangeStatus]int64, error) {
	rows, err := s.queries.CountCommitChangesByStatus(context.Background(), commitID)
	if err != nil {
		return nil, fmt.Errorf("counting changes by status: %w", err)
	}

	counts := make(map[chrono.ChangeStatus]int64, len(rows))
	for _, r := range rows {
		counts[chrono.ChangeStatus(r.Status)] = r.Count
	}
	return counts, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(operation string, parameters string) (*sqlc.Operation, error) {
	op, err := s.queries.InsertOperation(context.Background(), sqlc.InsertOperationParams{
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return &op, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	err := s.queries.UpdateOperationFinished(context.Background(), sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*sqlc.Operation, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	ops, err := s.queries.ListOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return toPointers(ops), nil
}

// Maintenance

// Reset deletes change records, then commits, then tracked files, in one
// transaction. The operation journal is kept.
func (s *SQLiteDatabase) Reset() error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	if err := qtx.DeleteAllChangeRecords(ctx); err != nil {
		return fmt.Errorf("deleting change records: %w", err)
	}
	if err := qtx.DeleteAllCommits(ctx); err != nil {
		return fmt.Errorf("deleting commits: %w", err)
	}
	if err := qtx.DeleteAllTrackedFiles(ctx); err != nil {
		return fmt.Errorf("deleting tracked files: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Compact runs VACUUM to rebuild the database file.
func (s *SQLiteDatabase) Compact() error {
	if _, err := s.db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuuming database: %w", err)
	}
	return nil
}

// Size returns page_count * page_size, which also works for in-memory databases.
func (s *SQLiteDatabase) Size() (int64, error) {
	var pages, pageSize int64
	if err := s.db.QueryRow("PRAGMA page_count").Scan(&pages); err != nil {
		return 0, fmt.Errorf("reading page count: %w", err)
	}
	if err := s.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("reading page size: %w", err)
	}
	return pages * pageSize, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate applies any pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// SchemaVersion returns the version recorded by the migration tool.
func (s *SQLiteDatabase) SchemaVersion() (uint, error) {
	version, _, err := migrations.CurrentVersion(s.db)
	return version, err
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func toPointers[T any](items []T) []*T {
	result := make([]*T, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result
}

// Compile-time check that SQLiteDatabase implements chrono.Database interface
var _ chrono.Database = (*SQLiteDatabase)(nil)
