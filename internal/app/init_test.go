package app

import (
	"path/filepath"
	"testing"

	"chrono-go/internal/config"
	"chrono-go/internal/database/migrations"
)

func TestMigrateDatabaseVersions(t *testing.T) {
	latest, err := migrations.LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	cfg := config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "chrono.db")}

	t.Run("fresh database starts at version 0", func(t *testing.T) {
		before, after, err := MigrateDatabaseVersions(cfg)
		if err != nil {
			t.Fatalf("MigrateDatabaseVersions() error = %v", err)
		}
		if before != 0 {
			t.Errorf("before = %d, want 0", before)
		}
		if after != latest {
			t.Errorf("after = %d, want %d", after, latest)
		}
	})

	t.Run("migrated database is left alone", func(t *testing.T) {
		before, after, err := MigrateDatabaseVersions(cfg)
		if err != nil {
			t.Fatalf("MigrateDatabaseVersions() error = %v", err)
		}
		if before != latest || after != latest {
			t.Errorf("versions = %d -> %d, want %d -> %d", before, after, latest, latest)
		}
	})
}

func TestMigrateDatabase_Memory(t *testing.T) {
	if err := MigrateDatabase(config.DatabaseConfig{Type: "memory"}); err != nil {
		t.Fatalf("MigrateDatabase() error = %v", err)
	}
}
