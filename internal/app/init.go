package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chrono-go/internal/config"
	"chrono-go/internal/database"
	"chrono-go/internal/database/migrations"
	"chrono-go/internal/encryption"
	"chrono-go/internal/snapshot"
)

// Initialize creates a repository for the working tree at root: the
// .chrono directory, its config file, a migrated database, the snapshot
// store and, for age encryption, a key pair protected by passphrase.
// configPath is where the config is written.
func Initialize(root, configPath string, cfg *config.Config, passphrase string) error {
	repoDir := filepath.Join(root, RepoDirName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, repoDir)
	}

	if err := os.MkdirAll(repoDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", repoDir, err)
	}

	resolved := cfg.Resolve(repoDir)

	enc, err := encryption.NewEncryptorFromConfig(resolved.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if encryption.RequiresPassphrase(resolved.Encryption) && passphrase == "" {
		return fmt.Errorf("age encryption requires a passphrase")
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}

	store, err := snapshot.NewStoreFromConfig(resolved.Snapshots)
	if err != nil {
		return fmt.Errorf("creating snapshot store: %w", err)
	}
	if err := store.ValidateSetup(); err != nil {
		return fmt.Errorf("snapshot store not usable: %w", err)
	}

	if err := MigrateDatabase(resolved.Database); err != nil {
		return err
	}

	if err := config.Init(configPath, cfg); err != nil {
		return err
	}
	return nil
}

// MigrateDatabase applies pending schema migrations.
func MigrateDatabase(cfg config.DatabaseConfig) error {
	_, _, err := MigrateDatabaseVersions(cfg)
	return err
}

// MigrateDatabaseVersions applies pending schema migrations and reports the
// schema version before and after. A database that was never migrated
// starts at version 0.
func MigrateDatabaseVersions(cfg config.DatabaseConfig) (uint, uint, error) {
	db, err := database.NewDatabaseFromConfig(cfg)
	if err != nil {
		return 0, 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	before, err := db.SchemaVersion()
	if err != nil && !errors.Is(err, migrations.ErrNoVersion) {
		return 0, 0, fmt.Errorf("reading schema version: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return before, before, fmt.Errorf("migrating database: %w", err)
	}
	after, err := db.SchemaVersion()
	if err != nil {
		return before, 0, fmt.Errorf("reading schema version: %w", err)
	}
	return before, after, nil
}
