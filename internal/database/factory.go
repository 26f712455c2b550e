package database

import (
	"fmt"

	"chrono-go/internal/config"
)

// NewDatabaseFromConfig creates a SQLiteDatabase based on the database config type.
// cfg.Path must already be resolved against the repository directory.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("path required for sqlite database")
		}
		return NewSQLiteDatabase(cfg.Path)
	case "memory":
		return NewSQLiteDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
