package snapshot

import (
	"fmt"

	"chrono-go/internal/chrono"
	"chrono-go/internal/config"
)

// NewStoreFromConfig creates a SnapshotStore implementation based on the config type.
func NewStoreFromConfig(cfg config.SnapshotConfig) (chrono.SnapshotStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem snapshot store requires dir to be set")
		}
		return NewFileSystemStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown snapshot store type: %s", cfg.Type)
	}
}
