package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the configuration of one chrono repository. It lives at
// <root>/.chrono/config.toml. Relative paths are resolved against the
// directory holding the config file.
type Config struct {
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // "debug", "info" (default), "warn" or "error"
	Database   DatabaseConfig   `toml:"database"`
	Snapshots  SnapshotConfig   `toml:"snapshots"`
	Encryption EncryptionConfig `toml:"encryption"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Commit     CommitConfig     `toml:"commit"`
	Safety     SafetyConfig     `toml:"safety"`
}

// DatabaseConfig represents configuration for the metadata database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite
}

// SnapshotConfig represents configuration for the snapshot store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SnapshotConfig struct {
	Type string `toml:"type"`          // "filesystem" or "memory"
	Dir  string `toml:"dir,omitempty"` // only used for type=filesystem
}

// EncryptionConfig selects how bodies are stored at rest.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path,omitempty"`
	PrivateKeyPath string `toml:"private_key_path,omitempty"`
}

// FilesystemConfig holds scanner settings. Empty lists fall back to the
// built-in defaults; Ignore patterns are added on top of them.
type FilesystemConfig struct {
	IgnoreSegments   []string `toml:"ignore_segments,omitempty"`
	IgnoreExtensions []string `toml:"ignore_extensions,omitempty"`
	AllowHidden      []string `toml:"allow_hidden,omitempty"`
	Ignore           []string `toml:"ignore,omitempty"`
	CaseInsensitive  bool     `toml:"case_insensitive"`
}

// CommitConfig holds commit engine settings.
type CommitConfig struct {
	// StrictBackup aborts a commit when a body cannot be copied.
	StrictBackup bool `toml:"strict_backup"`
}

// SafetyConfig holds settings for the snapshots taken before a revert.
type SafetyConfig struct {
	Keep int `toml:"keep"` // snapshots retained by cleanup; defaults to 5
}

// NewConfig creates a Config with default values. Paths are relative to the
// repository directory.
func NewConfig() *Config {
	return &Config{
		LogDir:   "log",
		LogLevel: "info",
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "chrono.db",
		},
		Snapshots: SnapshotConfig{
			Type: "filesystem",
			Dir:  "snapshots",
		},
		Encryption: EncryptionConfig{
			Type: "none",
		},
		Safety: SafetyConfig{
			Keep: 5,
		},
	}
}

// EnableAge switches the config to age encryption with keys under keys/.
func (c *Config) EnableAge() {
	c.Encryption = EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join("keys", "chrono.pub"),
		PrivateKeyPath: filepath.Join("keys", "chrono.key"),
	}
}

// Resolve returns a copy of the config with every relative path joined to
// baseDir.
func (c *Config) Resolve(baseDir string) *Config {
	resolved := *c
	resolved.LogDir = resolvePath(baseDir, c.LogDir)
	resolved.Database.Path = resolvePath(baseDir, c.Database.Path)
	resolved.Snapshots.Dir = resolvePath(baseDir, c.Snapshots.Dir)
	resolved.Encryption.PublicKeyPath = resolvePath(baseDir, c.Encryption.PublicKeyPath)
	resolved.Encryption.PrivateKeyPath = resolvePath(baseDir, c.Encryption.PrivateKeyPath)
	return &resolved
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes a new config file at path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
