package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// RepoDirName is the directory holding a repository's data.
	RepoDirName = ".chrono"
	// ConfigFileName is the config file inside RepoDirName.
	ConfigFileName = "config.toml"
)

var (
	// ErrNotInitialized is returned when no repository is found.
	ErrNotInitialized = errors.New("not a chrono repository (run 'chrono init')")

	// ErrAlreadyInitialized is returned by Initialize when a repository exists.
	ErrAlreadyInitialized = errors.New("repository already initialized")
)

// LoadEnv loads environment overrides from a .env file in the current
// directory, if one exists. Variables already set are not replaced.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// GetDefaults returns repository paths for a working tree, checking
// environment variables first.
// Environment variables:
//   - CHRONO_ROOT: working tree root (default: nearest ancestor of start with a .chrono directory)
//   - CHRONO_CONFIG_PATH: config file location (default: <root>/.chrono/config.toml)
//
// When init is true the root defaults to start itself instead of being
// searched for.
func GetDefaults(start string, init bool) (map[string]string, error) {
	root, err := getRoot(start, init)
	if err != nil {
		return nil, err
	}

	repoDir := filepath.Join(root, RepoDirName)
	return map[string]string{
		"root":        root,
		"repo_dir":    repoDir,
		"config_path": getConfigPath(repoDir),
	}, nil
}

func getRoot(start string, init bool) (string, error) {
	if root := os.Getenv("CHRONO_ROOT"); root != "" {
		return filepath.Abs(root)
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	if init {
		return abs, nil
	}
	return FindRoot(abs)
}

func getConfigPath(repoDir string) string {
	if path := os.Getenv("CHRONO_CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join(repoDir, ConfigFileName)
}

// FindRoot walks up from start until it finds a directory containing
// .chrono/config.toml.
func FindRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, RepoDirName, ConfigFileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialized
		}
		dir = parent
	}
}
