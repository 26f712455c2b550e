package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		root := t.TempDir()
		t.Setenv("CHRONO_ROOT", root)
		t.Setenv("CHRONO_CONFIG_PATH", "/custom/config.toml")

		defaults, err := GetDefaults("/somewhere/else", false)
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["root"] != root {
			t.Errorf("root = %q, want %q", defaults["root"], root)
		}
		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
	})

	t.Run("finds the repository from a subdirectory", func(t *testing.T) {
		t.Setenv("CHRONO_ROOT", "")
		t.Setenv("CHRONO_CONFIG_PATH", "")

		root := t.TempDir()
		writeConfigMarker(t, root)
		sub := filepath.Join(root, "src", "pkg")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}

		defaults, err := GetDefaults(sub, false)
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["root"] != root {
			t.Errorf("root = %q, want %q", defaults["root"], root)
		}
		wantConfig := filepath.Join(root, RepoDirName, ConfigFileName)
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}
		if defaults["repo_dir"] != filepath.Join(root, RepoDirName) {
			t.Errorf("repo_dir = %q", defaults["repo_dir"])
		}
	})

	t.Run("init uses the start directory", func(t *testing.T) {
		t.Setenv("CHRONO_ROOT", "")
		t.Setenv("CHRONO_CONFIG_PATH", "")

		start := t.TempDir()
		defaults, err := GetDefaults(start, true)
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if defaults["root"] != start {
			t.Errorf("root = %q, want %q", defaults["root"], start)
		}
	})
}

func TestFindRoot(t *testing.T) {
	t.Run("returns ErrNotInitialized outside a repository", func(t *testing.T) {
		_, err := FindRoot(t.TempDir())
		if !errors.Is(err, ErrNotInitialized) {
			t.Errorf("FindRoot() error = %v, want ErrNotInitialized", err)
		}
	})

	t.Run("a bare .chrono directory is not a repository", func(t *testing.T) {
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, RepoDirName), 0755); err != nil {
			t.Fatal(err)
		}
		if _, err := FindRoot(root); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("FindRoot() error = %v, want ErrNotInitialized", err)
		}
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	t.Run("missing file is not an error", func(t *testing.T) {
		if err := LoadEnv(); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}
	})

	t.Run("loads variables from .env", func(t *testing.T) {
		t.Setenv("CHRONO_TEST_VALUE", "")
		os.Unsetenv("CHRONO_TEST_VALUE")
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CHRONO_TEST_VALUE=from-dotenv\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := LoadEnv(); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}
		if got := os.Getenv("CHRONO_TEST_VALUE"); got != "from-dotenv" {
			t.Errorf("CHRONO_TEST_VALUE = %q, want from-dotenv", got)
		}
	})
}

func writeConfigMarker(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, RepoDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), nil, 0644); err != nil {
		t.Fatal(err)
	}
}
