package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("parses file and applies defaults", func(t *testing.T) {
		path := writeConfig(t, `
env: "dev"
storage_path: "storage/academico.db"
http_server:
  address: "localhost:8080"
  read_timeout: 3s
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Env != "dev" {
			t.Errorf("Env = %q, want dev", cfg.Env)
		}
		if cfg.Addr != "localhost:8080" {
			t.Errorf("Addr = %q, want localhost:8080", cfg.Addr)
		}
		if cfg.ReadTimeout != 3*time.Second {
			t.Errorf("ReadTimeout = %v, want 3s", cfg.ReadTimeout)
		}
		if cfg.ShutdownTimeout != 5*time.Second {
			t.Errorf("ShutdownTimeout = %v, want default 5s", cfg.ShutdownTimeout)
		}
		if cfg.Log.MaxSizeMB != 100 {
			t.Errorf("Log.MaxSizeMB = %d, want default 100", cfg.Log.MaxSizeMB)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("Load() error = %v, want missing file error", err)
		}
	})

	t.Run("rejects unknown env", func(t *testing.T) {
		path := writeConfig(t, `
env: "qa"
storage_path: "x.db"
http_server:
  address: "localhost:8080"
`)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "must be one of") {
			t.Errorf("Load() error = %v, want oneof error", err)
		}
	})

	t.Run("rejects address without port", func(t *testing.T) {
		path := writeConfig(t, `
env: "prod"
storage_path: "x.db"
http_server:
  address: "localhost"
`)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "host:port") {
			t.Errorf("Load() error = %v, want hostname_port error", err)
		}
	})
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if got := ResolvePath("from-flag.yaml"); got != "from-flag.yaml" {
		t.Errorf("ResolvePath() = %q, want flag value", got)
	}

	t.Setenv("CONFIG_PATH", "from-env.yaml")
	if got := ResolvePath("from-flag.yaml"); got != "from-env.yaml" {
		t.Errorf("ResolvePath() = %q, want env value", got)
	}
}
