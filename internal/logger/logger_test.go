package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/config"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"dev", "staging", "prod"} {
		t.Run(env, func(t *testing.T) {
			logger, err := New(&config.Config{Env: env})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if zap.L() != logger {
				t.Error("New() did not install the global logger")
			}
		})
	}

	t.Run("staging logs debug", func(t *testing.T) {
		logger, err := New(&config.Config{Env: "staging"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if !logger.Core().Enabled(zap.DebugLevel) {
			t.Error("debug level disabled in staging")
		}
	})

	t.Run("prod skips debug", func(t *testing.T) {
		logger, err := New(&config.Config{Env: "prod"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if logger.Core().Enabled(zap.DebugLevel) {
			t.Error("debug level enabled in prod")
		}
	})
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "academico.log")
	cfg := &config.Config{Env: "prod", Log: config.Log{File: path, MaxSizeMB: 1, MaxBackups: 1}}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello", Module("test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
