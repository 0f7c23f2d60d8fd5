// Package logger builds the application's zap logger.
//
//	dev             — human readable console output, debug level
//	staging         — JSON output, debug level
//	prod (default)  — JSON output, info level
//
// When cfg.Log.File is set the same entries are also written to a rotated
// file.
package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aanand-mishra/academico-api/internal/config"
)

// New builds a logger for cfg and installs it as the zap global, so
// packages without an injected logger can use zap.L().
func New(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	switch cfg.Env {
	case "dev":
		zcfg = zap.NewDevelopmentConfig()
	case "staging":
		zcfg = zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		zcfg = zap.NewProductionConfig()
	}

	logger, err := zcfg.Build(zap.AddStacktrace(zap.WarnLevel))
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}

	if cfg.Log.File != "" {
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore(cfg, zcfg))
		}))
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

// fileCore writes JSON entries to a lumberjack-rotated file.
func fileCore(cfg *config.Config, zcfg zap.Config) zapcore.Core {
	writer := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewCore(encoder, zapcore.AddSync(writer), zcfg.Level)
}

// Sync flushes buffered entries. Errors from syncing stdout/stderr are
// expected on some platforms and ignored.
func Sync(logger *zap.Logger) {
	if err := logger.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		logger.Debug("failed to sync logger", zap.Error(err))
	}
}
