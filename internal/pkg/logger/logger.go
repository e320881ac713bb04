// Package logger provides the process-wide structured logger.
//
// JSON output is the default; "console" gives the human-readable encoder.
// When an output file is set, logs go there instead of stderr so the
// terminal UI keeps the screen.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global      *zap.Logger
	atomicLevel = zap.NewAtomicLevel()
	once        sync.Once
)

// Options configures Init.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	File   string // optional output path
}

// Init builds the global logger. Only the first call has an effect.
func Init(opts Options) error {
	var initErr error
	once.Do(func() {
		level := opts.Level
		if level == "" {
			level = "info"
		}
		if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
			initErr = fmt.Errorf("parse log level %q: %w", level, err)
			return
		}

		var cfg zap.Config
		switch opts.Format {
		case "console":
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		default:
			cfg = zap.NewProductionConfig()
		}
		cfg.Level = atomicLevel
		if opts.File != "" {
			cfg.OutputPaths = []string{opts.File}
			cfg.ErrorOutputPaths = []string{opts.File}
			// no color escapes in files
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}

		l, err := cfg.Build()
		if err != nil {
			initErr = fmt.Errorf("build logger: %w", err)
			return
		}
		global = l
	})
	return initErr
}

// SetLevel changes the level at runtime.
func SetLevel(level string) error {
	return atomicLevel.UnmarshalText([]byte(level))
}

// GetLevel returns the current level.
func GetLevel() zapcore.Level {
	return atomicLevel.Level()
}

// L returns the global logger, or a no-op logger before Init.
func L() *zap.Logger {
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// S returns the sugared global logger.
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// Named returns a child logger for a component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Sync flushes buffered entries.
func Sync() error {
	if global == nil {
		return nil
	}
	return global.Sync()
}
