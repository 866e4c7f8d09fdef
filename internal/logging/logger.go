// Package logging builds the zap loggers used by the batch runner and the CLI.
package logging

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Config holds logging configuration.
type Config struct {
	Level  string `json:"level" koanf:"level"`
	Format string `json:"format" koanf:"format"` // console or json
}

// DefaultConfig logs warnings and above to stderr in console format
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console"}
}

// Validate checks the level parses and the format is known
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	switch c.Format {
	case "console", "json":
		return nil
	}
	return fmt.Errorf("invalid log format %q: must be console or json", c.Format)
}

// New creates a logger writing to stderr
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	level, _ := zapcore.ParseLevel(cfg.Level)
	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}

// NewNop returns a logger that discards everything
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// NewObserved returns a logger recording every entry at or above level, for tests.
func NewObserved(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// Sync flushes the logger, ignoring the harmless errors returned when
// syncing a terminal.
func Sync(l *zap.Logger) error {
	err := l.Sync()
	var errno syscall.Errno
	if errors.As(err, &errno) && (errno == syscall.EINVAL || errno == syscall.ENOTTY) {
		return nil
	}
	return err
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
