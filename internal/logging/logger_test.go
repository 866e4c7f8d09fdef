package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexiusacademia/gorecon/internal/logging"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{"default", logging.DefaultConfig(), false},
		{"json debug", logging.Config{Level: "debug", Format: "json"}, false},
		{"bad level", logging.Config{Level: "verbose", Format: "console"}, true},
		{"bad format", logging.Config{Level: "info", Format: "logfmt"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = logging.New(logging.Config{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestNewObserved(t *testing.T) {
	logger, logs := logging.NewObserved(zapcore.InfoLevel)
	logger.Debug("dropped")
	logger.Info("kept", zap.String("section", "S-01"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "S-01", entry.ContextMap()["section"])
}

func TestSyncNop(t *testing.T) {
	assert.NoError(t, logging.Sync(logging.NewNop()))
}
