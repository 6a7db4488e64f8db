package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mikey/email-triage/internal/config"
)

func TestNewWritesJSONWithService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.log")

	logger, err := New(Options{Level: "debug", Format: "json", Output: path, Service: "email-triage"})
	require.NoError(t, err)

	logger.Debug("Classified email")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Classified email", entry["msg"])
	assert.Equal(t, "email-triage", entry["service"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Options{Level: "chatty", Output: "stderr"})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitConsoleLogger(t *testing.T) {
	quiet, err := InitConsoleLogger(false, false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))

	verbose, err := InitConsoleLogger(true, true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestInitLoggerFromConfig(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	logger, err := InitLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
