package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/webprobe/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger_BeforeInitializeIsNop(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger)
	// Must be safe to use without initialization.
	logger.Info("no-op")
}

func TestInitializeLogger(t *testing.T) {
	ResetForTest()
	cfg := config.NewDefaultConfig().Logger()
	cfg.Level = "debug"
	cfg.ServiceName = "test-suite"

	InitializeLogger(cfg)
	logger := GetLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetForTest()
	first := config.NewDefaultConfig().Logger()
	first.ServiceName = "first"
	InitializeLogger(first)
	got := GetLogger()

	second := config.NewDefaultConfig().Logger()
	second.ServiceName = "second"
	InitializeLogger(second)

	assert.Same(t, got, GetLogger())
}

func TestInitializeLogger_BadLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	cfg := config.NewDefaultConfig().Logger()
	cfg.Level = "not-a-level"

	InitializeLogger(cfg)
	logger := GetLogger()
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "debug must be disabled at info level")
}
