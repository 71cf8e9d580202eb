package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/logging"
)

func TestNew_LevelFromConfig(t *testing.T) {
	t.Parallel()

	logger, err := logging.New(config.LogConfig{Level: "WARN", Format: "json"}, "production")
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_DevelopmentDefaultsToDebug(t *testing.T) {
	t.Parallel()

	logger, err := logging.New(config.LogConfig{}, "local")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	_, err := logging.New(config.LogConfig{Level: "loud"}, "local")
	assert.Error(t, err)

	_, err = logging.New(config.LogConfig{Format: "xml"}, "local")
	assert.Error(t, err)

	assert.Panics(t, func() { logging.Must(config.LogConfig{Format: "xml"}, "local") })
}
