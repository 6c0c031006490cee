package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/observability"
)

func TestNewLogger_Level(t *testing.T) {
	logger, err := observability.NewLogger(config.LoggerConfig{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = observability.NewLogger(config.LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
