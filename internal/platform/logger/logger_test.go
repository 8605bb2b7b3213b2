package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jwhitfield/studygen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		level       string
		debugOn     bool
		warnEnabled bool
	}{
		{level: "debug", debugOn: true, warnEnabled: true},
		{level: "info", debugOn: false, warnEnabled: true},
		{level: "warn", debugOn: false, warnEnabled: true},
		{level: "error", debugOn: false, warnEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := Setup(config.Server{LogLevel: tt.level})
			require.NotNil(t, log)

			ctx := context.Background()
			assert.Equal(t, tt.debugOn, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.warnEnabled, log.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestSetupInvalidLevelDefaultsToInfo(t *testing.T) {
	log := Setup(config.Server{LogLevel: "shouting"})
	require.NotNil(t, log)

	ctx := context.Background()
	assert.False(t, log.Enabled(ctx, slog.LevelDebug))
	assert.True(t, log.Enabled(ctx, slog.LevelInfo))
}

func TestSetupInstallsDefaultLogger(t *testing.T) {
	log := Setup(config.Server{LogLevel: "info"})

	assert.Equal(t, log.Handler(), slog.Default().Handler())
}
