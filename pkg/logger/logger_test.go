package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/limaJavier/blocker/pkg/config"
)

func TestNew(t *testing.T) {
	scenarios := []struct {
		cfg   config.Config
		level zapcore.Level
	}{
		{config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "debug", Format: "console"}}, zapcore.DebugLevel},
		{config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn", Format: "json"}}, zapcore.WarnLevel},
		{config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "loud", Format: "json"}}, zapcore.InfoLevel},
	}

	for _, scenario := range scenarios {
		//** Act
		logger, err := New(&scenario.cfg)

		//** Assert
		assert.Nil(t, err)
		assert.True(t, logger.Core().Enabled(scenario.level))
		if scenario.level > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(scenario.level-1))
		}
	}
}

func TestForRun(t *testing.T) {
	//** Arrange
	core, logs := observer.New(zapcore.DebugLevel)

	//** Act
	ForRun(zap.New(core), "run-1", zap.String("strategy", "exact")).Info("timetable built")

	//** Assert
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, map[string]any{"run_id": "run-1", "strategy": "exact"}, logs.All()[0].ContextMap())
}
