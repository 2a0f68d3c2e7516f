package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/limaJavier/blocker/pkg/config"
)

const (
	formatConsole = "console"
	formatJSON    = "json"

	fieldRunID = "run_id"
)

// New builds the logger of a blocker run. Entries go to stderr, leaving stdout to the exported timetable
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Encoding = formatJSON
	if cfg.Log.Format == formatConsole {
		zapCfg.Encoding = formatConsole
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	// Sampling would drop the repeated per-combination and per-attempt entries of a search
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true

	return zapCfg.Build()
}

// ForRun tags every entry of a run with its id and the given fields
func ForRun(logger *zap.Logger, runID string, fields ...zap.Field) *zap.Logger {
	return logger.With(append([]zap.Field{zap.String(fieldRunID, runID)}, fields...)...)
}
