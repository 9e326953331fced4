package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Component loggers for the kernel. Each subsystem gets a named zap logger;
// the dispatch hot path never logs per-event, so logging cost stays off the
// scheduler loop.

// LoggerConfig configures a component logger.
type LoggerConfig struct {
	Level     zapcore.Level
	Component string
	// Development enables console encoding with colored levels; production
	// uses JSON.
	Development bool
}

// NewLogger creates a named zap logger for a kernel component.
func NewLogger(config LoggerConfig) *zap.Logger {
	var cfg zap.Config
	if config.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(config.Level)
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// Config above is static; Build only fails on bad output paths.
		logger = zap.NewNop()
	}
	if config.Component != "" {
		logger = logger.Named(config.Component)
	}
	return logger
}

// DefaultLogger creates a development logger with sensible defaults.
func DefaultLogger(component string) *zap.Logger {
	return NewLogger(LoggerConfig{
		Level:       zapcore.InfoLevel,
		Component:   component,
		Development: true,
	})
}
