package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level       string `toml:"level"`
	Encoding    string `toml:"encoding"` // "console" or "json"
	Development bool   `toml:"development"`
}

// NewLogger builds a zap logger writing to stderr.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	level := zapcore.ErrorLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch cfg.Encoding {
	case "", "console":
		zc.Encoding = "console"
	case "json":
		zc.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log encoding: %s", cfg.Encoding)
	}

	return zc.Build()
}
