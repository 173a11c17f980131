package logger

import (
	"fmt"

	"github.com/LavaJover/shvark-redsys-service/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger from log_config: level, json/console encoding and output path.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	switch cfg.LogFormat {
	case "", "json":
		zapConfig.Encoding = "json"
	case "console", "text":
		zapConfig.Encoding = "console"
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.LogOutput != "" {
		zapConfig.OutputPaths = []string{cfg.LogOutput}
	}

	return zapConfig.Build()
}
