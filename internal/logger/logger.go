// Package logger builds the service's zap logger and carries request-scoped
// loggers through context.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "prodlens"

// Config selects the log encoding and threshold.
type Config struct {
	// Environment is production, development or test. Production writes
	// JSON at info; the others write colored console lines at debug.
	Environment string
	// Level overrides the environment's default threshold when set.
	Level string
	// Output defaults to stdout.
	Output io.Writer
}

// New builds the service logger. Every entry carries the service name and
// environment; error entries carry a stack trace.
func New(cfg Config) (*zap.Logger, error) {
	var (
		encoder zapcore.Encoder
		level   zapcore.Level
	)
	switch cfg.Environment {
	case "production":
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "time"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
		level = zapcore.InfoLevel
	case "development", "test":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", cfg.Environment)
	}

	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(level))
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", serviceName), zap.String("env", cfg.Environment)),
	), nil
}
