package system

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions controls how NewLogger builds the process logger.
type LogOptions struct {
	// Debug switches to the development encoder and debug level.
	Debug bool
	// File, when set, sends log output to a rotating file instead of stderr.
	File string
}

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// NewLogger returns the sugared logger shared by the ghinit and sortjson
// commands. Stacktraces are disabled for non-fatal levels and timestamps are
// written as RFC3339 in UTC under the "ts" key.
func NewLogger(opts LogOptions) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.File == "" {
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to set up logger: %w", err)
		}
		return logger.Sugar(), nil
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	})
	var encoder zapcore.Encoder
	if opts.Debug {
		encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	}
	core := zapcore.NewCore(encoder, sink, cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))).Sugar(), nil
}

// MustLogger is NewLogger for entry points that cannot continue without a
// logger. It falls back to a no-op logger so callers never receive nil.
func MustLogger(opts LogOptions) *zap.SugaredLogger {
	logger, err := NewLogger(opts)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger setup failed, continuing without logs: %v\n", err)
		return zap.NewNop().Sugar()
	}
	return logger
}
