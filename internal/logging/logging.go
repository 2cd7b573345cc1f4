// Package logging provides the structured logger used throughout the
// recommendation engine, wrapping zap with the service-context fields
// every batch and request-scoped operation wants attached.
package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with engine-specific context fields.
type Logger struct {
	*zap.Logger
	serviceName string
	environment string
}

// Config controls logger construction.
type Config struct {
	Level       string
	ServiceName string
	Environment string
	OutputPath  string
	Format      string // json or console
}

// New creates a logger for the given service name, applying config
// defaults for any zero-valued field.
func New(serviceName string, opts ...Config) *Logger {
	cfg := Config{
		Level:       "info",
		ServiceName: serviceName,
		Environment: getEnv("RECOENGINE_ENV", "development"),
		OutputPath:  "stdout",
		Format:      "json",
	}

	if len(opts) > 0 {
		o := opts[0]
		if o.Level != "" {
			cfg.Level = o.Level
		}
		if o.ServiceName != "" {
			cfg.ServiceName = o.ServiceName
		}
		if o.Environment != "" {
			cfg.Environment = o.Environment
		}
		if o.OutputPath != "" {
			cfg.OutputPath = o.OutputPath
		}
		if o.Format != "" {
			cfg.Format = o.Format
		}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	if cfg.OutputPath == "stdout" || cfg.OutputPath == "" {
		writeSyncer = zapcore.AddSync(os.Stdout)
	} else {
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			writeSyncer = zapcore.AddSync(os.Stdout)
		} else {
			writeSyncer = zapcore.AddSync(file)
		}
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	base := zap.New(core, zap.AddCaller())
	base = base.With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base, serviceName: cfg.ServiceName, environment: cfg.Environment}
}

// WithFields returns a derived logger carrying the given structured fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return &Logger{Logger: l.Logger.With(zapFields...), serviceName: l.serviceName, environment: l.environment}
}

// WithError returns a derived logger carrying the given error.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(zap.Error(err)), serviceName: l.serviceName, environment: l.environment}
}

// BatchLogger logs a structured batch lifecycle transition.
func (l *Logger) BatchLogger(batchID, version, state string) {
	l.Info("batch state transition",
		zap.String("batch_id", batchID),
		zap.String("version", version),
		zap.String("state", state),
	)
}

// PromotionLogger logs a version pointer rotation.
func (l *Logger) PromotionLogger(current, previous, archived string) {
	l.Info("version promoted",
		zap.String("current", current),
		zap.String("previous", previous),
		zap.String("archived", archived),
	)
}

// PerformanceLogger logs a timed operation's duration and metadata.
func (l *Logger) PerformanceLogger(operation string, duration time.Duration, metadata map[string]interface{}) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("duration", duration),
	}
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}
	l.Debug("performance metric", fields...)
}

// CacheLogger logs a cache operation outcome.
func (l *Logger) CacheLogger(operation, key string, hit bool) {
	l.Debug("cache operation",
		zap.String("operation", operation),
		zap.String("key", key),
		zap.Bool("hit", hit),
	)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

var global *Logger

// Init sets the package-level global logger.
func Init(serviceName string, opts ...Config) {
	global = New(serviceName, opts...)
}

// Global returns the package-level logger, initializing a default one
// on first use.
func Global() *Logger {
	if global == nil {
		global = New("recoengine")
	}
	return global
}
