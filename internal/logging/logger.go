// Package logging provides structured logging for motionctl, wrapping
// go.uber.org/zap behind a small level-gated API with planner/executor
// context helpers (move, region, segment).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the available log levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config holds logging configuration.
type Config struct {
	Level LogLevel
	// Format selects the zapcore.Encoder: "json" for structured output,
	// anything else (including "" and "text") for the compact key=value
	// console encoder used by default.
	Format  string
	Output  io.Writer
	Sync    bool // force a Sync() after every call; useful in tests
	NoColor bool // kvEncoder never colors; kept for config-shape parity
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// Logger wraps a zap.SugaredLogger with level gating and context helpers.
type Logger struct {
	base  *zap.SugaredLogger
	level LogLevel
	sync  bool
}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// NewLogger creates a new logger from config.
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var enc zapcore.Encoder
	if config.Format == "json" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "" // deterministic test output; no wall-clock stamps
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = newKVEncoder()
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(output), config.Level.zapLevel())
	base := zap.New(core).Sugar()

	return &Logger{base: base, level: config.Level, sync: config.Sync}
}

// Default returns the default logger, creating it if necessary.
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

func (l *Logger) with(kv ...any) *Logger {
	return &Logger{base: l.base.With(kv...), level: l.level, sync: l.sync}
}

// WithMove returns a child logger tagged with the committing move's
// correlation id (internal/planner mints ids with uuid.NewString).
func (l *Logger) WithMove(id string) *Logger {
	return l.with("move_id", id)
}

// WithRegion returns a child logger tagged with a region kind (head,
// body, tail, arc, dwell, ...).
func (l *Logger) WithRegion(kind string) *Logger {
	return l.with("region", kind)
}

// WithSegment returns a child logger tagged with a segment's index within
// its region and the executor operation being performed.
func (l *Logger) WithSegment(index int, op string) *Logger {
	return l.with("tag", index, "op", op)
}

// WithError returns a child logger with an attached error field.
func (l *Logger) WithError(err error) *Logger {
	return l.with("error", err)
}

func (l *Logger) maybeSync() {
	if l.sync {
		_ = l.base.Sync()
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.base.Debugw(msg, args...)
	l.maybeSync()
}

func (l *Logger) Info(msg string, args ...any) {
	l.base.Infow(msg, args...)
	l.maybeSync()
}

func (l *Logger) Warn(msg string, args ...any) {
	l.base.Warnw(msg, args...)
	l.maybeSync()
}

func (l *Logger) Error(msg string, args ...any) {
	l.base.Errorw(msg, args...)
	l.maybeSync()
}

func (l *Logger) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Printf exists for compatibility with the teacher's plain-Printf Logger
// interface usage sites (e.g. library callers that only know Printf).
func (l *Logger) Printf(format string, args ...any) {
	l.Infof(format, args...)
}

// Global convenience functions operating on Default().

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
