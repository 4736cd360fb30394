// Package internal carries run-wide support shared by the engines and the
// CLI. Statistic failures are expected outcomes recorded on reports, so the
// engines themselves never log; only the orchestration layer speaks here.
package internal

import (
	"log"
	"os"
)

// Level orders logging verbosity from quietest to noisiest.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger writes leveled run diagnostics through the standard logger.
type Logger struct {
	level Level
}

// NewLogger creates a logger emitting at or below the given level.
func NewLogger(level Level) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger reads LOG_LEVEL (ERROR, WARN, INFO, DEBUG); unset or
// unrecognized values fall back to INFO.
func NewDefaultLogger() *Logger {
	return &Logger{level: envLevel()}
}

func envLevel() Level {
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Error reports failures that abort a run or an index load.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LevelError, "[ERROR]", format, args...)
}

// Warn reports indices that completed with recorded statistic failures.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LevelWarn, "[WARN]", format, args...)
}

// Info reports run progress.
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LevelInfo, "[INFO]", format, args...)
}

// Debug reports per-index detail such as stack shapes and date counts.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LevelDebug, "[DEBUG]", format, args...)
}

func (l *Logger) logf(at Level, tag, format string, args ...interface{}) {
	if l.level >= at {
		log.Printf(tag+" "+format, args...)
	}
}

// DefaultLogger is the process-wide logger used when callers pass nil.
var DefaultLogger = NewDefaultLogger()
