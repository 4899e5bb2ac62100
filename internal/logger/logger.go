// Package logger provides leveled logging over the standard log package.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	// DebugLevel logs are voluminous and usually disabled.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info but need no individual review.
	WarnLevel
	// ErrorLevel logs are high-priority.
	ErrorLevel
)

// Logger filters messages below its level before handing them to log.Logger.
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &Logger{level: InfoLevel, logger: log.New(os.Stderr, "", log.LstdFlags)}

// Init sets the default logger's level from its string name.
func Init(level string) {
	defaultLogger.level = parseLevel(level)
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l *Logger) logf(level Level, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

// Debugf logs a debug-level message.
func Debugf(format string, args ...any) {
	defaultLogger.logf(DebugLevel, "DEBUG", format, args...)
}

// Infof logs an info-level message.
func Infof(format string, args ...any) {
	defaultLogger.logf(InfoLevel, "INFO", format, args...)
}

// Warnf logs a warn-level message.
func Warnf(format string, args ...any) {
	defaultLogger.logf(WarnLevel, "WARN", format, args...)
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	defaultLogger.logf(ErrorLevel, "ERROR", format, args...)
}
