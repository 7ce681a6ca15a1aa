
package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger struct {
	out   *log.Logger
	level Level
}

func New() *Logger { return NewWithWriter(os.Stderr, LevelInfo) }

func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), level: level}
}

// ParseLevel maps a config/flag value to a Level; unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.printf(LevelDebug, "[DEBUG] ", format, args...)
}
func (l *Logger) Infof(format string, args ...any) {
	l.printf(LevelInfo, "[INFO] ", format, args...)
}
func (l *Logger) Warnf(format string, args ...any) {
	l.printf(LevelWarn, "[WARN] ", format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	l.printf(LevelError, "[ERROR] ", format, args...)
}

func (l *Logger) printf(level Level, prefix, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.out.Printf(prefix+format, args...)
}

// Discard is a logger that drops everything.
func Discard() *Logger { return NewWithWriter(io.Discard, LevelError+1) }
