// Package logger provides levelled logging for mmdedup.
//
// A Logger is created once in main and passed to every operation; there is
// no package-level state. Each line is written as "[LEVEL] message" so that
// routine progress, benign conflicts and real problems stay distinguishable
// in collected fleet logs.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a log severity.
type Level int

// Severities, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the label printed in front of each line.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "LEVEL(" + fmt.Sprint(int(l)) + ")"
	}
}

// ParseLevel converts a level name such as "warn" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes levelled lines to an output. It is safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	level  Level
	output io.Writer
	counts [LevelError + 1]int
}

// New creates a logger that prints lines at or above level to w.
// A nil w defaults to os.Stderr.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{level: level, output: w}
}

// Discard returns a logger that prints nothing but still counts lines.
func Discard() *Logger {
	return New(io.Discard, LevelDebug)
}

// SetLevel changes the minimum printed severity.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum printed severity.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the output writer.
// Defaults to os.Stderr. Useful for testing.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Debug prints routine per-entry detail.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info prints progress and successful summaries.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn prints benign, expected conditions such as content conflicts.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error prints unexpected conditions and failed summaries.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Count returns how many lines were logged at level, printed or not.
func (l *Logger) Count(level Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < LevelDebug || level > LevelError {
		return 0
	}
	return l.counts[level]
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[level]++
	if level < l.level {
		return
	}
	fmt.Fprintf(l.output, "["+level.String()+"] "+format+"\n", args...)
}
