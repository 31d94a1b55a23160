package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDebug_WhenDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	l.Debug("test message %s", "arg")

	if buf.String() != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Debug("test message")

	if buf.Len() > 0 {
		t.Error("expected no output below the configured level")
	}
	if l.Count(LevelDebug) != 1 {
		t.Errorf("expected suppressed line to be counted, got %d", l.Count(LevelDebug))
	}
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Info("info message %d", 42)

	if buf.String() != "[INFO] info message 42\n" {
		t.Errorf("unexpected info output: %q", buf.String())
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Warn("warning message")

	if buf.String() != "[WARN] warning message\n" {
		t.Errorf("unexpected warn output: %q", buf.String())
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.Warn("hidden")
	l.Error("path '%s' already indexed", "/a")

	if buf.String() != "[ERROR] path '/a' already indexed\n" {
		t.Errorf("unexpected error output: %q", buf.String())
	}
	if l.Count(LevelWarn) != 1 || l.Count(LevelError) != 1 {
		t.Errorf("unexpected counts: warn=%d error=%d", l.Count(LevelWarn), l.Count(LevelError))
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.SetLevel(LevelDebug)
	l.Debug("now visible")

	if l.Level() != LevelDebug {
		t.Errorf("expected debug level, got %v", l.Level())
	}
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := New(&first, LevelInfo)

	l.SetOutput(&second)
	l.Info("moved")

	if first.Len() != 0 || second.String() != "[INFO] moved\n" {
		t.Errorf("unexpected outputs: %q / %q", first.String(), second.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()

	l.Error("dropped")

	if l.Count(LevelError) != 1 {
		t.Errorf("expected discarded line to be counted")
	}
}

func TestConcurrentAccess(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Debug("concurrent %d", i)
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 10 {
		t.Errorf("expected 10 lines, got %d", got)
	}
}
