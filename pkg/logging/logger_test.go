package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"DEBUG", DebugLevel, false},
		{"info", InfoLevel, false},
		{"", InfoLevel, false},
		{" warn ", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"Error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"Component", Component("physics"), "component", "physics"},
		{"Session", Session("abc"), "session", "abc"},
		{"NodeKey", NodeKey("p1"), "node", "p1"},
		{"Kind", Kind("node-hover"), "kind", "node-hover"},
		{"Alpha", Alpha(0.5), "alpha", 0.5},
		{"Viewport", Viewport(800, 600), "viewport", "800x600"},
		{"Latency", Latency(16 * time.Millisecond), "latency", "16ms"},
		{"Count", Count(3), "count", 3},
		{"ErrorNil", Error(nil), "error", nil},
		{"Error", Error(errors.New("boom")), "error", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("tick")
	logger.Info("mounted")
	logger.Warn("partition degenerate", Count(2))
	logger.Error("mount failed", Error(errors.New("invalid viewport")))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].Message != "partition degenerate" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[0].Fields["count"] != float64(2) {
		t.Errorf("Expected count=2, got %v", entries[0].Fields["count"])
	}
	if entries[1].Fields["error"] != "invalid viewport" {
		t.Errorf("Expected error field, got %v", entries[1].Fields["error"])
	}
	if _, err := time.Parse(time.RFC3339Nano, entries[1].Time); err != nil {
		t.Errorf("Time is not RFC3339: %v", err)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("render"), Session("s-1"))

	child.Info("focus", NodeKey("p7"))
	parent.Info("plain")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Fields["component"] != "render" || entries[0].Fields["session"] != "s-1" || entries[0].Fields["node"] != "p7" {
		t.Errorf("Child fields missing: %v", entries[0].Fields)
	}
	if entries[1].Fields != nil {
		t.Errorf("Parent should carry no fields, got %v", entries[1].Fields)
	}
}

func TestJSONLogger_SetLevelSharedWithChildren(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("physics"))

	child.Debug("hidden")
	parent.SetLevel(DebugLevel)
	child.Debug("visible")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0].Message != "visible" {
		t.Fatalf("Expected only the post-SetLevel entry, got %+v", entries)
	}
	if child.GetLevel() != DebugLevel {
		t.Errorf("child level = %v, want DEBUG", child.GetLevel())
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netviz.log")
	logger, err := NewFileLogger(path, InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Info("started", Viewport(640, 480))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	logger.Info("after close is discarded")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 1 {
		t.Errorf("Expected 1 line, got %d", got)
	}
	if !strings.Contains(string(data), `"viewport":"640x480"`) {
		t.Errorf("Missing viewport field: %s", data)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	StartTimer(logger, "rebuild", Count(12)).End()
	StartTimer(logger, "mount").EndError(errors.New("nil graph"))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "DEBUG" || entries[0].Fields["latency"] == nil {
		t.Errorf("End should log debug with latency: %+v", entries[0])
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "nil graph" {
		t.Errorf("EndError should log error: %+v", entries[1])
	}
}

func TestNopLoggerAndOrNop(t *testing.T) {
	var l Logger = NewNopLogger()
	l.Info("ignored")
	if l.With(Count(1)) == nil {
		t.Error("NopLogger.With returned nil")
	}
	if _, ok := OrNop(nil).(NopLogger); !ok {
		t.Error("OrNop(nil) should be a NopLogger")
	}
	var buf bytes.Buffer
	j := NewJSONLogger(&buf, InfoLevel)
	if OrNop(j) != Logger(j) {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}

func TestSetDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))
	defer SetDefaultLogger(NewNopLogger())

	Info("hello")
	Warn("careful")
	ErrorLog("bad")

	if got := len(decodeLines(t, &buf)); got != 3 {
		t.Errorf("Expected 3 entries through the default logger, got %d", got)
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Component("bench"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("tick", Alpha(0.5), Count(i))
		if buf.Len() > 1<<20 {
			buf.Reset()
		}
	}
}
