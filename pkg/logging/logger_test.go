package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{" Error ", ErrorLevel},
		{"verbose", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDomainFields(t *testing.T) {
	if f := Drug("Cocaine"); f.Key != "drug" || f.Value != "Cocaine" {
		t.Errorf("Drug() = %+v", f)
	}
	if f := Year(2010); f.Key != "year" || f.Value != 2010 {
		t.Errorf("Year() = %+v", f)
	}
	if f := Period("aggregate"); f.Key != "period" {
		t.Errorf("Period() key = %v", f.Key)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
}

func TestJSONLogger_WritesOneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("seizures aggregated", Drug("Heroin"), Year(2012), Count(17))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Fields["drug"] != "Heroin" {
		t.Errorf("drug = %v", entry.Fields["drug"])
	}
	if entry.Fields["count"] != float64(17) {
		t.Errorf("count = %v", entry.Fields["count"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}
	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_WithSharesWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("pipeline"), Drug("Cannabis"))
	child.Info("stage done", Stage("markets"))
	logger.Info("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(lines))
	}
	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["component"] != "pipeline" || entry.Fields["drug"] != "Cannabis" || entry.Fields["stage"] != "markets" {
		t.Errorf("child fields = %v", entry.Fields)
	}
	var parent map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &parent); err != nil {
		t.Fatal(err)
	}
	if _, ok := parent["fields"]; ok {
		t.Error("parent logger inherited child fields")
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	op := StartTimer(logger, "network built", Drug("Ecstasy"))
	time.Sleep(time.Millisecond)
	if d := op.End(Count(3)); d <= 0 {
		t.Errorf("End() duration = %v", d)
	}

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["latency"] == nil || entry.Fields["drug"] != "Ecstasy" || entry.Fields["count"] != float64(3) {
		t.Errorf("fields = %v", entry.Fields)
	}

	buf.Reset()
	StartTimer(logger, "export").EndError(errors.New("disk full"))
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Level != "ERROR" || entry.Fields["error"] != "disk full" {
		t.Errorf("EndError entry = %+v", entry)
	}
}

func TestDefaultLoggerOverride(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))
	defer SetDefaultLogger(nil)

	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")

	if n := len(strings.Split(strings.TrimSpace(buf.String()), "\n")); n != 3 {
		t.Errorf("Expected 3 entries, got %d", n)
	}
	if OrDefault(nil) == nil {
		t.Error("OrDefault(nil) returned nil")
	}
	nop := NewNopLogger()
	if OrDefault(nop) != nop {
		t.Error("OrDefault should keep a non-nil logger")
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", Drug("Cocaine"), Year(2010))
	}
}
