package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func newBufferLogger(level Level, formatter Formatter) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewWriterOutput(&buf)),
	)
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": DebugLevel,
		"INFO":  InfoLevel,
		"Warn":  WarnLevel,
		"error": ErrorLevel,
		"fatal": FatalLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(WarnLevel, &TextFormatter{})
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("low-level entries leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn entry missing: %q", out)
	}
}

func TestTextFormatterFieldsSorted(t *testing.T) {
	f := &TextFormatter{}
	entry := &Entry{
		Level:     InfoLevel,
		Message:   "msg",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Fields:    Fields{"zeta": 1, "alpha": "x"},
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, "INFO msg alpha=x zeta=1") {
		t.Fatalf("unexpected text line %q", line)
	}
}

func TestJSONFormatter(t *testing.T) {
	l, buf := newBufferLogger(InfoLevel, &JSONFormatter{})
	l.Info("ready", Str("component", "relay"), Int("capacity", 4096))
	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if obj["msg"] != "ready" || obj["level"] != "INFO" {
		t.Fatalf("unexpected object %v", obj)
	}
	if obj["component"] != "relay" || obj["capacity"] != float64(4096) {
		t.Fatalf("fields missing: %v", obj)
	}
}

func TestWithCarriesBaseFields(t *testing.T) {
	l, buf := newBufferLogger(InfoLevel, &TextFormatter{})
	l = l.With(Component("pump")).With(Str("session", "abc"))
	l.Info("tick")
	out := buf.String()
	if !strings.Contains(out, "component=pump") || !strings.Contains(out, "session=abc") {
		t.Fatalf("base fields missing: %q", out)
	}
}

func TestErrField(t *testing.T) {
	if f := Err(nil); f.Value != "<nil>" {
		t.Fatalf("nil error field = %v", f.Value)
	}
}

func TestApplyConfig(t *testing.T) {
	l, err := ApplyConfig(&Config{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("apply config: %v", err)
	}
	if l.GetLevel() != DebugLevel {
		t.Fatalf("expected debug level")
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ApplyConfig(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestToStdLogger(t *testing.T) {
	l, buf := newBufferLogger(InfoLevel, &TextFormatter{})
	std := ToStdLogger(l, WarnLevel)
	std.Print("legacy message")
	if !strings.Contains(buf.String(), "WARN legacy message") {
		t.Fatalf("stdlib log not routed: %q", buf.String())
	}
}
