package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// TextFormatter renders entries as a single human-readable line:
//
//	2026-01-02T15:04:05.000Z INFO message key=value key=value
type TextFormatter struct {
	// TimeFormat overrides the timestamp layout. Defaults to RFC3339 with
	// millisecond precision.
	TimeFormat string
}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	layout := f.TimeFormat
	if layout == "" {
		layout = "2006-01-02T15:04:05.000Z07:00"
	}
	var buf bytes.Buffer
	buf.WriteString(entry.Timestamp.Format(layout))
	buf.WriteByte(' ')
	buf.WriteString(entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)
	for _, k := range sortedKeys(entry.Fields) {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
	}
	return buf.Bytes(), nil
}

// JSONFormatter renders entries as one JSON object per line with "ts",
// "level", and "msg" keys plus the entry fields.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	obj := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		obj[k] = v
	}
	obj["ts"] = entry.Timestamp.Format(time.RFC3339Nano)
	obj["level"] = entry.Level.String()
	obj["msg"] = entry.Message
	return json.Marshal(obj)
}

func sortedKeys(fields Fields) []string {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
