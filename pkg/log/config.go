package log

import "fmt"

// Config declares a logger in configuration files and environment overlays.
type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ApplyConfig builds a Logger from a declarative Config. Empty fields fall
// back to info level and text format.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg.Level != "" {
		parsed, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	var formatter Formatter
	switch cfg.Format {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewConsoleOutput()),
	), nil
}
