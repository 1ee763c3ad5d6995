package log

import (
	stdlog "log"
	"strings"
)

// stdWriter adapts a Logger to io.Writer so stdlib log output can be routed
// through the structured pipeline.
type stdWriter struct {
	logger Logger
	level  Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger whose output is routed through logger at
// the given level. Useful for libraries that only accept stdlib loggers.
func ToStdLogger(logger Logger, level Level) *stdlog.Logger {
	return stdlog.New(stdWriter{logger: logger, level: level}, "", 0)
}

// RedirectStdLog reroutes the stdlib default logger through logger at info
// level.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{logger: logger, level: InfoLevel})
}
