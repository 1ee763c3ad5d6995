// Package log provides byterelay's structured logging facade and utilities.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context, formatted as text or JSON and written
// to pluggable outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("relay"), log.Str("session", sid))
//	l.Info("channel ready", log.Int("capacity", 4096))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config supporting
// text or JSON formatting.
//
// # Interop
//
// To integrate with libraries expecting *log.Logger, use ToStdLogger or
// RedirectStdLog.
package log
