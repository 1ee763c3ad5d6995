// Package runtime wires the byte channel, session identity, metrics, and
// the scheduled stats job into a single relay instance. It exposes
// Open/Close, a basic health check, and accessors used by the CLI drivers.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default(), Logger: logger})
//	defer rt.Close()
//	emit := rt.Channel().AppendFunc()
//	_ = emit([]byte("hello"))
package runtime
