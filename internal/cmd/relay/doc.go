// Package relayrun exposes a shared Run entrypoint used by the CLI to drive
// the full relay: device producers feeding the byte channel and a pump
// draining it, with lifecycle and signal handling.
//
// Example:
//
//	opts := relayrun.Options{Config: config.Default(), Out: os.Stdout}
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = relayrun.Run(ctx, opts)
package relayrun
