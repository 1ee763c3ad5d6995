// Package pump implements the consuming side of a byte channel: a poll loop
// that treats take timeouts as "retry" and an empty stopped result as end of
// stream, delivering drained chunks to a Sink.
//
// Example:
//
//	totals, err := pump.Run(ctx, ch, pump.NewWriterSink(out), pump.Options{
//	    MinBytes: 512,
//	    MaxBytes: 512,
//	    PollTimeout: 200 * time.Millisecond,
//	})
package pump
