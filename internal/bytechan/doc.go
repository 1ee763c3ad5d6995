// Package bytechan implements a bounded, thread-safe byte channel that
// decouples producing goroutines from a consuming goroutine.
//
// # Overview
//
// Append is asynchronous: it never suspends and either accepts the whole
// payload, rejects it with ErrOverflow (backpressure), or rejects it with
// ErrStopped. Take is synchronous: it blocks until the buffer holds at least
// minBytes, the channel is stopped, or a deadline expires, then removes up
// to maxBytes from the head in FIFO order. A single Append call's bytes are
// contiguous; calls from different producers interleave in lock order.
//
// Stop wakes every blocked Take; residual bytes remain drainable after stop
// until the buffer is empty, and only then does Take report an empty
// TakeStopped (end of stream). Restart re-arms the channel without clearing
// buffered data.
//
// API surface
//
//	ch, _ := bytechan.New(4096)
//	emit := ch.AppendFunc()           // capability for producers
//	_ = emit([]byte("payload"))
//
//	res, err := ch.Take(512, 512, time.Second)
//	switch {
//	case err != nil:                  // ErrInvalidArgument
//	case res.Status == bytechan.TakeTimeout:   // re-poll
//	case res.Status == bytechan.TakeStopped && len(res.Data) == 0: // done
//	default:
//		process(res.Data)
//	}
//
//	ch.Stop()
//
// # Metrics
//
// NewWithMetrics/Instrument wrap a channel with Prometheus collectors for
// append/take outcomes, wait times, and buffer occupancy.
package bytechan
