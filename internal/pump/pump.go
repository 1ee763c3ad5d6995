package pump

import (
	"context"
	"io"
	"time"

	"github.com/relaylabs/byterelay/internal/bytechan"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
	"github.com/relaylabs/byterelay/pkg/metrics"
)

// DefaultPollTimeout bounds each blocking take so cancellation is observed.
const DefaultPollTimeout = 200 * time.Millisecond

// Taker is the consumer-side surface of a byte channel. Satisfied by
// *bytechan.Channel and *bytechan.MetricsChannel.
type Taker interface {
	Take(minBytes, maxBytes int, timeout time.Duration) (bytechan.TakeResult, error)
}

// Sink receives drained chunks.
type Sink interface {
	Send(chunk []byte) error
	Flush() error
}

// WriterSink adapts an io.Writer as a Sink.
type WriterSink struct{ w io.Writer }

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

// Send implements Sink.
func (s *WriterSink) Send(chunk []byte) error { _, err := s.w.Write(chunk); return err }

// Flush implements Sink.
func (s *WriterSink) Flush() error { return nil }

// Options configure a pump run.
type Options struct {
	// Name labels the pump in logs and metrics.
	Name string
	// MinBytes is the minimum quantity each take waits for.
	MinBytes int
	// MaxBytes caps each take. Must be >= MinBytes.
	MaxBytes int
	// PollTimeout bounds each blocking take; a timeout is treated as "retry"
	// after checking ctx. Defaults to DefaultPollTimeout.
	PollTimeout time.Duration
	// Logger receives per-chunk and completion logs.
	Logger logpkg.Logger
	// Registry receives delivery counters. Defaults to metrics.DefaultRegistry.
	Registry *metrics.Registry
}

// Totals summarize a completed pump run.
type Totals struct {
	Chunks int
	Bytes  int
}

// Run polls the channel until it reports stopped-and-drained (end of
// stream), delivering every chunk to sink in arrival order. Timeouts retry;
// ctx cancellation aborts between polls. The error is nil on a clean end of
// stream, ctx.Err() on cancellation, or the sink/channel failure otherwise.
func Run(ctx context.Context, ch Taker, sink Sink, opts Options) (Totals, error) {
	if opts.Name == "" {
		opts.Name = "pump"
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	logger = logger.WithComponent(opts.Name)
	registry := opts.Registry
	if registry == nil {
		registry = metrics.DefaultRegistry
	}

	var totals Totals
	for {
		res, err := ch.Take(opts.MinBytes, opts.MaxBytes, opts.PollTimeout)
		if err != nil {
			return totals, err
		}

		if len(res.Data) > 0 {
			if err := sink.Send(res.Data); err != nil {
				return totals, err
			}
			totals.Chunks++
			totals.Bytes += len(res.Data)
			registry.PumpChunks.WithLabelValues(opts.Name).Inc()
			registry.PumpBytes.WithLabelValues(opts.Name).Add(float64(len(res.Data)))
			logger.Debug("chunk received",
				logpkg.Int("bytes", len(res.Data)),
				logpkg.Int("remaining", res.Remaining),
				logpkg.Str("status", res.Status.String()),
			)
		}

		switch res.Status {
		case bytechan.TakeTimeout:
			if err := ctx.Err(); err != nil {
				return totals, err
			}
		case bytechan.TakeStopped:
			if len(res.Data) > 0 {
				// Residual data may remain; keep draining.
				continue
			}
			if err := sink.Flush(); err != nil {
				return totals, err
			}
			logger.Info("end of stream",
				logpkg.Int("chunks", totals.Chunks),
				logpkg.Int("bytes", totals.Bytes),
			)
			return totals, nil
		}
	}
}
