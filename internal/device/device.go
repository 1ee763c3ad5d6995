package device

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/relaylabs/byterelay/internal/bytechan"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
	"github.com/relaylabs/byterelay/pkg/metrics"
)

// Defaults mirror the reference device: five 1 KiB chunks, 100ms apart.
const (
	DefaultIterations = 5
	DefaultChunkBytes = 1024
	DefaultDelay      = 100 * time.Millisecond
)

// Options configure a Simulator.
type Options struct {
	// Name labels the simulator in logs and metrics.
	Name string
	// Iterations is the number of chunks to emit.
	Iterations int
	// ChunkBytes is the size of each chunk. Chunk i is filled with byte(i).
	ChunkBytes int
	// Delay is the pause between chunks.
	Delay time.Duration
	// Logger receives per-chunk outcomes. Defaults to a console logger.
	Logger logpkg.Logger
	// Registry receives chunk counters. Defaults to metrics.DefaultRegistry.
	Registry *metrics.Registry
}

// Stats summarize a simulator run. Overflowed chunks are dropped, never
// retried: backpressure handling is this driver's policy decision, and the
// count is surfaced rather than hidden.
type Stats struct {
	Emitted      int
	EmittedBytes int
	Dropped      int
	DroppedBytes int
}

// Simulator emits synthetic device data through an append capability.
type Simulator struct {
	opts     Options
	logger   logpkg.Logger
	registry *metrics.Registry
}

// New creates a Simulator, applying defaults for unset options.
func New(opts Options) *Simulator {
	if opts.Name == "" {
		opts.Name = "device"
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.ChunkBytes <= 0 {
		opts.ChunkBytes = DefaultChunkBytes
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	registry := opts.Registry
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	return &Simulator{opts: opts, logger: logger.WithComponent(opts.Name), registry: registry}
}

// Run emits chunks through emit until all iterations complete, the channel
// stops, or ctx is cancelled. It returns the run stats together with
// ctx.Err() when cancelled; a stopped channel ends the run without error.
func (s *Simulator) Run(ctx context.Context, emit bytechan.AppendFunc) (Stats, error) {
	var stats Stats
	for i := 0; i < s.opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		chunk := bytes.Repeat([]byte{byte(i)}, s.opts.ChunkBytes)
		err := emit(chunk)
		switch {
		case err == nil:
			stats.Emitted++
			stats.EmittedBytes += len(chunk)
			s.registry.DeviceChunks.WithLabelValues(s.opts.Name, "ok").Inc()
			s.logger.Debug("chunk emitted", logpkg.Int("iteration", i), logpkg.Int("bytes", len(chunk)))
		case errors.Is(err, bytechan.ErrOverflow):
			stats.Dropped++
			stats.DroppedBytes += len(chunk)
			s.registry.DeviceChunks.WithLabelValues(s.opts.Name, "overflow").Inc()
			s.logger.Warn("chunk dropped on overflow", logpkg.Int("iteration", i), logpkg.Int("bytes", len(chunk)))
		case errors.Is(err, bytechan.ErrStopped):
			s.registry.DeviceChunks.WithLabelValues(s.opts.Name, "stopped").Inc()
			s.logger.Info("channel stopped, ending run", logpkg.Int("iteration", i))
			return stats, nil
		default:
			return stats, err
		}

		if i == s.opts.Iterations-1 {
			break
		}
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-time.After(s.opts.Delay):
		}
	}
	s.logger.Info("device run complete",
		logpkg.Int("emitted", stats.Emitted),
		logpkg.Int("emitted_bytes", stats.EmittedBytes),
		logpkg.Int("dropped", stats.Dropped),
	)
	return stats, nil
}
