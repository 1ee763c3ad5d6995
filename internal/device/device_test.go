package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaylabs/byterelay/internal/bytechan"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
	"github.com/relaylabs/byterelay/pkg/metrics"
)

func newSimulatorForTest(t *testing.T, opts Options) *Simulator {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry = metrics.NewRegistry(prometheus.NewRegistry())
	}
	if opts.Logger == nil {
		opts.Logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	return New(opts)
}

func TestRunEmitsAllChunks(t *testing.T) {
	ch, err := bytechan.New(16 << 10)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	sim := newSimulatorForTest(t, Options{Iterations: 3, ChunkBytes: 64, Delay: time.Millisecond})

	stats, err := sim.Run(context.Background(), ch.AppendFunc())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Emitted != 3 || stats.EmittedBytes != 192 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if ch.Size() != 192 {
		t.Fatalf("expected 192 buffered bytes, got %d", ch.Size())
	}

	res, err := ch.Take(192, 192, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	for i := 0; i < 3; i++ {
		chunk := res.Data[i*64 : (i+1)*64]
		for _, b := range chunk {
			if b != byte(i) {
				t.Fatalf("chunk %d carries wrong fill byte %d", i, b)
			}
		}
	}
}

func TestRunDropsOnOverflow(t *testing.T) {
	ch, err := bytechan.New(100)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	sim := newSimulatorForTest(t, Options{Iterations: 3, ChunkBytes: 64, Delay: time.Millisecond})

	stats, err := sim.Run(context.Background(), ch.AppendFunc())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Emitted != 1 || stats.Dropped != 2 {
		t.Fatalf("expected 1 emitted / 2 dropped, got %+v", stats)
	}
	if stats.DroppedBytes != 128 {
		t.Fatalf("expected 128 dropped bytes, got %d", stats.DroppedBytes)
	}
	if ch.Size() != 64 {
		t.Fatalf("buffer should hold only the first chunk, got %d", ch.Size())
	}
}

func TestRunEndsWhenChannelStops(t *testing.T) {
	ch, err := bytechan.New(16 << 10)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	ch.Stop()
	sim := newSimulatorForTest(t, Options{Iterations: 5, ChunkBytes: 8, Delay: time.Millisecond})

	stats, err := sim.Run(context.Background(), ch.AppendFunc())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Emitted != 0 {
		t.Fatalf("expected no chunks emitted on stopped channel, got %+v", stats)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ch, err := bytechan.New(16 << 10)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	sim := newSimulatorForTest(t, Options{Iterations: 100, ChunkBytes: 8, Delay: 50 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	stats, err := sim.Run(ctx, ch.AppendFunc())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if stats.Emitted == 0 || stats.Emitted >= 100 {
		t.Fatalf("expected a partial run, got %+v", stats)
	}
}

func TestDefaultsApplied(t *testing.T) {
	sim := newSimulatorForTest(t, Options{})
	if sim.opts.Iterations != DefaultIterations || sim.opts.ChunkBytes != DefaultChunkBytes || sim.opts.Delay != DefaultDelay {
		t.Fatalf("defaults not applied: %+v", sim.opts)
	}
}
