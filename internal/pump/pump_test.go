package pump

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaylabs/byterelay/internal/bytechan"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
	"github.com/relaylabs/byterelay/pkg/metrics"
)

func optionsForTest(t *testing.T, minBytes, maxBytes int) Options {
	t.Helper()
	return Options{
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		PollTimeout: 50 * time.Millisecond,
		Logger:      logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel)),
		Registry:    metrics.NewRegistry(prometheus.NewRegistry()),
	}
}

func TestRunDeliversUntilEndOfStream(t *testing.T) {
	ch, err := bytechan.New(4096)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}

	go func() {
		for i := 0; i < 4; i++ {
			if err := ch.Append(bytes.Repeat([]byte{byte(i)}, 256)); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
			time.Sleep(10 * time.Millisecond)
		}
		ch.Stop()
	}()

	var out bytes.Buffer
	totals, err := Run(context.Background(), ch, NewWriterSink(&out), optionsForTest(t, 256, 256))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if totals.Bytes != 1024 {
		t.Fatalf("expected 1024 bytes delivered, got %d", totals.Bytes)
	}
	if out.Len() != 1024 {
		t.Fatalf("sink holds %d bytes, want 1024", out.Len())
	}
	// Arrival order preserved.
	for i := 0; i < 4; i++ {
		chunk := out.Bytes()[i*256 : (i+1)*256]
		if chunk[0] != byte(i) {
			t.Fatalf("chunk %d out of order, fill byte %d", i, chunk[0])
		}
	}
}

func TestRunDrainsResidualAfterStop(t *testing.T) {
	ch, err := bytechan.New(64)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	if err := ch.Append([]byte("residual")); err != nil {
		t.Fatalf("append: %v", err)
	}
	ch.Stop()

	var out bytes.Buffer
	totals, err := Run(context.Background(), ch, NewWriterSink(&out), optionsForTest(t, 0, 64))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "residual" {
		t.Fatalf("expected residual drain, got %q", out.String())
	}
	if totals.Chunks != 1 {
		t.Fatalf("expected 1 chunk, got %d", totals.Chunks)
	}
}

func TestRunRetriesTimeoutsUntilCancelled(t *testing.T) {
	ch, err := bytechan.New(64)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	totals, err := Run(ctx, ch, NewWriterSink(&bytes.Buffer{}), optionsForTest(t, 8, 8))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if totals.Chunks != 0 {
		t.Fatalf("expected no chunks, got %d", totals.Chunks)
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("gave up before cancellation: %v", elapsed)
	}
}

func TestRunReportsInvalidOptions(t *testing.T) {
	ch, err := bytechan.New(64)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	opts := optionsForTest(t, 10, 3)
	if _, err := Run(context.Background(), ch, NewWriterSink(&bytes.Buffer{}), opts); !errors.Is(err, bytechan.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

type failingSink struct{}

func (failingSink) Send([]byte) error { return errors.New("sink full") }
func (failingSink) Flush() error      { return nil }

func TestRunSurfacesSinkError(t *testing.T) {
	ch, err := bytechan.New(64)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	if err := ch.Append([]byte("data")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := Run(context.Background(), ch, failingSink{}, optionsForTest(t, 4, 4)); err == nil {
		t.Fatalf("expected sink error")
	}
}
