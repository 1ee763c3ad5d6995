package relayrun

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	cfgpkg "github.com/relaylabs/byterelay/internal/config"
	"github.com/relaylabs/byterelay/internal/device"
	"github.com/relaylabs/byterelay/internal/pump"
	"github.com/relaylabs/byterelay/internal/runtime"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

// Options configure a relay run.
type Options struct {
	Config cfgpkg.Config
	// Out receives the relayed bytes. Defaults to io.Discard.
	Out io.Writer
}

// Run drives the full relay: simulated device producers feed the channel,
// a pump drains it to Out, and the run ends when every producer finishes
// and the buffer is empty. SIGINT/SIGTERM stop the producers early; the
// pump still drains whatever the buffer holds before returning.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context
	// or if signal delivery needs to be observed here. We layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build process-wide logger using env/ApplyConfig; defaults: level=info, format=text
	cfg := &logpkg.Config{
		Level:  getenvDefault("RELAY_LOG_LEVEL", "info"),
		Format: getenvDefault("RELAY_LOG_FORMAT", "text"),
	}
	procLogger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		// Fallback to a sane default
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., net/http) to our logger
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: procLogger})
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.Logger()

	logger.Info("starting relay",
		logpkg.Int("capacity", opts.Config.Channel.CapacityBytes),
		logpkg.Int("producers", opts.Config.Device.Producers),
		logpkg.Int("read_min", opts.Config.Read.MinBytes),
		logpkg.Int("read_max", opts.Config.Read.MaxBytes),
		logpkg.Str("level", cfg.Level),
		logpkg.Str("format", cfg.Format),
	)

	var metricsSrv *http.Server
	if addr := opts.Config.Metrics.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux}
		go func() {
			logger.Info("metrics listener up", logpkg.Str("addr", addr))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics listener error", logpkg.Err(err))
			}
		}()
	}

	emit := rt.Channel().AppendFunc()
	var wg sync.WaitGroup
	for i := 0; i < opts.Config.Device.Producers; i++ {
		sim := device.New(device.Options{
			Name:       fmt.Sprintf("device-%d", i),
			Iterations: opts.Config.Device.Iterations,
			ChunkBytes: opts.Config.Device.ChunkBytes,
			Delay:      time.Duration(opts.Config.Device.DelayMs) * time.Millisecond,
			Logger:     logger,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sim.Run(sctx, emit); err != nil && sctx.Err() == nil {
				logger.Error("device run failed", logpkg.Err(err))
			}
		}()
	}

	// Once every producer is done (or cancelled), stop the channel so the
	// pump drains the residue and sees end of stream.
	go func() {
		wg.Wait()
		rt.Channel().Stop()
	}()

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	// The pump runs on a background context on purpose: a signal stops the
	// producers, and the pump must still drain what the buffer holds.
	totals, err := pump.Run(context.Background(), rt.Channel(), pump.NewWriterSink(out), pump.Options{
		Name:        "relay-pump",
		MinBytes:    opts.Config.Read.MinBytes,
		MaxBytes:    opts.Config.Read.MaxBytes,
		PollTimeout: rt.ReadTimeout(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	wg.Wait()

	if metricsSrv != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = metricsSrv.Shutdown(shutCtx)
		cancel()
	}

	logger.Info("relay finished",
		logpkg.Int("chunks", totals.Chunks),
		logpkg.Int("bytes", totals.Bytes),
	)
	return nil
}
