package runtime

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/relaylabs/byterelay/internal/bytechan"
	cfgpkg "github.com/relaylabs/byterelay/internal/config"
	"github.com/relaylabs/byterelay/pkg/id"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
	"github.com/relaylabs/byterelay/pkg/metrics"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Registry defaults to metrics.DefaultRegistry.
	Registry *metrics.Registry
}

// Runtime wires the byte channel, session identity, metrics, and the
// scheduled stats job for a single relay instance.
type Runtime struct {
	channel *bytechan.MetricsChannel
	config  cfgpkg.Config
	logger  logpkg.Logger
	session id.ID
	sched   *cron.Cron
}

// Open validates the configuration and builds a Runtime. When the config
// carries a stats schedule, a cron job logging buffer occupancy is started.
func Open(opts Options) (*Runtime, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}

	channel, err := bytechan.NewWithMetrics(opts.Config.Channel.CapacityBytes, "relay", opts.Registry)
	if err != nil {
		return nil, err
	}

	session := id.NewGenerator().Next()
	logger = logger.With(logpkg.Str("session", session.Short()))

	rt := &Runtime{
		channel: channel,
		config:  opts.Config,
		logger:  logger,
		session: session,
	}

	if schedule := opts.Config.Stats.Schedule; schedule != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(schedule, rt.logStats); err != nil {
			return nil, err
		}
		sched.Start()
		rt.sched = sched
		logger.Info("stats job scheduled", logpkg.Str("schedule", schedule))
	}

	logger.Info("runtime open", logpkg.Int("capacity", channel.Cap()))
	return rt, nil
}

// Close stops the stats scheduler and the channel. Blocked consumers wake
// and drain; producers are rejected from then on.
func (r *Runtime) Close() error {
	if r.sched != nil {
		ctx := r.sched.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
		r.sched = nil
	}
	r.channel.Stop()
	return nil
}

// CheckHealth verifies the channel still accepts producers.
func (r *Runtime) CheckHealth() error {
	if err := r.channel.Append(nil); err != nil {
		return errors.New("channel not accepting appends: " + err.Error())
	}
	return nil
}

// Channel returns the relay channel.
func (r *Runtime) Channel() *bytechan.MetricsChannel { return r.channel }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the session-tagged logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }

// SessionID returns this runtime's session identifier.
func (r *Runtime) SessionID() id.ID { return r.session }

// ReadTimeout returns the configured consumer poll timeout.
func (r *Runtime) ReadTimeout() time.Duration {
	return time.Duration(r.config.Read.TimeoutMs) * time.Millisecond
}

func (r *Runtime) logStats() {
	r.logger.Info("buffer stats",
		logpkg.Int("size", r.channel.Size()),
		logpkg.Int("capacity", r.channel.Cap()),
		logpkg.Bool("stopped", r.channel.IsStopped()),
	)
}
