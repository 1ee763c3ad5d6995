package elevatorsim

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaylabs/byterelay/internal/elevator"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
)

// DefaultTick is the pause between cabin moves.
const DefaultTick = 250 * time.Millisecond

// Options configure an elevator simulation run.
type Options struct {
	// External are hall calls registered before the cabin starts moving.
	External []int
	// Internal are passenger floor selections registered before the run.
	Internal []int
	// Tick is the pause between moves. Defaults to DefaultTick.
	Tick time.Duration
	// Logger receives per-move state. Defaults to a console logger.
	Logger logpkg.Logger
}

// Run registers the requested floors and steps the cabin until every request
// is served or ctx is cancelled. Invalid floors are logged and skipped, not
// fatal.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	logger = logger.WithComponent("elevator")

	c := elevator.NewController()
	for _, floor := range opts.External {
		if err := c.AddExternalRequest(floor); err != nil {
			logger.Warn("hall call rejected", logpkg.Int("floor", floor), logpkg.Err(err))
			continue
		}
		logger.Info("hall call registered", logpkg.Int("floor", floor))
	}
	for _, floor := range opts.Internal {
		if err := c.AddInternalRequest(floor); err != nil {
			logger.Warn("cabin request rejected", logpkg.Int("floor", floor), logpkg.Err(err))
			continue
		}
		logger.Info("cabin request registered", logpkg.Int("floor", floor))
	}

	logger.Info("simulation start",
		logpkg.Int("floor", c.CurrentFloor()),
		logpkg.Str("direction", c.CurrentDirection().String()),
	)

	for c.HasRequests() {
		select {
		case <-sctx.Done():
			return sctx.Err()
		case <-time.After(tick):
		}
		c.Move()
		logger.Info("cabin moved",
			logpkg.Int("floor", c.CurrentFloor()),
			logpkg.Str("direction", c.CurrentDirection().String()),
		)
	}

	logger.Info("simulation complete", logpkg.Int("floor", c.CurrentFloor()))
	return nil
}
