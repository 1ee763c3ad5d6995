package bytechan

import (
	"time"

	"github.com/relaylabs/byterelay/pkg/metrics"
)

// MetricsChannel wraps a Channel with Prometheus metrics collection. It
// exposes the same operations; the wrapped Channel stays usable directly.
type MetricsChannel struct {
	ch       *Channel
	name     string
	registry *metrics.Registry
}

// NewWithMetrics creates a channel and wraps it with metrics recorded under
// the given name. A nil registry uses metrics.DefaultRegistry.
func NewWithMetrics(capacity int, name string, registry *metrics.Registry) (*MetricsChannel, error) {
	ch, err := New(capacity)
	if err != nil {
		return nil, err
	}
	return Instrument(ch, name, registry), nil
}

// Instrument wraps an existing channel with metrics collection.
func Instrument(ch *Channel, name string, registry *metrics.Registry) *MetricsChannel {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	mc := &MetricsChannel{ch: ch, name: name, registry: registry}
	mc.registry.ChannelCapacity.WithLabelValues(name).Set(float64(ch.Cap()))
	mc.registry.ChannelBufferBytes.WithLabelValues(name).Set(float64(ch.Size()))
	return mc
}

// Unwrap returns the underlying channel.
func (mc *MetricsChannel) Unwrap() *Channel { return mc.ch }

// Append forwards to the channel and records the outcome.
func (mc *MetricsChannel) Append(p []byte) error {
	err := mc.ch.Append(p)
	mc.registry.ChannelAppends.WithLabelValues(mc.name, appendResult(err)).Inc()
	if err == nil {
		mc.registry.ChannelAppendBytes.WithLabelValues(mc.name).Add(float64(len(p)))
		mc.registry.ChannelBufferBytes.WithLabelValues(mc.name).Set(float64(mc.ch.Size()))
	}
	return err
}

// Take forwards to the channel and records the outcome and wait time.
func (mc *MetricsChannel) Take(minBytes, maxBytes int, timeout time.Duration) (TakeResult, error) {
	start := time.Now()
	res, err := mc.ch.Take(minBytes, maxBytes, timeout)
	if err != nil {
		mc.registry.ChannelTakes.WithLabelValues(mc.name, "invalid_argument").Inc()
		return res, err
	}
	mc.registry.ChannelTakeWait.WithLabelValues(mc.name).Observe(time.Since(start).Seconds())
	mc.registry.ChannelTakes.WithLabelValues(mc.name, res.Status.String()).Inc()
	if len(res.Data) > 0 {
		mc.registry.ChannelTakeBytes.WithLabelValues(mc.name).Add(float64(len(res.Data)))
	}
	mc.registry.ChannelBufferBytes.WithLabelValues(mc.name).Set(float64(res.Remaining))
	return res, nil
}

// Stop forwards to the channel.
func (mc *MetricsChannel) Stop() { mc.ch.Stop() }

// Restart forwards to the channel.
func (mc *MetricsChannel) Restart() { mc.ch.Restart() }

// Size forwards to the channel.
func (mc *MetricsChannel) Size() int { return mc.ch.Size() }

// Cap forwards to the channel.
func (mc *MetricsChannel) Cap() int { return mc.ch.Cap() }

// IsStopped forwards to the channel.
func (mc *MetricsChannel) IsStopped() bool { return mc.ch.IsStopped() }

// AppendFunc returns the producer capability bound to the instrumented
// append, so driver traffic is counted.
func (mc *MetricsChannel) AppendFunc() AppendFunc { return mc.Append }

func appendResult(err error) string {
	switch err {
	case nil:
		return "ok"
	case ErrOverflow:
		return "overflow"
	case ErrStopped:
		return "stopped"
	default:
		return "error"
	}
}
