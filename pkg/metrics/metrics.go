package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for byterelay components.
type Registry struct {
	// Channel metrics
	ChannelAppends     *prometheus.CounterVec
	ChannelAppendBytes *prometheus.CounterVec
	ChannelTakes       *prometheus.CounterVec
	ChannelTakeBytes   *prometheus.CounterVec
	ChannelTakeWait    *prometheus.HistogramVec
	ChannelBufferBytes *prometheus.GaugeVec
	ChannelCapacity    *prometheus.GaugeVec

	// Device simulator metrics
	DeviceChunks *prometheus.CounterVec

	// Pump metrics
	PumpChunks *prometheus.CounterVec
	PumpBytes  *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by byterelay components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		ChannelAppends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "appends_total",
				Help:      "Total number of append calls by result",
			},
			[]string{"channel", "result"},
		),

		ChannelAppendBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "append_bytes_total",
				Help:      "Total bytes accepted into the buffer",
			},
			[]string{"channel"},
		),

		ChannelTakes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "takes_total",
				Help:      "Total number of take calls by result",
			},
			[]string{"channel", "result"},
		),

		ChannelTakeBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "take_bytes_total",
				Help:      "Total bytes removed from the buffer",
			},
			[]string{"channel"},
		),

		ChannelTakeWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "take_wait_seconds",
				Help:      "Time a take call spent blocked before returning",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"channel"},
		),

		ChannelBufferBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "buffer_bytes",
				Help:      "Current number of buffered bytes",
			},
			[]string{"channel"},
		),

		ChannelCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "byterelay",
				Subsystem: "channel",
				Name:      "capacity_bytes",
				Help:      "Fixed buffer capacity",
			},
			[]string{"channel"},
		),

		DeviceChunks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "device",
				Name:      "chunks_total",
				Help:      "Chunks emitted by device simulators by result",
			},
			[]string{"device", "result"},
		),

		PumpChunks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "pump",
				Name:      "chunks_total",
				Help:      "Chunks delivered to the sink",
			},
			[]string{"pump"},
		),

		PumpBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "byterelay",
				Subsystem: "pump",
				Name:      "bytes_total",
				Help:      "Bytes delivered to the sink",
			},
			[]string{"pump"},
		),
	}
}
