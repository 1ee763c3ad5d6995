// Package metrics provides Prometheus instrumentation for byterelay
// components. All collectors live on a Registry built with promauto;
// DefaultRegistry registers against prometheus.DefaultRegisterer, and
// NewRegistry supports isolated registries for tests and embedders.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewRegistry(reg)
//	m.ChannelAppends.WithLabelValues("relay", "ok").Inc()
package metrics
