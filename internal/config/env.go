package config

import (
	"os"
	"strconv"
)

// FromEnv overlays RELAY_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	overlayInt("RELAY_CAPACITY_BYTES", &cfg.Channel.CapacityBytes)
	overlayInt("RELAY_READ_MIN_BYTES", &cfg.Read.MinBytes)
	overlayInt("RELAY_READ_MAX_BYTES", &cfg.Read.MaxBytes)
	overlayInt("RELAY_READ_TIMEOUT_MS", &cfg.Read.TimeoutMs)
	overlayInt("RELAY_DEVICE_PRODUCERS", &cfg.Device.Producers)
	overlayInt("RELAY_DEVICE_ITERATIONS", &cfg.Device.Iterations)
	overlayInt("RELAY_DEVICE_CHUNK_BYTES", &cfg.Device.ChunkBytes)
	overlayInt("RELAY_DEVICE_DELAY_MS", &cfg.Device.DelayMs)
	overlayStr("RELAY_STATS_SCHEDULE", &cfg.Stats.Schedule)
	overlayStr("RELAY_METRICS_ADDR", &cfg.Metrics.Addr)
}

func overlayInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overlayStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
