package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Channel ChannelConfig `json:"channel"`
	Read    ReadConfig    `json:"read"`
	Device  DeviceConfig  `json:"device"`
	Stats   StatsConfig   `json:"stats"`
	Metrics MetricsConfig `json:"metrics"`
}

// ChannelConfig sizes the relay buffer.
type ChannelConfig struct {
	CapacityBytes int `json:"capacityBytes"`
}

// ReadConfig shapes the consumer's take calls.
type ReadConfig struct {
	MinBytes  int `json:"minBytes"`
	MaxBytes  int `json:"maxBytes"`
	TimeoutMs int `json:"timeoutMs"`
}

// DeviceConfig shapes the simulated producers.
type DeviceConfig struct {
	Producers  int `json:"producers"`
	Iterations int `json:"iterations"`
	ChunkBytes int `json:"chunkBytes"`
	DelayMs    int `json:"delayMs"`
}

// StatsConfig schedules periodic buffer-stats logging. Schedule is a cron
// expression (robfig/cron syntax, e.g. "@every 5s"); empty disables the job.
type StatsConfig struct {
	Schedule string `json:"schedule"`
}

// MetricsConfig exposes Prometheus metrics over HTTP. Empty Addr disables
// the listener.
type MetricsConfig struct {
	Addr string `json:"addr"`
}

// Default returns built-in defaults matching the reference device profile:
// a 4 KiB buffer read in 512-byte chunks with a 1s read timeout, fed by one
// producer emitting five 1 KiB chunks 100ms apart.
func Default() Config {
	return Config{
		Channel: ChannelConfig{CapacityBytes: 4096},
		Read:    ReadConfig{MinBytes: 512, MaxBytes: 512, TimeoutMs: 1000},
		Device:  DeviceConfig{Producers: 1, Iterations: 5, ChunkBytes: 1024, DelayMs: 100},
	}
}

// Load reads configuration from a JSON file overlaid on defaults. If path is
// empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the channel or consumer would refuse at
// runtime.
func (c Config) Validate() error {
	if c.Channel.CapacityBytes <= 0 {
		return fmt.Errorf("channel.capacityBytes must be positive, got %d", c.Channel.CapacityBytes)
	}
	if c.Read.MinBytes < 0 {
		return fmt.Errorf("read.minBytes must be non-negative, got %d", c.Read.MinBytes)
	}
	if c.Read.MaxBytes < c.Read.MinBytes {
		return fmt.Errorf("read.maxBytes (%d) must be >= read.minBytes (%d)", c.Read.MaxBytes, c.Read.MinBytes)
	}
	if c.Device.Producers <= 0 {
		return fmt.Errorf("device.producers must be positive, got %d", c.Device.Producers)
	}
	return nil
}
