package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	elevatorsim "github.com/relaylabs/byterelay/internal/cmd/elevator"
	relayrun "github.com/relaylabs/byterelay/internal/cmd/relay"
	cfgpkg "github.com/relaylabs/byterelay/internal/config"
	logpkg "github.com/relaylabs/byterelay/pkg/log"
)

func main() {
	// Respect RELAY_LOG_LEVEL for CLI output before any command runs.
	level := os.Getenv("RELAY_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "byterelay",
		Short: "Byterelay CLI",
		Long:  "Byterelay relays bounded byte streams between producers and a consumer. This CLI runs the relay demo and the elevator simulation.",
	}

	// relay run
	relayCmd := &cobra.Command{Use: "relay", Short: "Relay commands"}
	relayRunCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the relay demo (device producers feeding a pumped channel)",
		Aliases: []string{"start"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)

			// Changed flags override file and environment.
			flagInt := func(name string, dst *int) {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetInt(name)
					*dst = v
				}
			}
			flagStr := func(name string, dst *string) {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					*dst = v
				}
			}
			flagInt("capacity-bytes", &cfg.Channel.CapacityBytes)
			flagInt("read-min-bytes", &cfg.Read.MinBytes)
			flagInt("read-max-bytes", &cfg.Read.MaxBytes)
			flagInt("read-timeout-ms", &cfg.Read.TimeoutMs)
			flagInt("producers", &cfg.Device.Producers)
			flagInt("iterations", &cfg.Device.Iterations)
			flagInt("chunk-bytes", &cfg.Device.ChunkBytes)
			flagInt("delay-ms", &cfg.Device.DelayMs)
			flagStr("stats-schedule", &cfg.Stats.Schedule)
			flagStr("metrics-addr", &cfg.Metrics.Addr)

			if logLevel != "" {
				_ = os.Setenv("RELAY_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("RELAY_LOG_FORMAT", logFormat)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := relayrun.Run(ctx, relayrun.Options{Config: cfg, Out: os.Stdout}); err != nil {
				return fmt.Errorf("relay error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	relayRunCmd.Flags().String("config", "", "Path to JSON config file (optional)")
	relayRunCmd.Flags().Int("capacity-bytes", 4096, "Channel capacity in bytes")
	relayRunCmd.Flags().Int("read-min-bytes", 512, "Minimum bytes per take")
	relayRunCmd.Flags().Int("read-max-bytes", 512, "Maximum bytes per take")
	relayRunCmd.Flags().Int("read-timeout-ms", 1000, "Take timeout in ms")
	relayRunCmd.Flags().Int("producers", 1, "Number of simulated devices")
	relayRunCmd.Flags().Int("iterations", 5, "Chunks emitted per device")
	relayRunCmd.Flags().Int("chunk-bytes", 1024, "Bytes per emitted chunk")
	relayRunCmd.Flags().Int("delay-ms", 100, "Delay between chunks in ms")
	relayRunCmd.Flags().String("stats-schedule", "", "Cron schedule for buffer stats logging (e.g. \"@every 5s\")")
	relayRunCmd.Flags().String("metrics-addr", os.Getenv("RELAY_METRICS_ADDR"), "Prometheus metrics listen address (optional)")
	relayRunCmd.Flags().String("log-level", os.Getenv("RELAY_LOG_LEVEL"), "Log level: debug|info|warn|error")
	relayRunCmd.Flags().String("log-format", os.Getenv("RELAY_LOG_FORMAT"), "Log format: text|json (default text)")
	relayCmd.AddCommand(relayRunCmd)
	rootCmd.AddCommand(relayCmd)

	// elevator run
	elevatorCmd := &cobra.Command{Use: "elevator", Short: "Elevator simulation commands"}
	elevatorRunCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the elevator simulation with scripted requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			external, _ := cmd.Flags().GetIntSlice("external")
			internal, _ := cmd.Flags().GetIntSlice("internal")
			tickMs, _ := cmd.Flags().GetInt("tick-ms")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := elevatorsim.Run(ctx, elevatorsim.Options{
				External: external,
				Internal: internal,
				Tick:     time.Duration(tickMs) * time.Millisecond,
				Logger:   logger,
			}); err != nil {
				return fmt.Errorf("elevator error: %w", err)
			}
			return nil
		},
	}
	elevatorRunCmd.Flags().IntSlice("external", []int{5}, "Hall call floors")
	elevatorRunCmd.Flags().IntSlice("internal", []int{3, 7}, "Cabin request floors")
	elevatorRunCmd.Flags().Int("tick-ms", 250, "Pause between cabin moves in ms")
	elevatorCmd.AddCommand(elevatorRunCmd)
	rootCmd.AddCommand(elevatorCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
