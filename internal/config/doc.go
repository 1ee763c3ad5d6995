// Package config provides loading and environment overlay for byterelay
// configuration. It exposes a Default() baseline, JSON file loading, and a
// RELAY_* environment overlay, composed in that order before flag overrides.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/byterelay.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
