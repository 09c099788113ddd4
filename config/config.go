// Package config holds the engine's operational settings: tick rate,
// virtual device id, metrics listen address, log verbosity. These are
// service-level knobs only — the node graph shape (a mapping) is
// never expressed here, matching spec §1's non-goal of persisting
// mappings to disk. Modeled on HackerspaceKRK-temp-at's
// config.go/config_loader.go: a plain struct unmarshaled from YAML via
// github.com/goccy/go-yaml, with CLI flags able to override individual
// fields after load.
package config

import (
	"flag"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ThePletch/steam-vr-wheel/logx"
)

// OperationalConfig is read once at startup and never hot-reloaded.
type OperationalConfig struct {
	TickRateHz    int    `yaml:"tick_rate_hz"`
	VirtualDevice int    `yaml:"virtual_device"`
	MetricsAddr   string `yaml:"metrics_addr"`
	Debug         bool   `yaml:"debug"`
}

// Default returns the configuration used when no file and no flags
// override it.
func Default() OperationalConfig {
	return OperationalConfig{
		TickRateHz:    30,
		VirtualDevice: 2,
		MetricsAddr:   "",
		Debug:         false,
	}
}

// Load reads path, if non-empty, merging it over [Default], then
// applies flags from a stdlib flag.FlagSet parsed from args (argv[1:]
// style, no program name). The positional virtual-device argument
// documented in spec §6 is parsed by the caller, not here — this only
// handles named flags.
func Load(path string, args []string) (OperationalConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
		logx.Infof("config: loaded %s", path)
	}

	fs := flag.NewFlagSet("wheel", flag.ContinueOnError)
	tickRate := fs.Int("tick-rate", cfg.TickRateHz, "tick frequency in Hz")
	metricsAddr := fs.String("metrics-addr", cfg.MetricsAddr, "address to serve /metrics on, empty to disable")
	debug := fs.Bool("debug", cfg.Debug, "enable DEBUG-level cache logging")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.TickRateHz = *tickRate
	cfg.MetricsAddr = *metricsAddr
	cfg.Debug = *debug
	return cfg, nil
}
