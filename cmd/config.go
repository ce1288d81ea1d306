package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/procsim/procsim/sim"
)

// loadConfig builds the engine configuration in three layers: defaults,
// then the optional YAML file, then any flags set explicitly on the
// command line.
func loadConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	applyFlagOverrides(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyFlagOverrides copies flag values into cfg for flags the user set
// explicitly, so command-line values win over the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("quantum") {
		cfg.Quantum = quantum
	}
	if flags.Changed("auto-create") {
		cfg.AutoCreate = autoCreate
	}
	if flags.Changed("arrival-probability") {
		cfg.ArrivalProbability = arrivalP
	}
	if flags.Changed("block-probability") {
		cfg.BlockProbability = blockP
	}
	if flags.Changed("service-min") {
		cfg.ServiceTime.Min = serviceMin
	}
	if flags.Changed("service-max") {
		cfg.ServiceTime.Max = serviceMax
	}
	if flags.Changed("io-min") {
		cfg.IOTime.Min = ioMin
	}
	if flags.Changed("io-max") {
		cfg.IOTime.Max = ioMax
	}
}
