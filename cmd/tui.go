package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/internal/tui"
	"github.com/procsim/procsim/sim"
)

// tuiCmd launches the interactive terminal front end
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Drive the simulation interactively in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Unable to build simulator: %v", err)
		}

		if err := tui.Run(s); err != nil {
			logrus.Fatalf("TUI failed: %v", err)
		}
	},
}
