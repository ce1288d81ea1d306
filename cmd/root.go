package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML configuration file

	// Engine flags shared by every subcommand. They override the config
	// file only when set explicitly on the command line.
	seed       int64
	quantum    int
	autoCreate bool
	arrivalP   float64
	blockP     float64
	serviceMin int
	serviceMax int
	ioMin      int
	ioMax      int
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Tick-based process scheduling simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up the persistent flags and attaches the subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")

	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "Seed for the simulator random generator")
	rootCmd.PersistentFlags().IntVar(&quantum, "quantum", 3, "Scheduler quantum in ticks")
	rootCmd.PersistentFlags().BoolVar(&autoCreate, "auto-create", false, "Spawn processes randomly during ticks")
	rootCmd.PersistentFlags().Float64Var(&arrivalP, "arrival-probability", 0.05, "Per-tick chance of a random arrival")
	rootCmd.PersistentFlags().Float64Var(&blockP, "block-probability", 0.10, "Per-tick chance of the running process blocking")
	rootCmd.PersistentFlags().IntVar(&serviceMin, "service-min", 5, "Minimum CPU demand drawn for auto-created processes")
	rootCmd.PersistentFlags().IntVar(&serviceMax, "service-max", 15, "Maximum CPU demand drawn for auto-created processes")
	rootCmd.PersistentFlags().IntVar(&ioMin, "io-min", 2, "Minimum I/O burst length drawn on blocking")
	rootCmd.PersistentFlags().IntVar(&ioMax, "io-max", 8, "Maximum I/O burst length drawn on blocking")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
}
