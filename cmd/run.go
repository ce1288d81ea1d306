package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/procsim/procsim/internal/export"
	"github.com/procsim/procsim/sim"
)

var (
	ticks        int     // Number of ticks to simulate
	tickRate     float64 // Ticks per second; 0 runs as fast as possible
	csvPrefix    string  // Prefix for CSV result files
	initialProcs int     // Processes created and promoted before tick 1
	initialBurst int     // CPU demand of each initial process
)

// runCmd executes a headless batch simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless batch simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Unable to build simulator: %v", err)
		}

		for i := 0; i < initialProcs; i++ {
			if _, err := s.CreateProcess("", initialBurst); err != nil {
				logrus.Fatalf("Unable to create initial process: %v", err)
			}
		}
		s.PromoteAll()

		logrus.Infof("Starting simulation: %d ticks, quantum=%d, seed=%d, autoCreate=%v",
			ticks, cfg.Quantum, cfg.Seed, cfg.AutoCreate)

		// An optional limiter paces the loop in real time, for watching a
		// run unfold or feeding a downstream consumer at a fixed cadence.
		var limiter *rate.Limiter
		if tickRate > 0 {
			limiter = rate.NewLimiter(rate.Limit(tickRate), 1)
		}

		ctx := context.Background()
		startTime := time.Now()
		for i := 0; i < ticks; i++ {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					logrus.Fatalf("Pacing interrupted: %v", err)
				}
			}
			if err := s.Tick(); err != nil {
				logrus.Fatalf("Tick %d failed: %v", i+1, err)
			}
		}

		snap := s.Snapshot()
		snap.Print()
		logrus.Infof("Simulated %d ticks in %v", ticks, time.Since(startTime))

		if csvPrefix != "" {
			if err := export.ProcessesToFile(csvPrefix+"_processes.csv", s.Processes()); err != nil {
				logrus.Fatalf("Unable to write process CSV: %v", err)
			}
			if err := export.MetricsToFile(csvPrefix+"_metrics.csv", snap); err != nil {
				logrus.Fatalf("Unable to write metrics CSV: %v", err)
			}
			logrus.Infof("Results written to %s_processes.csv and %s_metrics.csv", csvPrefix, csvPrefix)
		}
	},
}

func init() {
	runCmd.Flags().IntVar(&ticks, "ticks", 100, "Number of ticks to simulate")
	runCmd.Flags().Float64Var(&tickRate, "tick-rate", 0, "Ticks per second (0 = unpaced)")
	runCmd.Flags().StringVar(&csvPrefix, "csv", "", "Prefix for CSV result files")
	runCmd.Flags().IntVar(&initialProcs, "procs", 0, "Processes created and promoted before the first tick")
	runCmd.Flags().IntVar(&initialBurst, "burst", 10, "CPU demand of each initial process")
}
