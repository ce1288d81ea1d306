package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/internal/api"
	"github.com/procsim/procsim/sim"
)

var (
	serveHost string
	servePort int
)

// serveCmd starts the HTTP API around a fresh simulator instance
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation over a JSON HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Unable to build simulator: %v", err)
		}

		server := api.NewServer(api.ServerConfig{Host: serveHost, Port: servePort}, api.NewHandlers(s))

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				logrus.Fatalf("API server failed: %v", err)
			}
		case sig := <-sigCh:
			logrus.Infof("Received %v, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logrus.Errorf("Shutdown error: %v", err)
			}
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host interface to bind")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
}
