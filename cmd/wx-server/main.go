// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sumanth-CBRE/Weatherbot/internal/config"
	"github.com/Sumanth-CBRE/Weatherbot/internal/logging"
	"github.com/Sumanth-CBRE/Weatherbot/internal/server"
	"github.com/Sumanth-CBRE/Weatherbot/internal/weather"
)

var (
	address   = flag.String("address", "", "The address to bind the server to")
	port      = flag.Int("port", 0, "The port to bind the server to")
	transport = flag.String("transport", "", "Transport mode: stdio, sse or web")
	logLevel  = flag.String("log-level", "", "Logging level: debug, info, warn, error, fatal")
	logFile   = flag.String("log-file", "", "Log file path")
	version   = flag.Bool("version", false, "Show version information and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg := loadConfig()

	// Show version and exit if requested
	if *version {
		log.Printf("%s version %s", cfg.Server.Name, cfg.Server.Version)
		os.Exit(0)
	}

	// Create a context that will be cancelled on interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := createServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Wait for termination signal or server exit (e.g. stdin closed in stdio mode)
	waitForShutdown(cancel, srv)
}

// loadConfig loads configuration from the environment and command line flags
func loadConfig() *config.Config {
	// Pick up API keys and overrides from a local .env if present
	_ = godotenv.Load()

	// Start with defaults
	cfg := config.DefaultConfig()

	// Override with environment variables
	config.FromEnv(cfg)

	// Override with command-line flags
	applyCommandLineFlagsToConfig(cfg)

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// applyCommandLineFlagsToConfig applies command line flags to the configuration
func applyCommandLineFlagsToConfig(cfg *config.Config) {
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *transport != "" {
		cfg.Server.TransportMode = *transport
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.FilePath = *logFile
	}
}

// createServer wires the weather client into a new MCP server
func createServer(cfg *config.Config) (*server.MCPServer, error) {
	weatherClient, err := weather.NewClient(cfg.Weather, logging.GetDefaultLogger())
	if err != nil {
		return nil, err
	}
	return server.NewMCPServer(cfg, weatherClient)
}

// waitForShutdown waits for termination signals or server exit and performs cleanup
func waitForShutdown(cancel context.CancelFunc, srv *server.MCPServer) {
	logger := logging.GetDefaultLogger()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-signalCh:
		logger.Infof("Received termination signal, shutting down...")
	case <-srv.Done():
		logger.Infof("Server transport exited, shutting down...")
	}

	// Cancel the context to initiate shutdown
	cancel()

	// Stop the server with a timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownDone := make(chan struct{})
	go func() {
		if err := srv.Stop(); err != nil {
			logger.Errorf("Error during shutdown: %v", err)
		}
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Infof("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		logger.Warnf("Shutdown timed out")
	}
}
