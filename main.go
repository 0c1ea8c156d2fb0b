// Package main implements the allocation board: a small web service that
// reads per-country fundraising progress from a read-only data API and
// renders it as a list of progress bars with flags and qualification badges.
//
// The service uses a modular architecture with separate components for:
// - Data API access and country name resolution
// - Server-side rendering of the board and a JSON endpoint
// - Optional scheduled digests to Discord and Slack webhooks
// - Configurable logging with rotation
//
// Configuration is managed through JSON files in the config directory,
// with credentials optionally supplied via the environment or a .env file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"allocation-board/internal/api"
	"allocation-board/internal/config"
	"allocation-board/internal/country"
	"allocation-board/internal/logger"
	"allocation-board/internal/scheduler"
	"allocation-board/internal/server"
	"allocation-board/internal/view"
)

// Application version
const Version = "1.0.0"

func main() {
	// Parse command line flags
	configDir := flag.String("config-dir", "./configs", "Directory containing configuration files")
	logFile := flag.String("log-file", "", "Log file path (overrides config and LOG_FILE env)")
	version := flag.Bool("version", false, "Show version information")
	checkConfig := flag.Bool("check-config", false, "Validate configuration and exit")
	digestOnce := flag.Bool("digest-once", false, "Post a single digest and exit")
	dryRun := flag.Bool("dry-run", false, "Preview mode: build digests and log them without sending")
	flag.Parse()

	// Show version and exit if requested
	if *version {
		fmt.Printf("Allocation Board v%s\n", Version)
		os.Exit(0)
	}

	// Validate config directory exists
	if _, err := os.Stat(*configDir); os.IsNotExist(err) {
		fmt.Printf("Error: Config directory '%s' does not exist\n", *configDir)
		os.Exit(1)
	}

	// Check-config mode: validate and exit
	if *checkConfig {
		_, err := config.LoadConfig(*configDir)
		if err != nil {
			fmt.Printf("Configuration INVALID: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Configuration OK")
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Override LogFile: flag > env > config
	resolved, err := resolveLogFile(*logFile, cfg.LogFile)
	if err != nil {
		fmt.Printf("Error resolving log-file path: %v\n", err)
		os.Exit(1)
	}
	cfg.LogFile = resolved

	// Initialize logger with configurable rotation settings
	rotationConfig := logger.LogRotationConfig{
		MaxSizeMB:  cfg.LogRotation.MaxSizeMB,
		MaxBackups: cfg.LogRotation.MaxBackups,
		MaxAgeDays: cfg.LogRotation.MaxAgeDays,
		Compress:   cfg.LogRotation.Compress,
	}
	if err := logger.NewLogger(cfg.LogLevel, cfg.LogFile, rotationConfig); err != nil {
		fmt.Printf("Error setting up logger: %v\n", err)
		os.Exit(1)
	}

	log.WithField("version", Version).Info("Starting Allocation Board")

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.DataSource.URL,
		APIKey:  cfg.DataSource.AnonKey,
		View:    cfg.DataSource.View,
		Timeout: cfg.DataSource.Timeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create data API client")
	}
	defer client.Close()

	resolver := country.Default()

	// Create application context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Single digest mode: run once and exit
	if *digestOnce {
		os.Exit(runDigestOnce(ctx, cfg, client, resolver, *dryRun))
	}

	var sched *scheduler.Scheduler
	if cfg.Digest.Enabled {
		sched, err = scheduler.New(cfg, scheduler.Deps{
			Fetcher:  client,
			Resolver: resolver,
			DryRun:   *dryRun,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize scheduler")
		}
		if err := sched.Start(ctx); err != nil {
			log.WithError(err).Fatal("Failed to start scheduler")
		}
	} else if *dryRun {
		log.Warn("Dry-run has no effect while the digest is disabled")
	}

	srv := server.New(server.Config{
		Addr:     cfg.ListenAddr,
		Fetcher:  client,
		Resolver: resolver,
		Board: view.Options{
			Title:        cfg.Board.Title,
			GoalAmount:   cfg.Board.GoalAmount,
			GoalCurrency: cfg.Board.GoalCurrency,
			FlagBaseURL:  cfg.Board.FlagBaseURL,
		},
		AllowedOrigins: cfg.Board.AllowedOrigins,
		RequestTimeout: cfg.DataSource.Timeout + 5*time.Second,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	log.Info("Allocation Board started successfully")

	// Setup signal handling for graceful shutdown
	// Listens for SIGINT (Ctrl+C) and SIGTERM (systemd/docker stop)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sigChan:
		log.Info("Shutdown signal received, stopping...")
	case err, ok := <-serverErr:
		if ok {
			log.WithError(err).Error("HTTP server failed")
			exitCode = 1
		}
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server did not shut down cleanly")
	}

	if sched != nil {
		sched.Stop()
	}

	log.Info("Allocation Board stopped")

	// Close logger to flush and release log file
	if err := logger.Close(); err != nil {
		fmt.Printf("Warning: Failed to close logger: %v\n", err)
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runDigestOnce posts one digest to every enabled webhook and returns the
// process exit code.
func runDigestOnce(ctx context.Context, cfg *config.Config, client *api.Client, resolver *country.Resolver, dryRun bool) int {
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Printf("Warning: Failed to close logger: %v\n", err)
		}
	}()

	if dryRun {
		log.Info("Dry-run mode enabled: digests will be logged but not sent")
	}

	sched, err := scheduler.New(cfg, scheduler.Deps{
		Fetcher:  client,
		Resolver: resolver,
		DryRun:   dryRun,
	})
	if err != nil {
		log.WithError(err).Error("Failed to initialize scheduler")
		return 1
	}
	defer sched.Stop()

	result, err := sched.RunOnce(ctx)
	if err != nil {
		log.WithError(err).WithField("run_id", result.RunID).Error("Digest failed")
		return 1
	}

	log.WithFields(log.Fields{
		"run_id":  result.RunID,
		"sent":    result.Sent,
		"skipped": result.Skipped,
	}).Info("Digest completed")
	return 0
}

// resolveLogFile determines the final log file path using the priority:
// flag > LOG_FILE env > config value.
// All non-empty paths are resolved to absolute paths.
func resolveLogFile(flagVal, configVal string) (string, error) {
	if flagVal != "" {
		return filepath.Abs(flagVal)
	}
	if envFile := os.Getenv("LOG_FILE"); envFile != "" {
		return filepath.Abs(envFile)
	}
	if configVal == "" {
		return "", nil
	}
	return filepath.Abs(configVal)
}
