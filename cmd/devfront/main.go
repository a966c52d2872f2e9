// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command devfront is the front-end development server: it proxies /api to
// the backend and serves the compiled front-end with its compile-time
// constants filled in.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/devfront/internal/config"
	"github.com/ManuGH/devfront/internal/daemon"
	"github.com/ManuGH/devfront/internal/log"
	"github.com/ManuGH/devfront/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:], os.Stdout, os.Stderr))
		}
	}
	os.Exit(runServe(os.Args[1:], os.Stdout, os.Stderr))
}

func runServe(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("devfront", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	}

	// Safe defaults until the configuration is loaded.
	log.Configure(log.Config{
		Level:   "info",
		Service: config.DefaultLogService,
		Version: version.Version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
		_, _ = fmt.Fprintf(stderr, "devfront: %v\n", err)
		return 1
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str("source", source).
		Str("path", path).
		Msg("configuration loaded")

	rt, err := daemon.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "startup.failed").
			Msg("startup aborted")
		_, _ = fmt.Fprintf(stderr, "devfront: %v\n", err)
		return 1
	}

	if err := rt.App.Run(ctx); err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "daemon.failed").
			Msg("daemon exited with error")
		return 1
	}

	logger.Info().Str(log.FieldEvent, "daemon.exit").Msg("devfront stopped")
	return 0
}
