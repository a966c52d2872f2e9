// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/devfront/internal/buildcfg"
	"github.com/ManuGH/devfront/internal/config"
	"github.com/ManuGH/devfront/internal/define"
	"github.com/ManuGH/devfront/internal/version"
)

// runConfigCLI assembles the build configuration without serving and prints
// it. Exit codes: 0 ok, 1 assembly or write failure, 2 usage error.
func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("devfront config", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, format, definesPath string
	fs.StringVar(&file, "config", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	fs.StringVar(&definesPath, "write-defines", "", "also write the compile-time constants as JSON to this path")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		printConfigUsage(stderr)
		return 2
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != "yaml" && format != "json" {
		_, _ = fmt.Fprintf(stderr, "Error: unsupported format %q (use yaml or json)\n", format)
		return 2
	}

	cfg, err := config.NewLoader(strings.TrimSpace(file), version.Version).Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return 1
	}

	opts, err := cfg.BuildOptions()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	build, err := buildcfg.Assemble(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Build configuration error:\n  %v\n", err)
		return 1
	}

	if definesPath != "" {
		if err := define.WriteManifest(definesPath, build.Define()); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := writeRecord(stdout, build.Record(), format); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func writeRecord(w io.Writer, record buildcfg.Record, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return err
	}
	return enc.Close()
}

func printConfigUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  devfront config [--config|-f config.yaml] [--format=yaml|json] [--write-defines path]")
}
