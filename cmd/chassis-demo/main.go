// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// chassis-demo is a reference binary showing a full command tree
// assembled through the chassis engine: schema-derived flags, presets,
// safety metadata, action-graph hints, pagination with spillover, and
// NDJSON streaming.
package main

import (
	"fmt"
	"os"

	"github.com/chassis-cli/chassis/lib/command"
	"github.com/chassis-cli/chassis/lib/config"
)

func main() {
	if err := run(); err != nil {
		// Commands that already produced their own output return an
		// ExitError with the desired code; no redundant error line.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configuration, err := config.Load("")
	if err != nil {
		return err
	}

	runner := &command.Runner{
		Program:              "chassis-demo",
		Root:                 buildTree(configuration),
		JSON:                 configuration.JSON,
		FilePointerThreshold: configuration.Output.FilePointerThreshold,
		TempDir:              configuration.Output.TempDir,
	}
	return runner.Execute(os.Args[1:])
}
