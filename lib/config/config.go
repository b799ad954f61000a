// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for chassis binaries.
//
// Configuration is loaded from a single file specified by:
//   - the CHASSIS_CONFIG environment variable, or
//   - an explicit --config path passed by the binary.
//
// There are no fallbacks or automatic discovery. This keeps the
// effective configuration deterministic and auditable with no hidden
// overrides. A missing path yields the defaults.
//
// Files ending in .yaml/.yml are parsed as YAML. Files ending in
// .json or .jsonc are parsed as comment-tolerant JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "CHASSIS_CONFIG"

// Config is the process-level configuration for a chassis binary.
type Config struct {
	// Output configures the output contract defaults.
	Output OutputConfig `yaml:"output" json:"output"`

	// JSON forces structured output mode for every command, the
	// file-based equivalent of passing --json everywhere.
	JSON bool `yaml:"json" json:"json"`
}

// OutputConfig configures truncation and spillover defaults.
type OutputConfig struct {
	// Limit is the default page size for paginated commands. Zero
	// means commands use their own defaults.
	Limit int `yaml:"limit" json:"limit"`

	// FilePointerThreshold is the result size above which the full
	// output is spilled to a temp file. Zero keeps the built-in
	// default.
	FilePointerThreshold int `yaml:"file_pointer_threshold" json:"file_pointer_threshold"`

	// TempDir is the spillover directory. It must be an absolute
	// path without traversal segments; unsafe values are rejected at
	// truncation time with a warning, not here.
	TempDir string `yaml:"temp_dir" json:"temp_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{}
}

// Load reads the configuration file at path, or at $CHASSIS_CONFIG
// when path is empty. An empty path with no environment variable set
// returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	configuration := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, configuration); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(raw), configuration); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}

	if err := configuration.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return configuration, nil
}

// validate rejects values that would make the output contract
// misbehave silently.
func (c *Config) validate() error {
	if c.Output.Limit < 0 {
		return fmt.Errorf("output.limit must not be negative, got %d", c.Output.Limit)
	}
	if c.Output.FilePointerThreshold < 0 {
		return fmt.Errorf("output.file_pointer_threshold must not be negative, got %d", c.Output.FilePointerThreshold)
	}
	return nil
}
