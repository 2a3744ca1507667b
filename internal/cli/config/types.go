// Package config provides configuration management for the sitenav CLI.
//
// It extends the shared project configuration in internal/config with
// CLI-only settings and the flag, environment and .env layers.
package config

import (
	sharedcfg "github.com/leapstack-labs/sitenav/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// Config holds all CLI configuration options.
type Config struct {
	sharedcfg.ProjectConfig `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default CLI values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix     = "SITENAV_"
	DotEnvFile    = ".env"
)
