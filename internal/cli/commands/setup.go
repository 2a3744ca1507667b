package commands

import (
	"log/slog"

	"github.com/leapstack-labs/sitenav/internal/cli/config"
	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/leapstack-labs/sitenav/internal/docs"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the loaded config, logger and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Generator returns a build pipeline for the loaded project. It fails when
// the navigation file or content directory is missing.
func (c *CommandContext) Generator(version string) (*docs.Generator, error) {
	if err := c.Cfg.ValidatePaths(); err != nil {
		return nil, err
	}
	return docs.NewGenerator(&c.Cfg.ProjectConfig,
		docs.WithRoot(c.Cfg.ProjectRoot),
		docs.WithLogger(c.Logger),
		docs.WithVersion(version),
	), nil
}

// getConfig returns the configuration loaded by the root command, or the
// defaults when a command runs standalone.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg := &config.Config{OutputFormat: config.DefaultOutput}
	cfg.ApplyDefaults()
	return cfg
}
