// Package cli provides the command-line interface for sitenav.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sitenav/internal/cli/commands"
	"github.com/leapstack-labs/sitenav/internal/cli/config"
	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// skipConfig lists commands that run without a project.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
	"init":       true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitenav",
		Short: "sitenav - navigation registry and link checker for doc sites",
		Long: `sitenav reads the navbar and per-section sidebars of a static documentation
site, checks every link against the markdown content, and emits the
themeConfig consumed by the site engine.

A sidebar is selected for a page by longest path-prefix match, so
/docs/ai/llm/sft uses the sidebar registered under /docs/ai/ unless a
more specific prefix exists.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)

			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", slog.String("path", configFile))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./sitenav.yaml)")
	pf.String("project-dir", "", "Project root (default: nearest directory holding sitenav.yaml)")
	pf.String("nav-file", "", "Navigation declarations file")
	pf.String("content-dir", "", "Markdown content directory")
	pf.String("base", "", "URL prefix the site is served under")
	pf.Bool("strict", false, "Reject unknown frontmatter keys")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagFilename("nav-file", "yaml", "yml", "json")
	_ = rootCmd.MarkPersistentFlagDirname("content-dir")
	_ = rootCmd.MarkPersistentFlagDirname("project-dir")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupValidate, Title: "Validation Commands:"},
		&cobra.Group{ID: groupBuild, Title: "Build Commands:"},
		&cobra.Group{ID: groupProject, Title: "Project Commands:"},
	)
	rootCmd.SetHelpCommandGroupID(groupProject)
	addCommands(rootCmd, groupValidate,
		commands.NewCheckCommand(),
		commands.NewResolveCommand(),
		commands.NewTreeCommand(),
		commands.NewRulesCommand(),
	)
	addCommands(rootCmd, groupBuild,
		commands.NewBuildCommand(Version),
		commands.NewWatchCommand(Version),
	)
	addCommands(rootCmd, groupProject,
		commands.NewInitCommand(),
		commands.NewVersionCommand(Version, GitCommit, BuildDate),
		NewCompletionCommand(),
	)

	return rootCmd
}

// Command groups shown in help and in the generated CLI reference.
const (
	groupValidate = "validate"
	groupBuild    = "build"
	groupProject  = "project"
)

func addCommands(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	cfg := &config.Config{OutputFormat: config.DefaultOutput}
	cfg.ApplyDefaults()
	return cfg
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sitenav.

To load completions:

Bash:
  $ source <(sitenav completion bash)

Zsh:
  $ sitenav completion zsh > "${fpath[1]}/_sitenav"

Fish:
  $ sitenav completion fish | source

PowerShell:
  PS> sitenav completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
