package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leapstack-labs/sitenav/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/sitenav/internal/config"
	"github.com/leapstack-labs/sitenav/internal/docs"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the site config whenever navigation or content changes",
		Long: `Build once, then watch the navigation file, sitenav.yaml and the content
directory and rebuild on every change. Config edits are reloaded with the
same flags and environment; a changed nav_file or content.dir takes effect
after a restart. A failed rebuild is reported and the previous output is
left in place; watching continues until interrupted.`,
		Example: `  # Watch the current project
  sitenav watch

  # Wait longer for editors that write files in several steps
  sitenav watch --debounce 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, version)
		},
	}

	cmd.Flags().Duration("debounce", 0, "Quiet period before rebuilding (default: 100ms)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, version string) error {
	cc := NewCommandContext(cmd)
	gen, err := cc.Generator(version)
	if err != nil {
		return err
	}

	var opts []docs.WatchOption
	if cfgFile := config.GetConfigFileUsed(); cfgFile != "" {
		flags := cmd.Flags()
		opts = append(opts, docs.WithConfigReload(cfgFile, func() (*sharedcfg.ProjectConfig, error) {
			reloaded, err := config.LoadConfig(cfgFile, flags)
			if err != nil {
				return nil, err
			}
			return &reloaded.ProjectConfig, nil
		}))
	}

	r := cc.Renderer
	w := docs.NewWatcher(gen, cc.Cfg.Watch.Debounce, func(result *docs.Result, err error) {
		if err != nil {
			r.Error(err.Error())
			return
		}
		r.Success(fmt.Sprintf("%s rebuilt (%d links checked)",
			relToCwd(result.ConfigPath), result.Manifest.Stats.LinksChecked))
	}, opts...)

	r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", relToCwd(gen.ContentDir())))
	start := time.Now()
	err = w.Run(ctx)
	cc.Logger.Debug("watch stopped", slog.Duration("uptime", time.Since(start)))
	return err
}
