package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sitenav/internal/cli/output"
	"github.com/leapstack-labs/sitenav/internal/validate"
	"github.com/leapstack-labs/sitenav/pkg/core"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Severity string // Minimum severity: error, warning, info, hint
}

// ErrCheckFailed is returned when validation finds a fatal problem.
var ErrCheckFailed = errors.New("navigation check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate navigation links against the content",
		Long: `Resolve every navbar and sidebar link against the markdown content and
report broken links, tied sidebar keys and cosmetic issues.

Broken links and ambiguous sidebar prefixes fail the check. Warnings and
hints are printed but do not change the exit status.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the project in the current directory
  sitenav check

  # Only report errors and warnings
  sitenav check --severity warning

  # Also list documents no menu links to
  sitenav check --orphans

  # Output as JSON
  sitenav check -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().Bool("orphans", false, "Report documents not linked from any menu")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	minimum, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid --severity %q, must be one of: error, warning, info, hint", opts.Severity)
	}

	cc := NewCommandContext(cmd)
	gen, err := cc.Generator("")
	if err != nil {
		return err
	}

	result, err := gen.Load()
	if result == nil || result.Report == nil {
		return err
	}

	renderReport(cc.Renderer, result.Report, minimum)
	if err != nil {
		cc.Logger.Debug("check failed", slog.Any("error", err))
		return fmt.Errorf("%w: %d error(s)", ErrCheckFailed, result.Report.Count(core.SeverityError))
	}
	return nil
}

// CheckJSONOutput is the JSON output structure for the check command.
type CheckJSONOutput struct {
	Valid       bool                  `json:"valid"`
	Checked     int                   `json:"checked"`
	Diagnostics []core.Diagnostic     `json:"diagnostics"`
	Broken      []validate.BrokenLink `json:"broken,omitempty"`
	Summary     map[string]int        `json:"summary"`
}

func renderReport(r *output.Renderer, report *validate.Report, minimum core.Severity) {
	diags := report.Filter(minimum)
	summary := map[string]int{
		"error":   report.Count(core.SeverityError),
		"warning": report.Count(core.SeverityWarning),
		"info":    report.Count(core.SeverityInfo),
		"hint":    report.Count(core.SeverityHint),
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := CheckJSONOutput{
			Valid:       report.Err() == nil,
			Checked:     report.Checked,
			Diagnostics: diags,
			Summary:     summary,
		}
		if out.Diagnostics == nil {
			out.Diagnostics = []core.Diagnostic{}
		}
		if report.Broken != nil {
			out.Broken = report.Broken.Links
		}
		_ = r.JSON(out)
		return

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Navigation Check"))
		r.Println("")
		for _, d := range diags {
			r.Printf("- **%s** `%s` %s%s\n", d.Severity, d.RuleID, where(d), d.Message)
		}
		if len(diags) > 0 {
			r.Println("")
		}
		r.Println(output.FormatKeyValue("Links checked", fmt.Sprint(report.Checked)))
		r.Println(output.FormatKeyValue("Errors", fmt.Sprint(summary["error"])))
		r.Println(output.FormatKeyValue("Warnings", fmt.Sprint(summary["warning"])))
		return
	}

	styles := r.Styles()
	for _, d := range diags {
		r.Printf("  %s  %s  %s%s\n",
			severityStyle(styles, d.Severity).Render(fmt.Sprintf("%-7s", d.Severity)),
			styles.Bold.Render(d.RuleID),
			styles.Muted.Render(where(d)),
			d.Message,
		)
	}
	if len(diags) > 0 {
		r.Println("")
	}

	line := fmt.Sprintf("%d links checked, %d errors, %d warnings", report.Checked, summary["error"], summary["warning"])
	if report.Err() == nil {
		r.Success(line)
	} else {
		r.Println(styles.Error.Render("✗ " + line))
	}
}

// where renders "navbar › 数据 › 数据库: " for diagnostics that carry a location.
func where(d core.Diagnostic) string {
	if d.Location == "" {
		return ""
	}
	parts := append([]string{d.Location}, d.Trail...)
	return strings.Join(parts, " › ") + ": "
}

func severityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}
