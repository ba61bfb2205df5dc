// Package sync provides the sync command implementation.
package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetsync/cmd/application"
	"github.com/agentstation/sheetsync/internal/cmd/cmdutil"
	"github.com/agentstation/sheetsync/internal/cmd/emoji"
	"github.com/agentstation/sheetsync/internal/cmd/output"
	"github.com/agentstation/sheetsync/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	*cmdutil.TargetFlags
	DryRun   bool
	FailFast bool
	Timeout  time.Duration
}

// Options converts the flags into run options.
func (f *Flags) Options(targets []string) []sync.Option {
	opts := []sync.Option{
		sync.WithDryRun(f.DryRun),
		sync.WithFailFast(f.FailFast),
		sync.WithTimeout(f.Timeout),
	}
	if len(targets) > 0 {
		opts = append(opts, sync.WithTargets(targets...))
	}
	return opts
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync [target...]",
		GroupID: "core",
		Short:   "Reconcile every configured source into its range",
		Long: `Sync runs one reconciliation cycle per configured pair, in order:

• Download the source document
• Write the local backup, when a backup path is configured
• Fetch the stored rows of the target range
• Rewrite changed rows in one batch, keeping stored values where the
  source is blank
• Append new rows and an audit row

A failed pair is reported and the remaining pairs still run, unless
--fail-fast is given. The exit status is non-zero when any pair failed.`,
		Example: `  sheetsync sync                      # Reconcile all pairs
  sheetsync sync Journal              # Only the Journal range
  sheetsync sync --dry-run -o yaml    # Plan without writing
  sheetsync sync --timeout 2m --fail-fast`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, flags, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags.TargetFlags = cmdutil.AddTargetFlags(cmd)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Build plans without writing to the spreadsheet or backups")
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop at the first failed pair")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Bound the whole run (0 means no limit)")

	return cmd
}

// Execute runs the sync and renders its result. Progress lines go to
// stderr, the result to stdout.
func Execute(ctx context.Context, app application.Application, flags *Flags, args []string, stdout, stderr io.Writer) error {
	client, err := app.Client()
	if err != nil {
		return err
	}

	targets := flags.All(args)
	if _, err := cmdutil.SelectPairs(client.Config().Pairs, targets); err != nil {
		return err
	}

	client.OnPairCompleted(func(pr *sync.PairResult) {
		symbol := emoji.Success
		if !pr.HasChanges() {
			symbol = emoji.Optional
		}
		fmt.Fprintf(stderr, "%s %s\n", symbol, pr.Summary())
	})
	client.OnPairFailed(func(pr *sync.PairResult) {
		fmt.Fprintf(stderr, "%s %s\n", emoji.Error, pr.Summary())
	})

	result, err := client.Sync(ctx, flags.Options(targets)...)
	if result == nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat(), stdout)
	if renderErr := output.Render(stdout, format, result, func(wide bool) output.Data {
		return output.ResultData(result, wide)
	}); renderErr != nil {
		return renderErr
	}
	fmt.Fprintln(stderr, result.Summary())

	return err
}
