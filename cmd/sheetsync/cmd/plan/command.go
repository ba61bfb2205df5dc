// Package plan provides the plan command implementation.
package plan

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetsync/cmd/application"
	"github.com/agentstation/sheetsync/internal/cmd/cmdutil"
	"github.com/agentstation/sheetsync/internal/cmd/emoji"
	"github.com/agentstation/sheetsync/internal/cmd/output"
	"github.com/agentstation/sheetsync/pkg/reconciler"
)

// View is the plan of one pair as rendered by the command.
type View struct {
	Target  string                 `json:"target" yaml:"target"`
	Source  string                 `json:"source" yaml:"source"`
	Summary reconciler.PlanSummary `json:"summary" yaml:"summary"`
	Plan    *reconciler.Plan       `json:"plan,omitempty" yaml:"plan,omitempty"`
	Error   string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCommand creates the plan command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.TargetFlags

	cmd := &cobra.Command{
		Use:     "plan [target...]",
		GroupID: "core",
		Short:   "Show the writes a sync would make",
		Long: `Plan downloads each source and compares it with the stored range, then
prints the row updates and appends a sync would issue. Nothing is written
to the spreadsheet or to backups.`,
		Example: `  sheetsync plan                # Plans for all pairs
  sheetsync plan Journal -o wide  # Full row contents
  sheetsync plan -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, flags.All(args), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags = cmdutil.AddTargetFlags(cmd)

	return cmd
}

// Execute builds the plan of every selected pair and renders them.
// A pair that fails to plan is reported and the others are still shown.
func Execute(ctx context.Context, app application.Application, targets []string, stdout, stderr io.Writer) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	pairs, err := cmdutil.SelectPairs(client.Config().Pairs, targets)
	if err != nil {
		return err
	}

	views := make([]View, 0, len(pairs))
	var errs []error
	for _, pair := range pairs {
		view := View{Target: pair.Target, Source: pair.Source}
		plan, err := client.Plan(ctx, pair)
		if err != nil {
			fmt.Fprintf(stderr, "%s %s: %v\n", emoji.Error, pair.Target, err)
			view.Error = err.Error()
			errs = append(errs, err)
		} else {
			view.Plan = plan
			view.Summary = plan.Summary()
		}
		views = append(views, view)
	}

	format := output.DetectFormat(app.OutputFormat(), stdout)
	switch format {
	case output.FormatTable, output.FormatWide:
		for i, view := range views {
			if view.Plan == nil {
				continue
			}
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "%s (%s)\n", view.Target, view.Summary)
			if view.Plan.IsEmpty() {
				continue
			}
			if err := output.NewFormatter(format).Format(stdout, output.PlanData(view.Plan, format == output.FormatWide)); err != nil {
				return err
			}
		}
	default:
		if err := output.NewFormatter(format).Format(stdout, views); err != nil {
			return err
		}
	}

	return stderrors.Join(errs...)
}
