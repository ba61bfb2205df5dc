// Package history provides the history command implementation.
package history

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetsync/cmd/application"
	"github.com/agentstation/sheetsync/internal/cmd/output"
	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// Flags holds the history command flags.
type Flags struct {
	Limit  int
	Target string
	RunID  string
}

// NewCommand creates the history command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "management",
		Short:   "List recorded sync cycles",
		Long: `History lists the cycles recorded in the run ledger, newest first.
The ledger is the SQLite database named by HISTORY_DB.`,
		Example: `  sheetsync history
  sheetsync history --target Journal --limit 5
  sheetsync history --run 6f1c2a9e-... -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", constants.DefaultHistoryLimit, "Maximum number of cycles to list")
	cmd.Flags().StringVarP(&flags.Target, "target", "t", "", "Only cycles of this target range")
	cmd.Flags().StringVar(&flags.RunID, "run", "", "Only cycles of this run")

	return cmd
}

// Execute lists ledger entries matching flags.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout io.Writer) error {
	if flags.Limit < 0 {
		return &errors.ValidationError{Field: "limit", Value: flags.Limit, Message: "cannot be negative"}
	}
	ledger, err := app.Ledger()
	if err != nil {
		return err
	}

	entries, err := ledger.List(ctx, history.Filter{
		Target: flags.Target,
		RunID:  flags.RunID,
		Limit:  flags.Limit,
	})
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	format := output.DetectFormat(app.OutputFormat(), stdout)
	return output.Render(stdout, format, entries, func(wide bool) output.Data {
		return output.HistoryData(entries, wide)
	})
}
