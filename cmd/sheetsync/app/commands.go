package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetsync/cmd/sheetsync/cmd/auth"
	"github.com/agentstation/sheetsync/cmd/sheetsync/cmd/history"
	"github.com/agentstation/sheetsync/cmd/sheetsync/cmd/plan"
	"github.com/agentstation/sheetsync/cmd/sheetsync/cmd/sync"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(plan.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(history.NewCommand(a))
	rootCmd.AddCommand(auth.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sheetsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:     %s\n", a.commit)
				cmd.Printf("  built:      %s\n", a.date)
				cmd.Printf("  built by:   %s\n", a.builtBy)
				cmd.Printf("  go version: %s\n", runtime.Version())
				cmd.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
