// Package auth provides the auth command implementation.
package auth

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetsync/cmd/application"
	"github.com/agentstation/sheetsync/internal/auth/adc"
	"github.com/agentstation/sheetsync/internal/cmd/emoji"
	"github.com/agentstation/sheetsync/internal/cmd/output"
)

// NewCommand creates the auth command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Inspect spreadsheet credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(NewStatusCommand(app))
	return cmd
}

// NewStatusCommand creates the auth status subcommand using app context.
func NewStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials a sync would use",
		Long: `Status shows the credentials file a sync would use and what it contains.

Credentials are looked up in this order:
  1. The configured file (CREDENTIALS_FILE, default credentials.json)
  2. GOOGLE_APPLICATION_CREDENTIALS
  3. ~/.config/gcloud/application_default_credentials.json

The file is parsed but no API call is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Status(app, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// Status renders the credential details. It fails when no usable
// credentials are found.
func Status(app application.Application, stdout, stderr io.Writer) error {
	details := adc.BuildDetails(app.CredentialsFile())

	format := output.DetectFormat(app.OutputFormat(), stdout)
	if err := output.Render(stdout, format, details, func(wide bool) output.Data {
		return output.CredentialsData(details, wide)
	}); err != nil {
		return err
	}

	if details.State != adc.StateConfigured {
		fmt.Fprintf(stderr, "%s %s\n", emoji.Error, adc.FormatBrief(details))
		_, _, err := adc.Resolve(app.CredentialsFile())
		return err
	}
	fmt.Fprintf(stderr, "%s %s\n", emoji.Success, adc.FormatBrief(details))
	return nil
}
