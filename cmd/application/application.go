// Package application provides the application interface for sheetsync commands.
//
// Commands accept an Application rather than the concrete App so they can be
// tested with a mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (sheetsync.Client, error) {
//	        return testClient, nil
//	    },
//	}
//	cmd := sync.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/sheetsync"
	"github.com/agentstation/sheetsync/internal/history"
)

// Application provides what commands need from the running CLI.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the reconciliation client built from the resolved
	// configuration. It is created once and cached.
	Client() (sheetsync.Client, error)

	// Ledger returns the run history ledger. It fails with a ConfigError
	// when no history database is configured.
	Ledger() (*history.Ledger, error)

	// CredentialsFile returns the configured credentials path, which may
	// be empty.
	CredentialsFile() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the requested output format (table, wide, json,
	// yaml), or "" to detect it from the output stream.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
