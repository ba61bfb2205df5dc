// Package constants provides shared constants used throughout the sheetsync codebase.
// This includes timeouts, file permissions, and the literal defaults the
// reconciliation engine and the CLI agree on.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for downloading a source document
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup work after the CLI receives an error or signal
	ShutdownTimeout = 5 * time.Second

	// HistoryBusyTimeout is how long SQLite waits on a locked history database
	HistoryBusyTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Reconciliation defaults
const (
	// KeyColumnName is the header matched case-insensitively to find the identity column
	KeyColumnName = "id"

	// DefaultKeyColumn is used when no header matches KeyColumnName
	DefaultKeyColumn = 0

	// HeaderPosition is the 1-based position of the header row in a store range
	HeaderPosition = 1

	// DefaultAuditMessage prefixes the timestamp in the audit row
	DefaultAuditMessage = "journal updated at"

	// AuditTimeFormat formats the audit row and update timestamps
	AuditTimeFormat = "2006-01-02 15:04:05"

	// ListSeparator splits multi-pair configuration values
	ListSeparator = ";"
)

// Default values
const (
	// DefaultCredentialsFile is the service account key looked up in the working directory
	DefaultCredentialsFile = "credentials.json"

	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".sheetsync"

	// DefaultHistoryLimit is how many runs the history command lists by default
	DefaultHistoryLimit = 20
)
