package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/sheetsync"
	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc          func() (sheetsync.Client, error)
	LedgerFunc          func() (*history.Ledger, error)
	CredentialsFileFunc func() string
	LoggerFunc          func() *zerolog.Logger
	OutputFormatFunc    func() string
	VersionFunc         func() string
	CommitFunc          func() string
	DateFunc            func() string
	BuiltByFunc         func() string
}

// Client returns a client using the mock function or a ConfigError.
func (m *Mock) Client() (sheetsync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, errors.NewConfigError("client", "no client configured", nil)
}

// Ledger returns a ledger using the mock function or a ConfigError.
func (m *Mock) Ledger() (*history.Ledger, error) {
	if m.LedgerFunc != nil {
		return m.LedgerFunc()
	}
	return nil, errors.NewConfigError("history_db", "history database is not configured", nil)
}

// CredentialsFile returns the credentials path using the mock function or "".
func (m *Mock) CredentialsFile() string {
	if m.CredentialsFileFunc != nil {
		return m.CredentialsFileFunc()
	}
	return ""
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
