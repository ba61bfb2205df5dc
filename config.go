package sheetsync

import (
	"fmt"
	"strings"

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// Pair is one source/target mapping reconciled by a cycle.
type Pair struct {
	Source     string `json:"source" yaml:"source"`                               // URL of the delimited-text document
	Target     string `json:"target" yaml:"target"`                               // range name in the spreadsheet
	BackupPath string `json:"backup_path,omitempty" yaml:"backup_path,omitempty"` // local copy, optional
}

// String returns the target range, which identifies the pair in logs.
func (p Pair) String() string {
	return p.Target
}

// Config is the process-wide configuration, built once at startup and
// passed to New.
type Config struct {
	SpreadsheetID   string `json:"spreadsheet_id" yaml:"spreadsheet_id"`
	Pairs           []Pair `json:"pairs" yaml:"pairs"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`

	// EndpointAuth is the authentication scheme for source downloads
	// ("bearer", "header:<name>", "query:<param>"); EndpointToken is its secret.
	EndpointAuth  string `json:"endpoint_auth,omitempty" yaml:"endpoint_auth,omitempty"`
	EndpointToken string `json:"-" yaml:"-"`

	// Reconciliation policies.
	UpdateTimestampColumn bool   `json:"update_timestamp_column" yaml:"update_timestamp_column"`
	AppendOnly            bool   `json:"append_only" yaml:"append_only"`
	AuditMessage          string `json:"audit_message,omitempty" yaml:"audit_message,omitempty"`

	// HistoryDB is the SQLite run ledger path; empty disables history.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`
}

// Validate checks the configuration before any cycle runs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SpreadsheetID) == "" {
		return errors.NewConfigError("spreadsheet_id", "spreadsheet ID is required", nil)
	}
	if len(c.Pairs) == 0 {
		return errors.NewConfigError("pairs", "at least one source/target pair is required", nil)
	}
	seen := make(map[string]int, len(c.Pairs))
	for i, p := range c.Pairs {
		if strings.TrimSpace(p.Source) == "" {
			return errors.NewConfigError("pairs", fmt.Sprintf("pair %d has no source", i+1), nil)
		}
		if strings.TrimSpace(p.Target) == "" {
			return errors.NewConfigError("pairs", fmt.Sprintf("pair %d has no target", i+1), nil)
		}
		if j, dup := seen[p.Target]; dup {
			return errors.NewConfigError("pairs", fmt.Sprintf("pairs %d and %d write the same target %q", j+1, i+1, p.Target), nil)
		}
		seen[p.Target] = i
	}
	if c.AuditMessage != "" && strings.TrimSpace(c.AuditMessage) == "" {
		return errors.NewConfigError("audit_message", "audit message cannot be blank", nil)
	}
	return nil
}

// SplitList splits a separator-delimited setting. Entries are trimmed and a
// trailing separator is ignored; any other empty entry is an error.
func SplitList(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, constants.ListSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		if p == "" {
			return nil, &errors.ValidationError{Field: "list", Value: value, Message: fmt.Sprintf("entry %d is empty", i+1)}
		}
	}
	return parts, nil
}

// ParsePairs zips parallel lists of sources, targets and backup paths.
// The lists must have equal lengths; backups may be empty altogether.
func ParsePairs(sources, targets, backups []string) ([]Pair, error) {
	if len(sources) != len(targets) {
		return nil, errors.NewConfigError("pairs",
			fmt.Sprintf("%d endpoints but %d sheets: lists must have the same length", len(sources), len(targets)), nil)
	}
	if len(backups) > 0 && len(backups) != len(sources) {
		return nil, errors.NewConfigError("pairs",
			fmt.Sprintf("%d backup paths for %d pairs: lists must have the same length", len(backups), len(sources)), nil)
	}
	pairs := make([]Pair, len(sources))
	for i := range sources {
		pairs[i] = Pair{Source: sources[i], Target: targets[i]}
		if len(backups) > 0 {
			pairs[i].BackupPath = backups[i]
		}
	}
	return pairs, nil
}

// ParsePairLists is ParsePairs for raw separator-delimited settings.
func ParsePairLists(endpoints, sheets, backups string) ([]Pair, error) {
	sources, err := SplitList(endpoints)
	if err != nil {
		return nil, errors.NewConfigError("endpoints", err.Error(), err)
	}
	targets, err := SplitList(sheets)
	if err != nil {
		return nil, errors.NewConfigError("sheets", err.Error(), err)
	}
	paths, err := SplitList(backups)
	if err != nil {
		return nil, errors.NewConfigError("backup_paths", err.Error(), err)
	}
	return ParsePairs(sources, targets, paths)
}
