// Package sheets holds the spreadsheet store the reconciliation engine
// reads from and writes to: a Google Sheets implementation and an
// in-memory one.
package sheets

import (
	"context"

	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Store is a tabular range store addressed by range name. Position 1 is
// the first row of the range.
type Store interface {
	// Fetch returns every row of the range, header first. An empty range
	// yields no rows and no error.
	Fetch(ctx context.Context, rangeName string) ([][]string, error)

	// BatchUpdate overwrites whole rows at the given positions in one call.
	BatchUpdate(ctx context.Context, rangeName string, updates []reconciler.Update) error

	// Append adds rows after the last non-empty row of the range in one call.
	Append(ctx context.Context, rangeName string, rows []table.Row) error
}
