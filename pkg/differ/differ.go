package differ

import (
	"context"

	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Differ classifies incoming rows against an identity index.
type Differ interface {
	// Rows classifies each incoming row as new, changed, unchanged or skipped.
	Rows(ctx context.Context, incoming []table.Row, index Index, keyColumn, columnCount int) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreTrailing bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Rows classifies incoming rows. New rows carry the raw incoming row.
func (d *differ) Rows(ctx context.Context, incoming []table.Row, index Index, keyColumn, columnCount int) *Changeset {
	logger := logging.FromContext(ctx)

	changeset := &Changeset{
		KeyColumn:   keyColumn,
		ColumnCount: columnCount,
		Added:       []RowChange{},
		Updated:     []RowChange{},
		Unchanged:   []RowChange{},
		Skipped:     []RowChange{},
	}

	for line, row := range incoming {
		key, ok := ParseKey(row, keyColumn)
		if !ok {
			changeset.Skipped = append(changeset.Skipped, RowChange{
				Type:     ChangeTypeSkipped,
				Line:     line,
				Incoming: row,
			})
			logger.Debug().Int("line", line).Int("key_column", keyColumn).Msg("Skipping row without a numeric key")
			continue
		}

		entry, exists := index[key]
		if !exists {
			changeset.Added = append(changeset.Added, RowChange{
				Type:     ChangeTypeNew,
				Line:     line,
				Key:      key,
				Incoming: row,
			})
			logger.Debug().Int("key", key).Msg("Row classified as new")
			continue
		}

		change := RowChange{
			Line:     line,
			Key:      key,
			Position: entry.Position,
			Incoming: row,
			Existing: entry.Row,
		}
		if d.differs(row, entry.Row, columnCount) {
			change.Type = ChangeTypeChanged
			changeset.Updated = append(changeset.Updated, change)
			logger.Debug().Int("key", key).Int("position", entry.Position).Msg("Row classified as changed")
		} else {
			change.Type = ChangeTypeUnchanged
			changeset.Unchanged = append(changeset.Unchanged, change)
			logger.Trace().Int("key", key).Msg("Row unchanged")
		}
	}

	return changeset
}

func (d *differ) differs(incoming, stored table.Row, columnCount int) bool {
	if d.ignoreTrailing {
		incoming = clip(incoming, columnCount)
		stored = clip(stored, columnCount)
	}
	return table.RowsDiffer(incoming, stored, columnCount)
}

// clip drops fields beyond n.
func clip(row table.Row, n int) table.Row {
	if len(row) > n {
		return row[:n]
	}
	return row
}
