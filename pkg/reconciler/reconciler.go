// Package reconciler merges an incoming table into a store snapshot and
// produces the write plan: point updates for changed rows and a single
// append of new rows followed by an audit row.
package reconciler

import (
	"context"
	"time"

	"github.com/agentstation/sheetsync/pkg/differ"
	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Reconciler builds write plans.
type Reconciler interface {
	// Plan reconciles incoming against the store snapshot existing.
	Plan(ctx context.Context, incoming *table.Table, existing *table.Snapshot) (*Plan, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	differ          differ.Differ
	now             func() time.Time
	auditMessage    string
	updateTimestamp bool
	appendOnly      bool
}

// New creates a Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		differ:          options.differ,
		now:             options.now,
		auditMessage:    options.auditMessage,
		updateTimestamp: options.updateTimestamp,
		appendOnly:      options.appendOnly,
	}, nil
}

// Plan builds the write plan for one cycle. An empty incoming table yields
// an empty plan. An empty store yields a bootstrap plan appending the whole
// table.
func (r *reconciler) Plan(ctx context.Context, incoming *table.Table, existing *table.Snapshot) (*Plan, error) {
	logger := logging.FromContext(ctx)

	if incoming.IsEmpty() {
		logger.Info().Msg("Source table is empty, nothing to reconcile")
		return &Plan{}, nil
	}

	columnCount := incoming.ColumnCount()
	keyColumn := differ.ResolveKeyColumn(incoming.Header)
	plan := &Plan{
		KeyColumn:   keyColumn,
		ColumnCount: columnCount,
		Updates:     []Update{},
		Appends:     []table.Row{},
	}

	if existing.IsEmpty() {
		plan.Bootstrap = true
		for _, record := range incoming.Records() {
			plan.Appends = append(plan.Appends, table.Row(record))
		}
		logger.Info().Int("rows", len(plan.Appends)).Msg("Store is empty, appending the full table")
		return plan, nil
	}

	index := differ.BuildIndex(existing, keyColumn)
	logger.Debug().
		Int("key_column", keyColumn).
		Int("indexed", len(index)).
		Int("stored", len(existing.Rows)).
		Msg("Built identity index")

	if r.appendOnly {
		plan.Changeset = r.appendOnlyChangeset(ctx, incoming.Rows, index, keyColumn, columnCount)
	} else {
		plan.Changeset = r.differ.Rows(ctx, incoming.Rows, index, keyColumn, columnCount)
	}

	now := r.now()
	for _, change := range plan.Changeset.Updated {
		merged := Merge(change.Existing, change.Incoming, columnCount)
		if r.updateTimestamp {
			if !table.RowsDiffer(clip(merged, columnCount), clip(change.Existing, columnCount), columnCount) {
				plan.Unmodified = append(plan.Unmodified, change)
				continue
			}
			merged = withTimestamp(merged, columnCount, now)
		} else if !table.RowsDiffer(merged, change.Existing, columnCount) {
			plan.Unmodified = append(plan.Unmodified, change)
			logger.Debug().Int("key", change.Key).Msg("Merge reproduces stored row, no write needed")
			continue
		}
		plan.Updates = append(plan.Updates, Update{
			Key:      change.Key,
			Position: change.Position,
			Row:      merged,
		})
	}

	for _, change := range plan.Changeset.Added {
		plan.Appends = append(plan.Appends, table.Normalize(change.Incoming, columnCount))
	}
	if len(plan.Appends) > 0 {
		plan.AuditRow = AuditRow(r.auditMessage, now, columnCount)
		plan.Appends = append(plan.Appends, plan.AuditRow)
	}

	logger.Info().
		Int("updates", len(plan.Updates)).
		Int("new_rows", len(plan.Changeset.Added)).
		Int("unchanged", len(plan.Changeset.Unchanged)+len(plan.Unmodified)).
		Int("skipped", len(plan.Changeset.Skipped)).
		Msg("Built write plan")

	return plan, nil
}

// appendOnlyChangeset classifies rows the legacy way: keys above the
// largest stored key are new, every other keyed row is left alone.
func (r *reconciler) appendOnlyChangeset(ctx context.Context, rows []table.Row, index differ.Index, keyColumn, columnCount int) *differ.Changeset {
	logger := logging.FromContext(ctx)
	maxKey := differ.MaxKey(index)
	logger.Info().Int("max_key", maxKey).Msg("Append-only mode, comparing against largest stored key")

	cs := &differ.Changeset{
		KeyColumn:   keyColumn,
		ColumnCount: columnCount,
		Added:       []differ.RowChange{},
		Updated:     []differ.RowChange{},
		Unchanged:   []differ.RowChange{},
		Skipped:     []differ.RowChange{},
	}
	for line, row := range rows {
		key, ok := differ.ParseKey(row, keyColumn)
		switch {
		case !ok:
			cs.Skipped = append(cs.Skipped, differ.RowChange{Type: differ.ChangeTypeSkipped, Line: line, Incoming: row})
		case key > maxKey:
			cs.Added = append(cs.Added, differ.RowChange{Type: differ.ChangeTypeNew, Line: line, Key: key, Incoming: row})
		default:
			cs.Unchanged = append(cs.Unchanged, differ.RowChange{Type: differ.ChangeTypeUnchanged, Line: line, Key: key, Incoming: row})
		}
	}
	return cs
}

// clip drops fields beyond n.
func clip(row table.Row, n int) table.Row {
	if len(row) > n {
		return row[:n]
	}
	return row
}
