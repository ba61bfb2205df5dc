package reconciler

import (
	"fmt"

	"github.com/agentstation/sheetsync/pkg/differ"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Update is a full-row overwrite of one stored row.
type Update struct {
	Key      int       `json:"key" yaml:"key"`
	Position int       `json:"position" yaml:"position"`
	Row      table.Row `json:"row" yaml:"row"`
}

// Plan is the set of writes one cycle applies to a store. It is built from
// one table and one snapshot, and its positions are only meaningful
// against that snapshot.
type Plan struct {
	// Bootstrap is set when the store was empty and the whole table,
	// header included, is appended.
	Bootstrap bool `json:"bootstrap" yaml:"bootstrap"`

	KeyColumn   int `json:"key_column" yaml:"key_column"`
	ColumnCount int `json:"column_count" yaml:"column_count"`

	// Updates are issued as one batched write.
	Updates []Update `json:"updates" yaml:"updates"`

	// Appends are issued as one append: new rows, then the audit row.
	Appends []table.Row `json:"appends" yaml:"appends"`

	// AuditRow is the trailer included at the end of Appends, if any.
	AuditRow table.Row `json:"audit_row,omitempty" yaml:"audit_row,omitempty"`

	// Unmodified lists changed rows whose merge reproduced the stored row.
	// They differ from the stored row only in blank incoming fields, and
	// no update is planned for them: Updates holds one write per changed
	// row except these.
	Unmodified []differ.RowChange `json:"unmodified,omitempty" yaml:"unmodified,omitempty"`

	Changeset *differ.Changeset `json:"-" yaml:"-"`
}

// PlanSummary holds the sizes reported for a plan.
type PlanSummary struct {
	Bootstrap  bool `json:"bootstrap" yaml:"bootstrap"`
	Updates    int  `json:"updates" yaml:"updates"`
	Appends    int  `json:"appends" yaml:"appends"`
	NewRows    int  `json:"new_rows" yaml:"new_rows"`
	Unmodified int  `json:"unmodified" yaml:"unmodified"`
	Unchanged  int  `json:"unchanged" yaml:"unchanged"`
	Skipped    int  `json:"skipped" yaml:"skipped"`
}

// IsEmpty returns true when the plan makes no writes.
func (p *Plan) IsEmpty() bool {
	return p == nil || (len(p.Updates) == 0 && len(p.Appends) == 0)
}

// NewRows returns the appended data rows, without header or audit row.
func (p *Plan) NewRows() []table.Row {
	if p == nil {
		return nil
	}
	rows := p.Appends
	if p.Bootstrap && len(rows) > 0 {
		rows = rows[1:]
	}
	if p.AuditRow != nil && len(rows) > 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// Summary returns the plan sizes.
func (p *Plan) Summary() PlanSummary {
	if p == nil {
		return PlanSummary{}
	}
	cs := p.Changeset.Summary()
	return PlanSummary{
		Bootstrap:  p.Bootstrap,
		Updates:    len(p.Updates),
		Appends:    len(p.Appends),
		NewRows:    len(p.NewRows()),
		Unmodified: len(p.Unmodified),
		Unchanged:  cs.Unchanged,
		Skipped:    cs.Skipped,
	}
}

// String returns a one-line description of the plan.
func (s PlanSummary) String() string {
	if s.Bootstrap {
		return fmt.Sprintf("bootstrap: %d rows appended", s.Appends)
	}
	return fmt.Sprintf("%d updates, %d new rows (%d appended), %d unchanged, %d skipped",
		s.Updates, s.NewRows, s.Appends, s.Unchanged+s.Unmodified, s.Skipped)
}

// Records returns the appended rows as plain string slices.
func (p *Plan) Records() [][]string {
	records := make([][]string, len(p.Appends))
	for i, row := range p.Appends {
		records[i] = row
	}
	return records
}
