package reconciler

import (
	"time"

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Merge combines a stored row with its incoming replacement field by field:
// the incoming value wins unless it is blank, in which case the stored value
// is kept. Both rows are normalized to columnCount first; fields beyond it
// follow the same rule.
func Merge(existing, incoming table.Row, columnCount int) table.Row {
	e := table.Normalize(existing, columnCount)
	n := table.Normalize(incoming, columnCount)

	merged := make(table.Row, max(len(e), len(n)))
	for i := range merged {
		switch {
		case i < len(n) && !table.IsBlank(n[i]):
			merged[i] = n[i]
		case i < len(e):
			merged[i] = e[i]
		default:
			merged[i] = n[i]
		}
	}
	return merged
}

// withTimestamp returns the first columnCount fields of row followed by
// the formatted time.
func withTimestamp(row table.Row, columnCount int, at time.Time) table.Row {
	out := make(table.Row, columnCount+1)
	copy(out, row[:min(len(row), columnCount)])
	out[columnCount] = at.Format(constants.AuditTimeFormat)
	return out
}

// AuditRow builds the trailer appended after new rows: the message and
// timestamp in the first field, blanks up to columnCount.
func AuditRow(message string, at time.Time, columnCount int) table.Row {
	row := table.Blank(max(columnCount, 1))
	row[0] = message + " " + at.Format(constants.AuditTimeFormat)
	return row
}
