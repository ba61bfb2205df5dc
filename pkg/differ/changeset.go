// Package differ resolves row identity and classifies incoming rows against
// the rows already held by a store.
package differ

import (
	"fmt"

	"github.com/agentstation/sheetsync/pkg/table"
)

// ChangeType is the classification of one incoming row.
type ChangeType string

const (
	// ChangeTypeNew marks a keyed row whose key is absent from the store.
	ChangeTypeNew ChangeType = "new"
	// ChangeTypeChanged marks a keyed row whose stored copy differs.
	ChangeTypeChanged ChangeType = "changed"
	// ChangeTypeUnchanged marks a keyed row identical to its stored copy.
	ChangeTypeUnchanged ChangeType = "unchanged"
	// ChangeTypeSkipped marks a row with a missing or non-numeric key.
	ChangeTypeSkipped ChangeType = "skipped"
)

// RowChange is one classified incoming row.
type RowChange struct {
	Type     ChangeType `json:"type" yaml:"type"`
	Line     int        `json:"line" yaml:"line"` // 0-based position among incoming data rows
	Key      int        `json:"key,omitempty" yaml:"key,omitempty"`
	Position int        `json:"position,omitempty" yaml:"position,omitempty"` // stored position, CHANGED/UNCHANGED only
	Incoming table.Row  `json:"incoming" yaml:"incoming"`
	Existing table.Row  `json:"existing,omitempty" yaml:"existing,omitempty"`
}

// Changeset partitions incoming rows. Every incoming row lands in exactly
// one list, and each list keeps the incoming order.
type Changeset struct {
	KeyColumn   int         `json:"key_column" yaml:"key_column"`
	ColumnCount int         `json:"column_count" yaml:"column_count"`
	Added       []RowChange `json:"added" yaml:"added"`
	Updated     []RowChange `json:"updated" yaml:"updated"`
	Unchanged   []RowChange `json:"unchanged" yaml:"unchanged"`
	Skipped     []RowChange `json:"skipped" yaml:"skipped"`
}

// ChangesetSummary holds the size of each classification.
type ChangesetSummary struct {
	Added     int `json:"added" yaml:"added"`
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Skipped   int `json:"skipped" yaml:"skipped"`
}

// Summary returns the classification counts.
func (c *Changeset) Summary() ChangesetSummary {
	if c == nil {
		return ChangesetSummary{}
	}
	return ChangesetSummary{
		Added:     len(c.Added),
		Updated:   len(c.Updated),
		Unchanged: len(c.Unchanged),
		Skipped:   len(c.Skipped),
	}
}

// HasChanges returns true if any row is new or changed.
func (c *Changeset) HasChanges() bool {
	return c != nil && (len(c.Added) > 0 || len(c.Updated) > 0)
}

// Total is the number of incoming rows classified.
func (c *Changeset) Total() int {
	s := c.Summary()
	return s.Added + s.Updated + s.Unchanged + s.Skipped
}

// String returns a one-line description of the changeset.
func (s ChangesetSummary) String() string {
	return fmt.Sprintf("%d new, %d changed, %d unchanged, %d skipped",
		s.Added, s.Updated, s.Unchanged, s.Skipped)
}
