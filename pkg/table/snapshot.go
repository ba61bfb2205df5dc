package table

import "github.com/agentstation/sheetsync/pkg/constants"

// Snapshot is the content of a store range as fetched at the start of a
// cycle. Positions derived from it are only valid for that cycle.
type Snapshot struct {
	Header Row
	Rows   []Row
}

// SnapshotFromValues builds a Snapshot from fetched range values, where the
// first value row, if any, is the header.
func SnapshotFromValues(values [][]string) *Snapshot {
	s := &Snapshot{}
	if len(values) == 0 {
		return s
	}
	s.Header = Row(values[0])
	s.Rows = make([]Row, 0, len(values)-1)
	for _, v := range values[1:] {
		s.Rows = append(s.Rows, Row(v))
	}
	return s
}

// IsEmpty reports whether the range held no rows at all, not even a header.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (s.Header == nil && len(s.Rows) == 0)
}

// Position returns the 1-based range position of data row i.
// The header occupies position 1, so data row 0 is position 2.
func (s *Snapshot) Position(i int) int {
	return constants.HeaderPosition + 1 + i
}
