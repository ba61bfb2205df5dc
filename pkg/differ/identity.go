package differ

import (
	"strconv"
	"strings"

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Entry is the stored state of one keyed row.
type Entry struct {
	Position int
	Row      table.Row
}

// Index maps identity keys to the stored row holding them.
type Index map[int]Entry

// ResolveKeyColumn returns the index of the header named "id"
// (case-insensitive, exact otherwise), or 0 when there is none.
func ResolveKeyColumn(header table.Row) int {
	for i, name := range header {
		if strings.EqualFold(name, constants.KeyColumnName) {
			return i
		}
	}
	return constants.DefaultKeyColumn
}

// ParseKey returns the integer identity key of row. ok is false when the row
// is too short to hold the key column or the field is not an integer.
func ParseKey(row table.Row, keyColumn int) (key int, ok bool) {
	if keyColumn < 0 || len(row) <= keyColumn {
		return 0, false
	}
	key, err := strconv.Atoi(strings.TrimSpace(row[keyColumn]))
	if err != nil {
		return 0, false
	}
	return key, true
}

// BuildIndex indexes the data rows of a snapshot by key. Rows without a
// parseable key are skipped. When a key repeats, the later row wins.
func BuildIndex(snapshot *table.Snapshot, keyColumn int) Index {
	index := make(Index)
	if snapshot == nil {
		return index
	}
	for i, row := range snapshot.Rows {
		key, ok := ParseKey(row, keyColumn)
		if !ok {
			continue
		}
		index[key] = Entry{Position: snapshot.Position(i), Row: row}
	}
	return index
}

// MaxKey returns the largest key in the index. The result is never below
// 0, so an empty index or one holding only negative keys yields 0.
func MaxKey(index Index) int {
	maxKey := 0
	for key := range index {
		if key > maxKey {
			maxKey = key
		}
	}
	return maxKey
}
