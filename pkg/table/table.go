// Package table parses delimited text into a header and ordered rows and
// provides the normalization rules the reconciliation engine compares and
// writes rows with.
package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/sheetsync/pkg/errors"
)

// Row is an ordered sequence of string fields aligned to a header by position.
type Row []string

// Table is a header plus ordered data rows. Rows may be shorter or longer
// than the header; width is only enforced by Normalize.
type Table struct {
	Header Row   `json:"header" yaml:"header"`
	Rows   []Row `json:"rows" yaml:"rows"`
}

// IsEmpty reports whether the table has neither a header nor rows.
func (t *Table) IsEmpty() bool {
	return t == nil || (len(t.Header) == 0 && len(t.Rows) == 0)
}

// ColumnCount is the width every normalized row is padded to.
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.Header)
}

// Records returns the header followed by every row, the shape an
// append of the whole table takes.
func (t *Table) Records() [][]string {
	if t.IsEmpty() {
		return nil
	}
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Header)
	for _, row := range t.Rows {
		records = append(records, row)
	}
	return records
}

// Parse turns raw comma-delimited text into a Table. Empty input yields an
// empty table and no error. A UTF-8 byte order mark is dropped.
func Parse(data []byte) (*Table, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader is Parse for a stream.
func ParseReader(r io.Reader) (*Table, error) {
	decoder := unicode.UTF8BOM.NewDecoder()
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}
	return FromRecords(records), nil
}

// FromRecords builds a Table from records whose first entry is the header.
func FromRecords(records [][]string) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}
	t.Header = Row(records[0])
	t.Rows = make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		t.Rows = append(t.Rows, Row(record))
	}
	return t
}

// IsBlank reports whether a field is empty or whitespace only.
func IsBlank(field string) bool {
	return strings.TrimSpace(field) == ""
}

// Normalize pads row on the right with blank fields up to columnCount.
// Fields beyond columnCount are kept; callers needing an exact width slice
// the result. The input row is never modified.
func Normalize(row Row, columnCount int) Row {
	width := max(len(row), columnCount)
	out := make(Row, width)
	copy(out, row)
	return out
}

// RowsDiffer reports whether the normalized forms of a and b differ in any
// field. Comparison is exact: no case folding and no trimming.
func RowsDiffer(a, b Row, columnCount int) bool {
	na, nb := Normalize(a, columnCount), Normalize(b, columnCount)
	if len(na) != len(nb) {
		return true
	}
	for i := range na {
		if na[i] != nb[i] {
			return true
		}
	}
	return false
}

// Blank returns a row of columnCount blank fields.
func Blank(columnCount int) Row {
	return make(Row, max(columnCount, 0))
}
