package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnName(t *testing.T) {
	tests := map[int]string{
		0:   "",
		1:   "A",
		2:   "B",
		26:  "Z",
		27:  "AA",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}
	for n, want := range tests {
		assert.Equal(t, want, ColumnName(n), "column %d", n)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Journal", "Journal"},
		{"Journal!A1:C", "Journal"},
		{"'My Sheet'!A:C", "My Sheet"},
		{"'Bob''s log'!A1", "Bob's log"},
		{"'Unclosed", "Unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SheetName(tt.in))
		})
	}
}

func TestColumnNumber(t *testing.T) {
	tests := map[string]int{
		"":    0,
		"A":   1,
		"c":   3,
		"Z":   26,
		"AA":  27,
		"ZZ":  702,
		"AAA": 703,
		"A1":  0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ColumnNumber(in), "letters %q", in)
	}
	for n := 1; n <= 800; n++ {
		assert.Equal(t, n, ColumnNumber(ColumnName(n)))
	}
}

func TestRangeStart(t *testing.T) {
	tests := []struct {
		in     string
		column int
		row    int
	}{
		{"Journal", 1, 1},
		{"Journal!A1:C", 1, 1},
		{"Journal!C5:E", 3, 5},
		{"Journal!C:E", 3, 1},
		{"Journal!5:9", 1, 5},
		{"Journal!$B$3:$D", 2, 3},
		{"'Bob''s log'!AA10:AC", 27, 10},
		{"'Team!Notes'!D2", 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			column, row := RangeStart(tt.in)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.row, row)
		})
	}
}

func TestRowRange(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		position int
		width    int
		want     string
	}{
		{"bare sheet", "Journal", 3, 4, "'Journal'!A3:D3"},
		{"quoted sheet", "'Bob''s log'!A:Z", 2, 27, "'Bob''s log'!A2:AA2"},
		{"zero width", "Journal", 5, 0, "'Journal'!A5:A5"},
		{"offset start", "Journal!C5:E", 2, 2, "'Journal'!C6:D6"},
		{"offset header", "Journal!C5:E", 1, 3, "'Journal'!C5:E5"},
		{"column only", "Journal!B:D", 4, 3, "'Journal'!B4:D4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RowRange(tt.in, tt.position, tt.width))
		})
	}
}
