package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		header Row
		rows   []Row
	}{
		{
			name:   "header and rows",
			input:  "id,name\n1,Alice\n2,Bob\n",
			header: Row{"id", "name"},
			rows:   []Row{{"1", "Alice"}, {"2", "Bob"}},
		},
		{
			name:   "ragged rows are kept as-is",
			input:  "id,name,notes\n1,Alice\n2,Bob,x,extra\n",
			header: Row{"id", "name", "notes"},
			rows:   []Row{{"1", "Alice"}, {"2", "Bob", "x", "extra"}},
		},
		{
			name:   "quoted fields and CRLF",
			input:  "id,notes\r\n1,\"hello, world\"\r\n2,\"say \"\"hi\"\"\"\r\n",
			header: Row{"id", "notes"},
			rows:   []Row{{"1", "hello, world"}, {"2", `say "hi"`}},
		},
		{
			name:   "byte order mark is dropped",
			input:  "\ufeffid,name\n1,Alice\n",
			header: Row{"id", "name"},
			rows:   []Row{{"1", "Alice"}},
		},
		{
			name:   "header only",
			input:  "id,name\n",
			header: Row{"id", "name"},
			rows:   []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.header, tbl.Header)
			assert.Equal(t, tt.rows, tbl.Rows)
			assert.Equal(t, len(tt.header), tbl.ColumnCount())
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n"} {
		tbl, err := Parse([]byte(input))
		require.NoError(t, err)
		assert.True(t, tbl.IsEmpty())
		assert.Nil(t, tbl.Records())
	}
}

func TestRecords(t *testing.T) {
	tbl := FromRecords([][]string{{"id", "name"}, {"1", "Alice"}})
	assert.Equal(t, [][]string{{"id", "name"}, {"1", "Alice"}}, tbl.Records())
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t\n"))
	assert.False(t, IsBlank(" x "))
	assert.False(t, IsBlank("0"))
}

func TestNormalize(t *testing.T) {
	t.Run("pads short rows", func(t *testing.T) {
		assert.Equal(t, Row{"1", "", ""}, Normalize(Row{"1"}, 3))
	})

	t.Run("keeps excess fields", func(t *testing.T) {
		assert.Equal(t, Row{"1", "a", "b"}, Normalize(Row{"1", "a", "b"}, 2))
	})

	t.Run("does not alias input", func(t *testing.T) {
		in := Row{"1", "a"}
		out := Normalize(in, 2)
		out[0] = "changed"
		assert.Equal(t, "1", in[0])
	})

	t.Run("length and prefix properties", func(t *testing.T) {
		rows := []Row{nil, {}, {"a"}, {"a", "b", "c"}, {"", " ", "x", "y", "z"}}
		for _, row := range rows {
			for n := 0; n <= 6; n++ {
				out := Normalize(row, n)
				assert.GreaterOrEqual(t, len(out), max(len(row), n))
				if len(row) <= n {
					assert.Len(t, out, n)
				}
				assert.Equal(t, []string(row), []string(out[:len(row)]))
				for _, f := range out[len(row):] {
					assert.Equal(t, "", f)
				}
			}
		}
	})
}

func TestRowsDiffer(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Row
		n      int
		differ bool
	}{
		{"identical", Row{"1", "Alice"}, Row{"1", "Alice"}, 2, false},
		{"missing trailing blank", Row{"1", "Alice", ""}, Row{"1", "Alice"}, 3, false},
		{"case sensitive", Row{"1", "alice"}, Row{"1", "Alice"}, 2, true},
		{"whitespace is significant", Row{"1", "Alice "}, Row{"1", "Alice"}, 2, true},
		{"blank versus value", Row{"1", ""}, Row{"1", "Alice"}, 2, true},
		{"extra field beyond width", Row{"1", "Alice", "x"}, Row{"1", "Alice"}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.differ, RowsDiffer(tt.a, tt.b, tt.n))
			assert.Equal(t, tt.differ, RowsDiffer(tt.b, tt.a, tt.n))
		})
	}
}

func TestBlank(t *testing.T) {
	assert.Equal(t, Row{"", "", ""}, Blank(3))
	assert.Empty(t, Blank(-1))
}
