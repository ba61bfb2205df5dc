package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnName converts a 1-based column number to its A1 letters
// (1 is A, 27 is AA).
func ColumnName(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// ColumnNumber converts A1 column letters to a 1-based column number.
// It returns 0 when letters is empty or holds anything but letters.
func ColumnNumber(letters string) int {
	n := 0
	for _, c := range strings.ToUpper(letters) {
		if c < 'A' || c > 'Z' {
			return 0
		}
		n = n*26 + int(c-'A'+1)
	}
	return n
}

// splitRange separates a range name into its sheet name and cell part:
// "'My Sheet'!C5:E" yields "My Sheet" and "C5:E".
func splitRange(rangeName string) (sheet, cells string) {
	if !strings.HasPrefix(rangeName, "'") {
		sheet, cells, _ = strings.Cut(rangeName, "!")
		return sheet, cells
	}
	var b strings.Builder
	for i := 1; i < len(rangeName); i++ {
		c := rangeName[i]
		if c == '\'' {
			if i+1 < len(rangeName) && rangeName[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			return b.String(), strings.TrimPrefix(rangeName[i+1:], "!")
		}
		b.WriteByte(c)
	}
	return b.String(), ""
}

// SheetName returns the sheet part of a range name: "Journal" for
// "Journal", "Journal!A1:C" and "'Journal'!A:C".
func SheetName(rangeName string) string {
	sheet, _ := splitRange(rangeName)
	return sheet
}

// RangeStart returns the 1-based column and row of the top-left cell of a
// range name. A bare sheet name starts at A1, "C:E" at C1 and "5:9" at A5.
func RangeStart(rangeName string) (column, row int) {
	_, cells := splitRange(rangeName)
	first, _, _ := strings.Cut(cells, ":")
	first = strings.ReplaceAll(first, "$", "")

	i := 0
	for i < len(first) && !('0' <= first[i] && first[i] <= '9') {
		i++
	}
	column, row = 1, 1
	if n := ColumnNumber(first[:i]); n > 0 {
		column = n
	}
	if n, err := strconv.Atoi(first[i:]); err == nil && n > 0 {
		row = n
	}
	return column, row
}

// QuoteSheet quotes a sheet name for use in A1 notation.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// RowRange returns the A1 range covering width cells of the row at
// position within rangeName. Positions count from the first row of the
// range, so position 2 of "Journal!C5:E" is row 6 starting at column C.
func RowRange(rangeName string, position, width int) string {
	column, row := RangeStart(rangeName)
	row += position - 1
	last := column + max(width, 1) - 1
	return fmt.Sprintf("%s!%s%d:%s%d", QuoteSheet(SheetName(rangeName)), ColumnName(column), row, ColumnName(last), row)
}
