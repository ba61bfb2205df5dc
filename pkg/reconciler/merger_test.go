package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/sheetsync/pkg/table"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name        string
		existing    table.Row
		incoming    table.Row
		columnCount int
		want        table.Row
	}{
		{
			name:        "incoming wins",
			existing:    table.Row{"1", "Alice", "Paris"},
			incoming:    table.Row{"1", "Alicia", "Lyon"},
			columnCount: 3,
			want:        table.Row{"1", "Alicia", "Lyon"},
		},
		{
			name:        "blank incoming keeps stored",
			existing:    table.Row{"1", "Alice", "Paris"},
			incoming:    table.Row{"1", "", "Lyon"},
			columnCount: 3,
			want:        table.Row{"1", "Alice", "Lyon"},
		},
		{
			name:        "whitespace counts as blank",
			existing:    table.Row{"1", "Alice"},
			incoming:    table.Row{"1", "   "},
			columnCount: 2,
			want:        table.Row{"1", "Alice"},
		},
		{
			name:        "short incoming is padded before merging",
			existing:    table.Row{"1", "Alice", "Paris"},
			incoming:    table.Row{"1", "Alicia"},
			columnCount: 3,
			want:        table.Row{"1", "Alicia", "Paris"},
		},
		{
			name:        "short stored row is padded",
			existing:    table.Row{"1"},
			incoming:    table.Row{"1", "", "Rome"},
			columnCount: 3,
			want:        table.Row{"1", "", "Rome"},
		},
		{
			name:        "fields beyond the header are merged too",
			existing:    table.Row{"1", "Alice", "stamp"},
			incoming:    table.Row{"1", "Bob"},
			columnCount: 2,
			want:        table.Row{"1", "Bob", "stamp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.existing, tt.incoming, tt.columnCount))
		})
	}
}

func TestMergeNeverBlanksAStoredValue(t *testing.T) {
	existing := table.Row{"7", "a", "b", "c", "d"}
	incomings := []table.Row{
		{"7"},
		{"7", "", "", "", ""},
		{"7", " ", "\t", "", "x"},
		{"", "", "", "", "", "extra"},
	}
	for _, incoming := range incomings {
		merged := Merge(existing, incoming, 5)
		for i, stored := range existing {
			if table.IsBlank(stored) {
				continue
			}
			assert.False(t, table.IsBlank(merged[i]), "field %d blanked for incoming %v", i, incoming)
		}
	}
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	existing := table.Row{"1", "Alice"}
	incoming := table.Row{"1", "Bob"}
	_ = Merge(existing, incoming, 4)
	assert.Equal(t, table.Row{"1", "Alice"}, existing)
	assert.Equal(t, table.Row{"1", "Bob"}, incoming)
}

func TestAuditRow(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	row := AuditRow("journal updated at", at, 3)
	assert.Equal(t, table.Row{"journal updated at 2024-03-09 14:05:07", "", ""}, row)

	row = AuditRow("synced", at, 0)
	assert.Equal(t, table.Row{"synced 2024-03-09 14:05:07"}, row)
}

func TestWithTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t,
		table.Row{"1", "Bob", "2024-03-09 14:05:07"},
		withTimestamp(table.Row{"1", "Bob"}, 2, at))

	assert.Equal(t,
		table.Row{"1", "Bob", "2024-03-09 14:05:07"},
		withTimestamp(table.Row{"1", "Bob", "2020-01-01 00:00:00"}, 2, at),
		"an older stamp is replaced")

	assert.Equal(t,
		table.Row{"1", "", "", "2024-03-09 14:05:07"},
		withTimestamp(table.Row{"1"}, 3, at))
}
