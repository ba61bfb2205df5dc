package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync/pkg/differ"
	"github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/table"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newTestReconciler(t *testing.T, opts ...Option) Reconciler {
	t.Helper()
	r, err := New(append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return r
}

func snapshot(values ...[]string) *table.Snapshot {
	return table.SnapshotFromValues(values)
}

func incomingTable(header table.Row, rows ...table.Row) *table.Table {
	return &table.Table{Header: header, Rows: rows}
}

// apply writes a plan into stored values the way a store would.
func apply(values [][]string, plan *Plan) [][]string {
	out := make([][]string, len(values))
	for i, v := range values {
		out[i] = append([]string(nil), v...)
	}
	for _, u := range plan.Updates {
		out[u.Position-1] = append([]string(nil), u.Row...)
	}
	for _, row := range plan.Appends {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

func TestPlanBootstrap(t *testing.T) {
	r := newTestReconciler(t)
	incoming := incomingTable(table.Row{"id", "name"}, table.Row{"1", "Alice"}, table.Row{"2", "Bob"})

	plan, err := r.Plan(context.Background(), incoming, snapshot())
	require.NoError(t, err)

	assert.True(t, plan.Bootstrap)
	assert.Empty(t, plan.Updates)
	assert.Nil(t, plan.AuditRow)
	want := []table.Row{{"id", "name"}, {"1", "Alice"}, {"2", "Bob"}}
	if diff := cmp.Diff(want, plan.Appends); diff != "" {
		t.Errorf("appends mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, plan.NewRows(), 2)
	assert.Equal(t, "bootstrap: 3 rows appended", plan.Summary().String())
}

func TestPlanEmptyIncoming(t *testing.T) {
	r := newTestReconciler(t)

	plan, err := r.Plan(context.Background(), &table.Table{}, snapshot([]string{"id"}, []string{"1"}))
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
	assert.False(t, plan.Bootstrap)

	plan, err = r.Plan(context.Background(), &table.Table{}, snapshot())
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}

func TestPlanChangedRowKeepsStoredValues(t *testing.T) {
	r := newTestReconciler(t)
	existing := snapshot(
		[]string{"id", "name", "city"},
		[]string{"1", "Alice", "Paris"},
	)
	incoming := incomingTable(table.Row{"id", "name", "city"}, table.Row{"1", "", "Lyon"})

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, Update{Key: 1, Position: 2, Row: table.Row{"1", "Alice", "Lyon"}}, plan.Updates[0])
	assert.Empty(t, plan.Appends, "no new rows means no audit row")
	assert.Nil(t, plan.AuditRow)
}

func TestPlanBlankOnlyChangeIsElided(t *testing.T) {
	r := newTestReconciler(t)
	existing := snapshot(
		[]string{"id", "name"},
		[]string{"1", "Alice"},
	)
	incoming := incomingTable(table.Row{"id", "name"}, table.Row{"1", ""})

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.True(t, plan.IsEmpty())
	require.Len(t, plan.Unmodified, 1)
	assert.Equal(t, 1, plan.Unmodified[0].Key)
	assert.Equal(t, 1, plan.Changeset.Summary().Updated)
}

func TestPlanNewRowsWithAuditRow(t *testing.T) {
	r := newTestReconciler(t)
	existing := snapshot(
		[]string{"id", "name", "city"},
		[]string{"5", "Eve", "Oslo"},
	)
	incoming := incomingTable(table.Row{"id", "name", "city"}, table.Row{"7", "Gus"})

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.Empty(t, plan.Updates)
	want := []table.Row{
		{"7", "Gus", ""},
		{"journal updated at 2024-05-01 09:30:00", "", ""},
	}
	if diff := cmp.Diff(want, plan.Appends); diff != "" {
		t.Errorf("appends mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, plan.Appends[len(plan.Appends)-1], plan.AuditRow)
	assert.Equal(t, []table.Row{{"7", "Gus", ""}}, plan.NewRows())
}

func TestPlanSkipsRowsWithoutKey(t *testing.T) {
	r := newTestReconciler(t)
	existing := snapshot([]string{"id", "name"}, []string{"1", "Alice"})
	incoming := incomingTable(table.Row{"id", "name"}, table.Row{"abc", "X"})

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.True(t, plan.IsEmpty())
	assert.Empty(t, plan.Unmodified)
	require.Len(t, plan.Changeset.Skipped, 1)
	assert.Equal(t, table.Row{"abc", "X"}, plan.Changeset.Skipped[0].Incoming)
}

func TestPlanMixed(t *testing.T) {
	r := newTestReconciler(t, WithAuditMessage("synced"))
	existing := snapshot(
		[]string{"ID", "name"},
		[]string{"1", "Alice"},
		[]string{"2", "Bob"},
		[]string{"note", "free text"},
		[]string{"3", "Carol"},
	)
	incoming := incomingTable(table.Row{"ID", "name"},
		table.Row{"1", "Alice"},
		table.Row{"2", "Robert"},
		table.Row{"3", ""},
		table.Row{"4", "Dan"},
		table.Row{"x", "y"},
		table.Row{"5"},
	)

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.Equal(t, []Update{{Key: 2, Position: 3, Row: table.Row{"2", "Robert"}}}, plan.Updates)
	assert.Equal(t, []table.Row{
		{"4", "Dan"},
		{"5", ""},
		{"synced 2024-05-01 09:30:00", ""},
	}, plan.Appends)

	s := plan.Summary()
	assert.Equal(t, PlanSummary{Updates: 1, Appends: 3, NewRows: 2, Unmodified: 1, Unchanged: 1, Skipped: 1}, s)
	assert.Equal(t, "1 updates, 2 new rows (3 appended), 2 unchanged, 1 skipped", s.String())
}

func TestPlanIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "default"},
		{name: "update timestamp column", opts: []Option{WithUpdateTimestampColumn(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReconciler(t, tt.opts...)
			ctx := context.Background()
			incoming := incomingTable(table.Row{"id", "name", "city"},
				table.Row{"1", "Alice", "Lyon"},
				table.Row{"2", "", "Rome"},
				table.Row{"9", "Ivy"},
				table.Row{"bad", "row"},
			)
			values := [][]string{
				{"id", "name", "city"},
				{"1", "Alice", "Paris"},
				{"2", "Bob", "Rome"},
			}

			first, err := r.Plan(ctx, incoming, table.SnapshotFromValues(values))
			require.NoError(t, err)
			require.False(t, first.IsEmpty())

			values = apply(values, first)
			second, err := r.Plan(ctx, incoming, table.SnapshotFromValues(values))
			require.NoError(t, err)
			assert.True(t, second.IsEmpty(), "second plan: %+v", second.Summary())
		})
	}
}

func TestPlanUpdateTimestampColumn(t *testing.T) {
	r := newTestReconciler(t, WithUpdateTimestampColumn(true))
	existing := snapshot(
		[]string{"id", "name"},
		[]string{"1", "Alice", "2020-01-01 00:00:00"},
		[]string{"2", "Bob"},
	)
	incoming := incomingTable(table.Row{"id", "name"},
		table.Row{"1", "Alice"},
		table.Row{"2", "Bobby"},
		table.Row{"3", "Cy"},
	)

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.Equal(t, []Update{{Key: 2, Position: 3, Row: table.Row{"2", "Bobby", "2024-05-01 09:30:00"}}}, plan.Updates)
	assert.Equal(t, table.Row{"3", "Cy"}, plan.Appends[0], "appended rows carry no timestamp")
	assert.Equal(t, 1, plan.Changeset.Summary().Unchanged, "stored timestamp does not make a row changed")
}

func TestPlanAppendOnly(t *testing.T) {
	r := newTestReconciler(t, WithAppendOnly(true))
	existing := snapshot(
		[]string{"id", "name"},
		[]string{"1", "Alice"},
		[]string{"4", "Dan"},
	)
	incoming := incomingTable(table.Row{"id", "name"},
		table.Row{"1", "Alicia"},
		table.Row{"3", "Cy"},
		table.Row{"5", "Eve"},
		table.Row{"", "nobody"},
	)

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.Empty(t, plan.Updates, "append-only never updates")
	assert.Equal(t, []table.Row{{"5", "Eve"}, {"journal updated at 2024-05-01 09:30:00", ""}}, plan.Appends)
	assert.Equal(t, differ.ChangesetSummary{Added: 1, Unchanged: 2, Skipped: 1}, plan.Changeset.Summary())
}

func TestPlanAppendOnlyNegativeStoredKeys(t *testing.T) {
	r := newTestReconciler(t, WithAppendOnly(true))
	existing := snapshot(
		[]string{"id", "name"},
		[]string{"-3", "Minus"},
	)
	incoming := incomingTable(table.Row{"id", "name"},
		table.Row{"-1", "Below"},
		table.Row{"0", "Zero"},
		table.Row{"2", "Bea"},
	)

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)

	assert.Equal(t, []table.Row{{"2", "Bea"}, {"journal updated at 2024-05-01 09:30:00", ""}}, plan.Appends)
}

func TestPlanDuplicateStoredKeyLastWins(t *testing.T) {
	r := newTestReconciler(t)
	existing := snapshot(
		[]string{"id", "name"},
		[]string{"1", "first"},
		[]string{"1", "second"},
	)
	incoming := incomingTable(table.Row{"id", "name"}, table.Row{"1", "third"})

	plan, err := r.Plan(context.Background(), incoming, existing)
	require.NoError(t, err)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, 3, plan.Updates[0].Position)
}

func TestPlanLogsSummary(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)
	r := newTestReconciler(t)

	_, err := r.Plan(ctx, incomingTable(table.Row{"id"}, table.Row{"2"}), snapshot([]string{"id"}, []string{"1"}))
	require.NoError(t, err)
	assert.True(t, logger.Contains("Built write plan"))
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(WithAuditMessage("  "))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithClock(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithDiffer(nil))
	assert.True(t, errors.IsValidationError(err))
}
