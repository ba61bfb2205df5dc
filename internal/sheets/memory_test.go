package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/table"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	values, err := store.Fetch(ctx, "Journal")
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, store.Append(ctx, "Journal", []table.Row{{"id", "name"}, {"1", "Alice", ""}}))
	require.NoError(t, store.BatchUpdate(ctx, "Journal!A:B", []reconciler.Update{{Key: 1, Position: 2, Row: table.Row{"1", "Alicia"}}}))
	require.NoError(t, store.Append(ctx, "Journal", []table.Row{{"2", "Bob"}}))

	values, err = store.Fetch(ctx, "Journal")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name"}, {"1", "Alicia"}, {"2", "Bob"}}, values)

	assert.Equal(t, []Call{
		{Op: "append", Range: "Journal", Rows: 2},
		{Op: "update", Range: "Journal!A:B", Rows: 1},
		{Op: "append", Range: "Journal", Rows: 1},
	}, store.Calls())
}

func TestMemoryStoreTrimsLikeTheAPI(t *testing.T) {
	store := NewMemoryStore()
	store.Set("S", [][]string{{"id", "name"}, {"1", "", ""}, {}, {"2", "x"}, {"", ""}})

	values, err := store.Fetch(context.Background(), "S")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name"}, {"1"}, {}, {"2", "x"}}, values)
}

func TestMemoryStoreFailures(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("boom")

	store.FailOn("append", boom)
	assert.ErrorIs(t, store.Append(ctx, "S", []table.Row{{"1"}}), boom)
	assert.Empty(t, store.Calls())

	store.FailOn("fetch", boom)
	_, err := store.Fetch(ctx, "S")
	assert.ErrorIs(t, err, boom)
}
