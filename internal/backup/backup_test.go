package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/table"
)

func sample() *table.Table {
	return &table.Table{
		Header: table.Row{"id", "name", "notes"},
		Rows: []table.Row{
			{"1", "Alice", "likes, commas"},
			{"2", "Bob", `says "hi"`},
		},
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatXLSX, FormatFor("out/journal.XLSX"))
	assert.Equal(t, FormatCSV, FormatFor("out/journal.csv"))
	assert.Equal(t, FormatCSV, FormatFor("journal"))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.csv")

	require.NoError(t, NewFileWriter().Write(context.Background(), path, sample()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,notes\n1,Alice,\"likes, commas\"\n2,Bob,\"says \"\"hi\"\"\"\n", string(data))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestWriteReplacesPreviousBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.csv")
	w := NewFileWriter()

	require.NoError(t, w.Write(context.Background(), path, sample()))
	require.NoError(t, w.Write(context.Background(), path, &table.Table{Header: table.Row{"id"}, Rows: []table.Row{{"9"}}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\n9\n", string(data))
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.xlsx")

	require.NoError(t, NewFileWriter().Write(context.Background(), path, sample()))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestWriteRequiresPath(t *testing.T) {
	err := NewFileWriter().Write(context.Background(), "", sample())
	assert.True(t, errors.IsValidationError(err))
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
