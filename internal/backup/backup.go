// Package backup keeps a local copy of each downloaded source table,
// written before the store is touched.
package backup

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Format is a backup file format.
type Format string

const (
	// FormatCSV writes comma-separated text.
	FormatCSV Format = "csv"
	// FormatXLSX writes an Excel workbook with one sheet.
	FormatXLSX Format = "xlsx"
)

// DefaultSheetName is the worksheet name used in workbook backups.
const DefaultSheetName = "Backup"

// Writer persists a table to a local path.
type Writer interface {
	Write(ctx context.Context, path string, t *table.Table) error
}

// FileWriter writes backups to the local filesystem. Each write replaces
// the previous file atomically.
type FileWriter struct {
	sheetName string
}

var _ Writer = (*FileWriter)(nil)

// NewFileWriter creates a FileWriter.
func NewFileWriter() *FileWriter {
	return &FileWriter{sheetName: DefaultSheetName}
}

// FormatFor picks the format from the path extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Write implements Writer.
func (w *FileWriter) Write(ctx context.Context, path string, t *table.Table) error {
	if path == "" {
		return &errors.ValidationError{Field: "backup_path", Message: "cannot be empty"}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	var (
		buf bytes.Buffer
		err error
	)
	format := FormatFor(path)
	switch format {
	case FormatXLSX:
		err = w.encodeXLSX(&buf, t)
	default:
		err = encodeCSV(&buf, t)
	}
	if err != nil {
		return errors.WrapIO("encode", path, err)
	}

	size := buf.Len()
	if err := atomic.WriteFile(path, &buf); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(path, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("bytes", size).
		Msg("Wrote backup")
	return nil
}

func encodeCSV(buf *bytes.Buffer, t *table.Table) error {
	cw := csv.NewWriter(buf)
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}
	return cw.Error()
}

func (w *FileWriter) encodeXLSX(buf *bytes.Buffer, t *table.Table) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName(wb.GetSheetName(wb.GetActiveSheetIndex()), w.sheetName); err != nil {
		return err
	}
	for i, record := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := wb.SetSheetRow(w.sheetName, cell, &row); err != nil {
			return err
		}
	}
	_, err := wb.WriteTo(buf)
	return err
}

// Read loads a backup written by FileWriter.
func Read(path string) (*table.Table, error) {
	if FormatFor(path) == FormatXLSX {
		wb, err := excelize.OpenFile(path)
		if err != nil {
			return nil, errors.WrapIO("open", path, err)
		}
		defer func() { _ = wb.Close() }()
		rows, err := wb.GetRows(wb.GetSheetName(0))
		if err != nil {
			return nil, errors.WrapParse("xlsx", path, err)
		}
		return table.FromRecords(rows), nil
	}

	f, err := os.Open(path) // #nosec G304 -- backup path comes from configuration
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return table.ParseReader(f)
}
