package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	pkgerrors "github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/table"
)

const (
	valueInputRaw  = "RAW"
	insertRows     = "INSERT_ROWS"
	formattedValue = "FORMATTED_VALUE"
)

// GoogleStore is a Store backed by one Google spreadsheet.
type GoogleStore struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
}

var _ Store = (*GoogleStore)(nil)

// NewGoogleStore creates a store for spreadsheetID. Client options carry
// credentials, typically option.WithCredentialsFile.
func NewGoogleStore(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleStore, error) {
	if spreadsheetID == "" {
		return nil, &pkgerrors.ValidationError{Field: "spreadsheet_id", Message: "cannot be empty"}
	}
	opts = append([]option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &pkgerrors.AuthenticationError{
			Service: "sheets",
			Method:  "client",
			Message: "failed to create spreadsheet client",
			Err:     err,
		}
	}
	return &GoogleStore{values: svc.Spreadsheets.Values, spreadsheetID: spreadsheetID}, nil
}

// Fetch implements Store.
func (s *GoogleStore) Fetch(ctx context.Context, rangeName string) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, rangeName).
		ValueRenderOption(formattedValue).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apiError("fetch", rangeName, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, cells := range resp.Values {
		row := make([]string, len(cells))
		for j, cell := range cells {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	logging.FromContext(ctx).Debug().
		Str("range", rangeName).
		Int("rows", len(rows)).
		Msg("Fetched range")
	return rows, nil
}

// BatchUpdate implements Store.
func (s *GoogleStore) BatchUpdate(ctx context.Context, rangeName string, updates []reconciler.Update) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*gsheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &gsheets.ValueRange{
			Range:  RowRange(rangeName, u.Position, len(u.Row)),
			Values: [][]any{cells(u.Row)},
		})
	}
	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}
	resp, err := s.values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return apiError("update", rangeName, err)
	}
	logging.FromContext(ctx).Debug().
		Str("range", rangeName).
		Int64("rows", resp.TotalUpdatedRows).
		Int64("cells", resp.TotalUpdatedCells).
		Msg("Updated rows")
	return nil
}

// Append implements Store.
func (s *GoogleStore) Append(ctx context.Context, rangeName string, rows []table.Row) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = cells(row)
	}
	resp, err := s.values.Append(s.spreadsheetID, rangeName, &gsheets.ValueRange{Values: values}).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return apiError("append", rangeName, err)
	}
	event := logging.FromContext(ctx).Debug().Str("range", rangeName).Int("rows", len(rows))
	if resp.Updates != nil {
		event = event.Str("updated_range", resp.Updates.UpdatedRange)
	}
	event.Msg("Appended rows")
	return nil
}

func cells(row table.Row) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	}
	return fmt.Sprint(v)
}

// apiError converts a client error into an APIError carrying the HTTP status.
func apiError(operation, rangeName string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		message := gerr.Message
		if message == "" {
			message = gerr.Body
		}
		return pkgerrors.WrapResource(operation, "range", rangeName, &pkgerrors.APIError{
			Service:    "sheets",
			StatusCode: gerr.Code,
			Message:    message,
			Err:        err,
		})
	}
	return pkgerrors.WrapResource(operation, "range", rangeName, &pkgerrors.APIError{
		Service: "sheets",
		Message: err.Error(),
		Err:     err,
	})
}
