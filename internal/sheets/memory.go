package sheets

import (
	"context"
	"sync"

	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Call records one write made to a MemoryStore.
type Call struct {
	Op    string
	Range string
	Rows  int
}

// MemoryStore is an in-memory Store keyed by sheet name. It trims trailing
// blank cells and rows on fetch the way the spreadsheet API does.
type MemoryStore struct {
	mu     sync.Mutex
	sheets map[string][][]string
	calls  []Call
	fail   map[string]error
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[string][][]string),
		fail:   make(map[string]error),
	}
}

// Set replaces the content of a sheet.
func (m *MemoryStore) Set(rangeName string, values [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[SheetName(rangeName)] = copyValues(values)
}

// Values returns a sheet's content as Fetch would, or nil for an unknown sheet.
func (m *MemoryStore) Values(rangeName string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.sheets[SheetName(rangeName)]
	if !ok {
		return nil
	}
	return trim(values)
}

// Calls returns the writes made so far.
func (m *MemoryStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// FailOn makes the named operation ("fetch", "update" or "append") return err.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
}

// Fetch implements Store.
func (m *MemoryStore) Fetch(_ context.Context, rangeName string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["fetch"]; err != nil {
		return nil, err
	}
	return trim(m.sheets[SheetName(rangeName)]), nil
}

// BatchUpdate implements Store.
func (m *MemoryStore) BatchUpdate(_ context.Context, rangeName string, updates []reconciler.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["update"]; err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	name := SheetName(rangeName)
	values := m.sheets[name]
	for _, u := range updates {
		for len(values) < u.Position {
			values = append(values, nil)
		}
		values[u.Position-1] = append([]string(nil), u.Row...)
	}
	m.sheets[name] = values
	m.calls = append(m.calls, Call{Op: "update", Range: rangeName, Rows: len(updates)})
	return nil
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, rangeName string, rows []table.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["append"]; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	name := SheetName(rangeName)
	values := trim(m.sheets[name])
	for _, row := range rows {
		values = append(values, append([]string(nil), row...))
	}
	m.sheets[name] = values
	m.calls = append(m.calls, Call{Op: "append", Range: rangeName, Rows: len(rows)})
	return nil
}

// trim drops trailing blank cells of each row and trailing empty rows.
func trim(values [][]string) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out = append(out, append([]string{}, row[:end]...))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func copyValues(values [][]string) [][]string {
	if values == nil {
		return nil
	}
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = append([]string(nil), row...)
	}
	return out
}
