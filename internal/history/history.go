// Package history records the outcome of each reconciliation cycle in a
// local SQLite ledger.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
)

const schema = `CREATE TABLE IF NOT EXISTS cycles (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id      TEXT    NOT NULL,
  source      TEXT    NOT NULL,
  target      TEXT    NOT NULL,
  status      TEXT    NOT NULL,
  dry_run     INTEGER NOT NULL DEFAULT 0,
  bootstrap   INTEGER NOT NULL DEFAULT 0,
  updated     INTEGER NOT NULL DEFAULT 0,
  added       INTEGER NOT NULL DEFAULT 0,
  appended    INTEGER NOT NULL DEFAULT 0,
  unchanged   INTEGER NOT NULL DEFAULT 0,
  skipped     INTEGER NOT NULL DEFAULT 0,
  error       TEXT    NOT NULL DEFAULT '',
  started_at  INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS cycles_started_at ON cycles (started_at DESC);
CREATE INDEX IF NOT EXISTS cycles_run_id ON cycles (run_id);`

// Entry is one recorded cycle.
type Entry struct {
	ID        int64         `json:"id" yaml:"id"`
	RunID     string        `json:"run_id" yaml:"run_id"`
	Source    string        `json:"source" yaml:"source"`
	Target    string        `json:"target" yaml:"target"`
	Status    string        `json:"status" yaml:"status"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Bootstrap bool          `json:"bootstrap" yaml:"bootstrap"`
	Updated   int           `json:"updated" yaml:"updated"`
	Added     int           `json:"added" yaml:"added"`
	Appended  int           `json:"appended" yaml:"appended"`
	Unchanged int           `json:"unchanged" yaml:"unchanged"`
	Skipped   int           `json:"skipped" yaml:"skipped"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Recorder stores cycle outcomes.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Ledger is a SQLite-backed Recorder.
type Ledger struct {
	db *sql.DB
}

var _ Recorder = (*Ledger)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens or creates the ledger at path and ensures its schema.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &errors.ValidationError{Field: "history_db", Message: "path is required"}
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cleanPath, constants.HistoryBusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapResource("open", "history", cleanPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("open", "history", cleanPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("migrate", "history", cleanPath, err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the SQLite handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record inserts one cycle outcome.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.RunID == "" || e.Target == "" {
		return &errors.ValidationError{Field: "entry", Value: e, Message: "run id and target are required"}
	}
	startedAt := e.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO cycles (
		   run_id, source, target, status, dry_run, bootstrap,
		   updated, added, appended, unchanged, skipped,
		   error, started_at, duration_ms
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Source, e.Target, e.Status, e.DryRun, e.Bootstrap,
		e.Updated, e.Added, e.Appended, e.Unchanged, e.Skipped,
		e.Error, toMillis(startedAt), e.Duration.Milliseconds(),
	)
	if err != nil {
		return errors.WrapResource("record", "history", e.RunID, err)
	}
	return nil
}

// Filter narrows List results.
type Filter struct {
	Target string // only cycles for this target when set
	RunID  string // only cycles of this run when set
	Limit  int    // at most this many entries, DefaultHistoryLimit when zero
}

// List returns recorded cycles, most recent first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	var (
		where []string
		args  []any
	)
	if f.Target != "" {
		where = append(where, "target = ?")
		args = append(args, f.Target)
	}
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}
	query := `SELECT id, run_id, source, target, status, dry_run, bootstrap,
	                 updated, added, appended, unchanged, skipped,
	                 error, started_at, duration_ms
	            FROM cycles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapResource("list", "history", "", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.Source, &e.Target, &e.Status, &e.DryRun, &e.Bootstrap,
			&e.Updated, &e.Added, &e.Appended, &e.Unchanged, &e.Skipped,
			&e.Error, &startedAt, &durationMS,
		); err != nil {
			return nil, errors.WrapResource("scan", "history", "", err)
		}
		e.StartedAt = fromMillis(startedAt)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "history", "", err)
	}
	return entries, nil
}
