package sheetsync

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/sheetsync/internal/backup"
	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/internal/sheets"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the collaborators of a Client. Nil collaborators are
// built from the Config in New.
type options struct {
	source  Source
	store   sheets.Store
	backup  backup.Writer
	history history.Recorder
	now     func() time.Time
	newID   func() string
	logger  *zerolog.Logger
}

func defaults() *options {
	return &options{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSource sets the downloader used for pair sources.
func WithSource(source Source) Option {
	return func(o *options) error {
		if source == nil {
			return &errors.ValidationError{Field: "source", Message: "cannot be nil"}
		}
		o.source = source
		return nil
	}
}

// WithStore sets the spreadsheet store.
func WithStore(store sheets.Store) Option {
	return func(o *options) error {
		if store == nil {
			return &errors.ValidationError{Field: "store", Message: "cannot be nil"}
		}
		o.store = store
		return nil
	}
}

// WithBackup sets the writer for pair backups.
func WithBackup(w backup.Writer) Option {
	return func(o *options) error {
		o.backup = w
		return nil
	}
}

// WithHistory sets the recorder for cycle outcomes, overriding HistoryDB.
func WithHistory(r history.Recorder) Option {
	return func(o *options) error {
		o.history = r
		return nil
	}
}

// WithClock sets the time source for audit rows, timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}

// WithRunIDs sets the generator for run IDs.
func WithRunIDs(newID func() string) Option {
	return func(o *options) error {
		if newID == nil {
			return &errors.ValidationError{Field: "run_ids", Message: "cannot be nil"}
		}
		o.newID = newID
		return nil
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
