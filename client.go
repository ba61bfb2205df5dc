// Package sheetsync keeps ranges of a Google spreadsheet in step with
// remote CSV documents.
//
// Each configured pair maps a source URL to a target range. A
// reconciliation cycle downloads the source, compares it with the rows
// already in the range by their integer identity key, rewrites rows that
// changed (never blanking a stored value), and appends new rows followed by
// an audit row. An empty range is bootstrapped with the whole table.
//
// Example usage:
//
//	cfg := sheetsync.Config{
//	    SpreadsheetID: "1AbC...",
//	    Pairs: []sheetsync.Pair{
//	        {Source: "https://example.com/export.csv", Target: "Journal"},
//	    },
//	    CredentialsFile: "credentials.json",
//	}
//	client, err := sheetsync.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Sync(ctx)
//	fmt.Println(result.Summary())
package sheetsync

import (
	"context"

	"google.golang.org/api/option"

	"github.com/agentstation/sheetsync/internal/auth/adc"
	"github.com/agentstation/sheetsync/internal/backup"
	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/internal/sheets"
	"github.com/agentstation/sheetsync/internal/transport"
	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/sync"
)

// Source downloads the raw bytes of a source document.
type Source interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Syncer runs reconciliation cycles.
type Syncer interface {
	// Sync runs one cycle per configured pair, in order.
	Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error)

	// SyncPair runs one cycle for a single pair.
	SyncPair(ctx context.Context, pair Pair, opts ...sync.Option) (*sync.PairResult, error)
}

// Planner builds write plans without touching the store.
type Planner interface {
	Plan(ctx context.Context, pair Pair) (*reconciler.Plan, error)
}

// Client reconciles configured pairs.
type Client interface {
	Syncer
	Planner
	Hooks

	// Config returns the configuration the client was built with.
	Config() Config

	// Close releases the history ledger, if the client opened one.
	Close() error
}

var _ Client = (*client)(nil)

// client is the internal implementation of the Client interface.
type client struct {
	config     Config
	options    *options
	reconciler reconciler.Reconciler

	source  Source
	store   sheets.Store
	backup  backup.Writer
	history history.Recorder

	// ledger is set when the client opened the history itself.
	ledger *history.Ledger
	hooks  *hooks
}

// New validates cfg and creates a Client. Collaborators not supplied
// through options are built from cfg: an HTTP downloader, a Google Sheets
// store using discovered credentials, a file backup writer and, when
// HistoryDB is set, a SQLite ledger.
func New(cfg Config, opts ...Option) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	recOpts := []reconciler.Option{
		reconciler.WithClock(o.now),
		reconciler.WithUpdateTimestampColumn(cfg.UpdateTimestampColumn),
		reconciler.WithAppendOnly(cfg.AppendOnly),
	}
	if cfg.AuditMessage != "" {
		recOpts = append(recOpts, reconciler.WithAuditMessage(cfg.AuditMessage))
	}
	rec, err := reconciler.New(recOpts...)
	if err != nil {
		return nil, errors.NewConfigError("reconciler", err.Error(), err)
	}

	c := &client{
		config:     cfg,
		options:    o,
		reconciler: rec,
		source:     o.source,
		store:      o.store,
		backup:     o.backup,
		history:    o.history,
		hooks:      newHooks(),
	}

	if c.source == nil {
		auth, err := transport.ParseAuthenticator(cfg.EndpointAuth)
		if err != nil {
			return nil, errors.NewConfigError("endpoint_auth", err.Error(), err)
		}
		c.source = transport.New(auth, transport.WithToken(cfg.EndpointToken))
	}
	if c.backup == nil {
		c.backup = backup.NewFileWriter()
	}
	if c.store == nil {
		store, err := newGoogleStore(cfg)
		if err != nil {
			return nil, err
		}
		c.store = store
	}
	if c.history == nil && cfg.HistoryDB != "" {
		ledger, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		c.ledger = ledger
		c.history = ledger
	}

	return c, nil
}

func newGoogleStore(cfg Config) (*sheets.GoogleStore, error) {
	path, file, err := adc.Resolve(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Str("path", path).
		Str("type", file.Type).
		Msg("Using spreadsheet credentials")

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultHTTPTimeout)
	defer cancel()
	return sheets.NewGoogleStore(ctx, cfg.SpreadsheetID, option.WithCredentialsFile(path))
}

// Config implements Client.
func (c *client) Config() Config {
	return c.config
}

// Close implements Client.
func (c *client) Close() error {
	return c.ledger.Close()
}

// context attaches the configured logger when ctx carries none.
func (c *client) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.options.logger != nil && logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, c.options.logger)
	}
	return ctx
}
