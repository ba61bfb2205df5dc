// Package app provides the application context and dependency management
// for the sheetsync CLI. It centralizes configuration, logging and the
// lifecycle of the reconciliation client and the history ledger.
package app

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetsync"
	"github.com/agentstation/sheetsync/cmd/application"
	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// App represents the sheetsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// clientOpts are passed to every client the app builds.
	clientOpts []sheetsync.Option

	// Lazily created, guarded by mu.
	mu     sync.Mutex
	client sheetsync.Client
	ledger *history.Ledger
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that can
// be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// CredentialsFile returns the configured credentials path.
func (a *App) CredentialsFile() string {
	return a.config.CredentialsFile
}

// Client returns the reconciliation client, creating it on first use.
func (a *App) Client() (sheetsync.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	cfg, err := a.config.Sheetsync()
	if err != nil {
		return nil, err
	}
	opts := append([]sheetsync.Option{sheetsync.WithLogger(a.logger)}, a.clientOpts...)
	client, err := sheetsync.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	a.client = client
	return client, nil
}

// Ledger returns the run history ledger, opening it on first use.
func (a *App) Ledger() (*history.Ledger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ledger != nil {
		return a.ledger, nil
	}
	if a.config.HistoryDB == "" {
		return nil, errors.NewConfigError("history_db", "history database is not configured (set HISTORY_DB)", nil)
	}

	ledger, err := history.Open(a.config.HistoryDB)
	if err != nil {
		return nil, err
	}
	a.ledger = ledger
	return ledger, nil
}

// Shutdown releases the client and the ledger.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
		a.client = nil
	}
	if a.ledger != nil {
		errs = append(errs, a.ledger.Close())
		a.ledger = nil
	}
	return stderrors.Join(errs...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClientOptions adds options for the client the app builds, such as a
// custom store or source (useful for testing).
func WithClientOptions(opts ...sheetsync.Option) Option {
	return func(a *App) error {
		a.clientOpts = append(a.clientOpts, opts...)
		return nil
	}
}
