package reconciler

import (
	"strings"
	"time"

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/differ"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// options configures a reconciler.
type options struct {
	now             func() time.Time
	auditMessage    string
	updateTimestamp bool
	appendOnly      bool
	differ          differ.Differ
}

func defaultOptions() *options {
	return &options{
		now:          time.Now,
		auditMessage: constants.DefaultAuditMessage,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.differ == nil {
		o.differ = differ.New(differ.WithIgnoreTrailingColumns(o.updateTimestamp))
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithClock sets the time source used for audit rows and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.now = now
		return nil
	}
}

// WithAuditMessage sets the text the audit row timestamp follows.
func WithAuditMessage(message string) Option {
	return func(o *options) error {
		if strings.TrimSpace(message) == "" {
			return &errors.ValidationError{
				Field:   "audit_message",
				Value:   message,
				Message: "cannot be blank",
			}
		}
		o.auditMessage = message
		return nil
	}
}

// WithUpdateTimestampColumn appends a "last updated" field after the source
// columns of every updated row. Appended rows never get one, so stores
// written this way hold rows one field wider than their header.
func WithUpdateTimestampColumn(enabled bool) Option {
	return func(o *options) error {
		o.updateTimestamp = enabled
		return nil
	}
}

// WithAppendOnly switches to the legacy mode: rows whose key exceeds the
// largest stored key are appended and nothing is ever updated.
func WithAppendOnly(enabled bool) Option {
	return func(o *options) error {
		o.appendOnly = enabled
		return nil
	}
}

// WithDiffer replaces the change detector.
func WithDiffer(d differ.Differ) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "differ",
				Message: "cannot be nil",
			}
		}
		o.differ = d
		return nil
	}
}
