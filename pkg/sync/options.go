// Package sync provides options and results for running reconciliation
// cycles over configured source/target pairs.
package sync

import (
	"time"

	"github.com/agentstation/sheetsync/pkg/errors"
)

// Options controls one run over the configured pairs.
type Options struct {
	DryRun   bool          // Build plans without writing to the store
	FailFast bool          // Stop at the first failed pair instead of continuing
	Timeout  time.Duration // Timeout for the entire run, 0 means none

	// Targets restricts the run to pairs with these target ranges
	// (empty means all).
	Targets []string
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	for _, target := range s.Targets {
		if target == "" {
			return &errors.ValidationError{
				Field:   "Targets",
				Value:   s.Targets,
				Message: "target names cannot be empty",
			}
		}
	}
	return nil
}

// Includes reports whether the run covers the given target.
func (s *Options) Includes(target string) bool {
	if len(s.Targets) == 0 {
		return true
	}
	for _, t := range s.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithFailFast configures fail-fast behavior.
func WithFailFast(failFast bool) Option {
	return func(opts *Options) {
		opts.FailFast = failFast
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithTargets restricts the run to the named target ranges.
func WithTargets(targets ...string) Option {
	return func(opts *Options) {
		opts.Targets = targets
	}
}
