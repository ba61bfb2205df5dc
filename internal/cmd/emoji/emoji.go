// Package emoji provides symbol constants for CLI output.
package emoji

// Symbol constants for progress lines printed while pairs are reconciled.
const (
	// Success marks a pair whose cycle completed.
	Success = "✓"

	// Error marks a pair whose cycle failed.
	Error = "✗"

	// Optional marks a pair that was skipped or had nothing to do.
	Optional = "-"
)
