package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/sheetsync/pkg/reconciler"
)

// Status is the outcome of one cycle.
type Status string

const (
	// StatusApplied means the plan was written to the store.
	StatusApplied Status = "applied"
	// StatusPlanned means the plan was built but not written (dry run).
	StatusPlanned Status = "planned"
	// StatusEmpty means the source was empty and the store was not touched.
	StatusEmpty Status = "empty"
	// StatusFailed means the cycle stopped with an error.
	StatusFailed Status = "failed"
)

// Result represents the complete result of a run over several pairs.
type Result struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	DryRun      bool          `json:"dry_run" yaml:"dry_run"`
	PairResults []*PairResult `json:"pairs" yaml:"pairs"`

	// Overall statistics
	TotalUpdates int `json:"total_updates" yaml:"total_updates"`
	TotalAppends int `json:"total_appends" yaml:"total_appends"`
	PairsChanged int `json:"pairs_changed" yaml:"pairs_changed"`
	PairsFailed  int `json:"pairs_failed" yaml:"pairs_failed"`
}

// PairResult represents the outcome of one reconciliation cycle.
type PairResult struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Status Status `json:"status" yaml:"status"`

	// Summary counts
	IncomingRows int  `json:"incoming_rows" yaml:"incoming_rows"`
	StoredRows   int  `json:"stored_rows" yaml:"stored_rows"`
	Updated      int  `json:"updated" yaml:"updated"`
	Added        int  `json:"added" yaml:"added"`
	Appended     int  `json:"appended" yaml:"appended"`
	Unchanged    int  `json:"unchanged" yaml:"unchanged"`
	Skipped      int  `json:"skipped" yaml:"skipped"`
	Bootstrap    bool `json:"bootstrap" yaml:"bootstrap"`

	BackupPath string           `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Plan       *reconciler.Plan `json:"plan,omitempty" yaml:"plan,omitempty"`
	Err        error            `json:"-" yaml:"-"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewPairResult creates a result for one pair and fills the counts from plan.
func NewPairResult(source, target string, plan *reconciler.Plan) *PairResult {
	pr := &PairResult{Source: source, Target: target}
	pr.SetPlan(plan)
	return pr
}

// SetPlan records the plan and its counts.
func (pr *PairResult) SetPlan(plan *reconciler.Plan) {
	pr.Plan = plan
	if plan == nil {
		return
	}
	s := plan.Summary()
	pr.Bootstrap = s.Bootstrap
	pr.Updated = s.Updates
	pr.Added = s.NewRows
	pr.Appended = s.Appends
	pr.Unchanged = s.Unchanged + s.Unmodified
	pr.Skipped = s.Skipped
}

// Fail marks the cycle as failed.
func (pr *PairResult) Fail(err error) {
	pr.Status = StatusFailed
	pr.Err = err
	if err != nil {
		pr.Error = err.Error()
	}
}

// HasChanges returns true if the cycle wrote, or would write, anything.
func (pr *PairResult) HasChanges() bool {
	return pr.Updated > 0 || pr.Appended > 0
}

// Failed returns true if the cycle stopped with an error.
func (pr *PairResult) Failed() bool {
	return pr.Status == StatusFailed
}

// Summary returns a human-readable summary of the pair result.
func (pr *PairResult) Summary() string {
	switch {
	case pr.Failed():
		return fmt.Sprintf("%s: failed: %s", pr.Target, pr.Error)
	case pr.Status == StatusEmpty:
		return fmt.Sprintf("%s: source empty", pr.Target)
	case pr.Bootstrap:
		return fmt.Sprintf("%s: bootstrapped with %d rows", pr.Target, pr.Appended)
	case !pr.HasChanges():
		return fmt.Sprintf("%s: No changes", pr.Target)
	}
	return fmt.Sprintf("%s: %d updated, %d added, %d unchanged, %d skipped",
		pr.Target, pr.Updated, pr.Added, pr.Unchanged, pr.Skipped)
}

// Add records a pair result and updates the totals.
func (r *Result) Add(pr *PairResult) {
	r.PairResults = append(r.PairResults, pr)
	if pr.Failed() {
		r.PairsFailed++
		return
	}
	r.TotalUpdates += pr.Updated
	r.TotalAppends += pr.Appended
	if pr.HasChanges() {
		r.PairsChanged++
	}
}

// HasChanges returns true if any pair changed.
func (r *Result) HasChanges() bool {
	return r.PairsChanged > 0
}

// HasFailures returns true if any pair failed.
func (r *Result) HasFailures() bool {
	return r.PairsFailed > 0
}

// Errors returns the errors of every failed pair.
func (r *Result) Errors() []error {
	var errs []error
	for _, pr := range r.PairResults {
		if pr.Err != nil {
			errs = append(errs, pr.Err)
		}
	}
	return errs
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	if r.PairsFailed > 0 {
		parts = append(parts, fmt.Sprintf("(%d failed)", r.PairsFailed))
	}

	summary := "No changes detected"
	if r.HasChanges() {
		summary = fmt.Sprintf("%d updates and %d appended rows across %d pairs",
			r.TotalUpdates, r.TotalAppends, r.PairsChanged)
	}
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}
