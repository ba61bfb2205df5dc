package sheetsync

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/logging"
	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/sync"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Cycle stages, as reported in SyncError.
const (
	StageDownload = "download"
	StageParse    = "parse"
	StageBackup   = "backup"
	StageFetch    = "fetch"
	StagePlan     = "plan"
	StageUpdate   = "update"
	StageAppend   = "append"
)

// Sync runs one cycle per configured pair, sequentially. A failed pair is
// recorded in the result and the next pair still runs, unless FailFast is
// set. The returned error joins every pair failure; the result is returned
// alongside it.
func (c *client) Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	ctx = c.context(ctx)
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	result := &sync.Result{
		RunID:     c.options.newID(),
		StartedAt: c.options.now(),
		DryRun:    options.DryRun,
	}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().
		Int("pairs", len(c.config.Pairs)).
		Bool("dry_run", options.DryRun).
		Msg("Starting sync run")

	for _, pair := range c.config.Pairs {
		if !options.Includes(pair.Target) {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Duration = c.options.now().Sub(result.StartedAt)
			return result, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		pr := c.runPair(ctx, pair, result.RunID, options.DryRun)
		result.Add(pr)
		if pr.Failed() && options.FailFast {
			break
		}
	}
	result.Duration = c.options.now().Sub(result.StartedAt)

	logger.Info().
		Int("updates", result.TotalUpdates).
		Int("appended", result.TotalAppends).
		Int("failed", result.PairsFailed).
		Dur("duration", result.Duration).
		Msg(result.Summary())

	if result.HasFailures() {
		return result, stderrors.Join(result.Errors()...)
	}
	return result, nil
}

// SyncPair runs one cycle for pair. Options other than DryRun and Timeout
// do not apply to a single pair.
func (c *client) SyncPair(ctx context.Context, pair Pair, opts ...sync.Option) (*sync.PairResult, error) {
	ctx = c.context(ctx)
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	runID := c.options.newID()
	pr := c.runPair(logging.WithRunID(ctx, runID), pair, runID, options.DryRun)
	return pr, pr.Err
}

// Plan builds the write plan for pair without writing to the store or
// the backup.
func (c *client) Plan(ctx context.Context, pair Pair) (*reconciler.Plan, error) {
	pr, err := c.SyncPair(ctx, pair, sync.WithDryRun(true))
	if err != nil {
		return nil, err
	}
	if pr.Plan == nil {
		return &reconciler.Plan{}, nil
	}
	return pr.Plan, nil
}

// runPair runs one reconciliation cycle: download, parse, backup, fetch,
// plan, then one batched update followed by one append. Any collaborator
// failure stops the cycle; writes already issued are not rolled back.
func (c *client) runPair(ctx context.Context, pair Pair, runID string, dryRun bool) *sync.PairResult {
	started := c.options.now()
	ctx = logging.WithPair(ctx, pair.Target)
	logger := logging.FromContext(ctx)

	pr := &sync.PairResult{Source: pair.Source, Target: pair.Target}
	fail := func(stage string, err error) *sync.PairResult {
		pr.Fail(errors.NewSyncError(pair.Target, stage, err))
		stageCtx := logging.WithStage(ctx, stage)
		logging.FromContext(stageCtx).Error().Err(err).Msg("Cycle failed")
		return c.finish(stageCtx, pr, runID, started, dryRun)
	}

	body, err := c.source.Download(ctx, pair.Source)
	if err != nil {
		return fail(StageDownload, err)
	}
	incoming, err := table.Parse(body)
	if err != nil {
		return fail(StageParse, err)
	}
	pr.IncomingRows = len(incoming.Rows)

	if incoming.IsEmpty() {
		pr.Status = sync.StatusEmpty
		logger.Info().Msg("Source is empty, store left untouched")
		return c.finish(ctx, pr, runID, started, dryRun)
	}

	if pair.BackupPath != "" && !dryRun {
		if err := c.backup.Write(ctx, pair.BackupPath, incoming); err != nil {
			return fail(StageBackup, err)
		}
		pr.BackupPath = pair.BackupPath
	}

	values, err := c.store.Fetch(ctx, pair.Target)
	if err != nil {
		return fail(StageFetch, err)
	}
	snapshot := table.SnapshotFromValues(values)
	pr.StoredRows = len(snapshot.Rows)

	plan, err := c.reconciler.Plan(ctx, incoming, snapshot)
	if err != nil {
		return fail(StagePlan, err)
	}
	pr.SetPlan(plan)

	if dryRun {
		pr.Status = sync.StatusPlanned
		return c.finish(ctx, pr, runID, started, dryRun)
	}

	if plan.IsEmpty() {
		pr.Status = sync.StatusApplied
		logger.Debug().Msg("Plan is empty, no writes issued")
		return c.finish(ctx, pr, runID, started, dryRun)
	}
	if len(plan.Updates) > 0 {
		if err := c.store.BatchUpdate(ctx, pair.Target, plan.Updates); err != nil {
			return fail(StageUpdate, err)
		}
	}
	if len(plan.Appends) > 0 {
		if err := c.store.Append(ctx, pair.Target, plan.Appends); err != nil {
			return fail(StageAppend, err)
		}
	}
	pr.Status = sync.StatusApplied
	return c.finish(ctx, pr, runID, started, dryRun)
}

// finish logs and records a cycle outcome and fires hooks.
func (c *client) finish(ctx context.Context, pr *sync.PairResult, runID string, started time.Time, dryRun bool) *sync.PairResult {
	logger := logging.FromContext(ctx)
	if !pr.Failed() {
		logger.Info().
			Str("status", string(pr.Status)).
			Int("updated", pr.Updated).
			Int("added", pr.Added).
			Int("unchanged", pr.Unchanged).
			Int("skipped", pr.Skipped).
			Msg(pr.Summary())
	}

	if c.history != nil {
		entry := history.Entry{
			RunID:     runID,
			Source:    pr.Source,
			Target:    pr.Target,
			Status:    string(pr.Status),
			DryRun:    dryRun,
			Bootstrap: pr.Bootstrap,
			Updated:   pr.Updated,
			Added:     pr.Added,
			Appended:  pr.Appended,
			Unchanged: pr.Unchanged,
			Skipped:   pr.Skipped,
			Error:     pr.Error,
			StartedAt: started,
			Duration:  c.options.now().Sub(started),
		}
		// A canceled run is still recorded.
		if err := c.history.Record(context.WithoutCancel(ctx), entry); err != nil {
			logger.Warn().Err(err).Msg("Failed to record cycle history")
		}
	}

	c.hooks.trigger(pr)
	return pr
}
