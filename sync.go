package riftsync

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/riftsync/internal/assets"
	"github.com/agentstation/riftsync/internal/snapshot"
	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// SyncOption configures a single Sync call.
type SyncOption func(*syncOptions)

type syncOptions struct {
	dryRun     bool
	skipAssets bool
	timeout    time.Duration
}

// WithDryRun reconciles without writing the snapshot or downloading assets.
func WithDryRun() SyncOption {
	return func(o *syncOptions) { o.dryRun = true }
}

// WithSkipAssets writes the snapshot but does not download assets.
func WithSkipAssets() SyncOption {
	return func(o *syncOptions) { o.skipAssets = true }
}

// WithTimeout bounds the whole sync run.
func WithTimeout(d time.Duration) SyncOption {
	return func(o *syncOptions) { o.timeout = d }
}

// Sync runs one reconciliation pass: load the snapshot, fetch every catalog
// page, merge, write the snapshot and download missing assets.
//
// Only a failed page fetch or a failed snapshot write returns an error. In
// both cases the previous snapshot on disk is left untouched.
func (c *Client) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	// Step 1: Parse options
	options := &syncOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if options.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()
	ctx = logging.WithOperation(ctx, "sync")
	logger := logging.FromContext(ctx)

	// Step 3: Load persisted snapshot
	snap := snapshot.Load(ctx, c.config.snapshotPath)

	// Step 4: Fetch every catalog page
	docs, err := c.walker.FetchAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Catalog fetch failed; snapshot left unchanged")
		return nil, err
	}
	fetched := cards.NormalizeAll(docs)

	// Step 5: List cached assets
	local, err := c.LocalIDs()
	if err != nil {
		logger.Warn().Err(err).Str("dir", c.config.assetsDir).Msg("Could not list cached assets")
	}

	// Step 6: Reconcile
	merged, err := c.reconciler.Reconcile(ctx, snap.Cards, fetched, local)
	if err != nil {
		return nil, err
	}
	if merged.HasBackfill() {
		logger.Info().
			Int("count", len(merged.Backfilled)).
			Str("dir", c.config.assetsDir).
			Msg("Filling missing cards from cached assets")
	}

	result := &Result{
		Mode:          merged.Mode,
		SnapshotShape: snap.Shape,
		Fetched:       len(fetched),
		Written:       len(merged.Cards),
		Backfilled:    merged.Backfilled,
		Unresolved:    merged.Unresolved,
		DryRun:        options.dryRun,
		Cards:         merged.Cards,
	}

	// Step 7: Write snapshot
	if options.dryRun {
		logger.Info().Bool("dry_run", true).Int("cards", result.Written).Msg("Dry run completed - snapshot not written")
		result.finish(start)
		return result, nil
	}
	logger.Info().Int("cards", result.Written).Str("path", c.config.snapshotPath).Msg("Writing snapshot")
	if err := snapshot.Save(c.config.snapshotPath, merged.Cards); err != nil {
		return nil, err
	}

	// Step 8: Download missing assets for the fetched cards
	if options.skipAssets {
		logger.Info().Msg("Skipping asset download")
	} else {
		result.Assets = c.syncer.Sync(ctx, fetched)
	}

	result.finish(start)
	logger.Info().
		Int("cards", result.Written).
		Str("path", c.config.snapshotPath).
		Str("assets_dir", c.config.assetsDir).
		Dur("duration", result.Duration).
		Msg("Sync completed")
	return result, nil
}

// Result is the outcome of a Sync call.
type Result struct {
	Mode          Mode
	SnapshotShape snapshot.Shape

	// Fetched counts the cards returned by the catalog.
	Fetched int
	// Written counts the cards in the resulting snapshot.
	Written int

	Backfilled []string
	Unresolved []string

	Assets assets.Stats
	DryRun bool

	// Cards is the reconciled card set in snapshot order.
	Cards []cards.Card

	StartedAt  utc.Time
	FinishedAt utc.Time
	Duration   time.Duration
}

func (r *Result) finish(start time.Time) {
	end := time.Now()
	r.StartedAt = utc.New(start)
	r.FinishedAt = utc.New(end)
	r.Duration = end.Sub(start)
}

// HasFailures reports whether any asset download failed.
func (r *Result) HasFailures() bool {
	return r.Assets.Failed > 0
}

// Err wraps asset failures into one error, or nil when there were none.
func (r *Result) Err() error {
	if !r.HasFailures() {
		return nil
	}
	errs := make([]error, 0, len(r.Assets.Failures))
	for _, f := range r.Assets.Failures {
		errs = append(errs, errors.WrapResource("download", "asset", f.ID, f.Err))
	}
	return errors.Join(errs...)
}
