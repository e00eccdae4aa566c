// Package reconciler merges a persisted card snapshot with freshly fetched
// cards and the set of card IDs whose assets already exist on disk.
//
// Persisted cards are never removed, reordered or refreshed from upstream.
// Fetched cards only enter the result on a full rebuild (nothing persisted)
// or as a backfill for a local asset whose metadata was never persisted.
package reconciler

import (
	"context"
	"slices"
	"time"

	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Reconciler is the main interface for reconciling card sets.
type Reconciler interface {
	// Reconcile merges persisted and fetched cards. localIDs holds the card
	// IDs that already have an asset file and may be nil.
	Reconcile(ctx context.Context, persisted, fetched []cards.Card, localIDs map[string]struct{}) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	now func() time.Time
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{now: options.now}, nil
}

// Reconcile performs reconciliation with a step-by-step flow.
func (r *reconciler) Reconcile(ctx context.Context, persisted, fetched []cards.Card, localIDs map[string]struct{}) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(errors.ErrCanceled, err)
	}
	logger := logging.FromContext(ctx)
	start := r.now()

	// Step 1: Index both sides by identifier
	base := newIndex(persisted)
	upstream := newIndex(fetched)
	if base.duplicates > 0 {
		logger.Warn().Int("duplicates", base.duplicates).Msg("Persisted snapshot contains duplicate identifiers; keeping the last one read")
	}
	if upstream.duplicates > 0 {
		logger.Debug().Int("duplicates", upstream.duplicates).Msg("Fetched cards contain duplicate identifiers")
	}

	result := &Result{
		Backfilled: []string{},
		Unresolved: []string{},
	}

	// Step 2: Full rebuild when nothing was persisted
	if len(persisted) == 0 {
		result.Mode = ModeFull
		result.Cards = upstream.cards
		logger.Info().Int("cards", len(result.Cards)).Msg("No persisted cards; rebuilding from fetched set")
	} else {
		// Step 3: Incremental backfill of local assets missing from the snapshot
		result.Mode = ModeIncremental
		result.Cards = base.cards
		for _, id := range missing(localIDs, base) {
			card, ok := upstream.lookup(id)
			if !ok {
				result.Unresolved = append(result.Unresolved, id)
				continue
			}
			result.Cards = append(result.Cards, card)
			result.Backfilled = append(result.Backfilled, id)
		}
		logger.Info().
			Int("persisted", len(base.cards)).
			Int("backfilled", len(result.Backfilled)).
			Int("unresolved", len(result.Unresolved)).
			Msg("Reconciled persisted cards with local assets")
	}

	// Step 4: Build metadata
	end := r.now()
	result.Metadata = ResultMetadata{
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Stats: ResultStatistics{
			Persisted:           len(persisted),
			Fetched:             len(fetched),
			LocalAssets:         len(localIDs),
			DuplicatesPersisted: base.duplicates,
			DuplicatesFetched:   upstream.duplicates,
		},
	}
	return result, nil
}

// missing returns local IDs that are absent from the index, sorted.
func missing(localIDs map[string]struct{}, idx *index) []string {
	out := make([]string, 0)
	for id := range localIDs {
		if id == "" {
			continue
		}
		if _, ok := idx.positions[id]; !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
