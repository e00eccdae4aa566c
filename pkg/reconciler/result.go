package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/riftsync/pkg/cards"
)

// Mode names how the result was produced.
type Mode string

const (
	// ModeFull means nothing was persisted and the fetched set was used as-is.
	ModeFull Mode = "full"
	// ModeIncremental means the persisted set was kept and local assets backfilled.
	ModeIncremental Mode = "incremental"
)

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// Result represents the outcome of a reconciliation operation.
type Result struct {
	Mode  Mode
	Cards []cards.Card

	// Backfilled lists IDs appended from the fetched set, sorted.
	Backfilled []string

	// Unresolved lists local asset IDs with no persisted or fetched card, sorted.
	Unresolved []string

	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Stats     ResultStatistics
}

// ResultStatistics contains input counts for the reconciliation.
type ResultStatistics struct {
	Persisted           int
	Fetched             int
	LocalAssets         int
	DuplicatesPersisted int
	DuplicatesFetched   int
}

// IsFullRebuild reports whether the result was rebuilt from the fetched set.
func (r *Result) IsFullRebuild() bool {
	return r.Mode == ModeFull
}

// HasBackfill reports whether any card was added from the fetched set during
// an incremental run.
func (r *Result) HasBackfill() bool {
	return len(r.Backfilled) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.IsFullRebuild() {
		return fmt.Sprintf("Full rebuild: %d cards from %d fetched", len(r.Cards), r.Metadata.Stats.Fetched)
	}
	return fmt.Sprintf("Incremental: %d cards (%d backfilled, %d unresolved)",
		len(r.Cards), len(r.Backfilled), len(r.Unresolved))
}
