package riftsync

import "github.com/agentstation/riftsync/pkg/reconciler"

// Mode names how a sync produced its card set.
type Mode = reconciler.Mode

const (
	// ModeFull means nothing was persisted and the catalog was written as fetched.
	ModeFull = reconciler.ModeFull
	// ModeIncremental means persisted cards were kept and cached assets backfilled.
	ModeIncremental = reconciler.ModeIncremental
)
