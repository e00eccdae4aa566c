package assets

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/constants"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Stats reports the outcome of one Sync.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Failures lists failed downloads ordered by card ID.
	Failures []Failure
}

// Total returns the number of cards considered.
func (s Stats) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// Failure describes one failed download.
type Failure struct {
	ID  string
	URL string
	Err error
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeDownloaded
	outcomeFailed
)

// Syncer downloads missing card assets into the cache.
type Syncer struct {
	downloader Downloader
	cfg        Config
}

// NewSyncer creates a Syncer.
func NewSyncer(downloader Downloader, cfg Config) (*Syncer, error) {
	if downloader == nil {
		return nil, errors.NewValidationError("downloader", nil, "cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Syncer{downloader: downloader, cfg: cfg}, nil
}

// Sync downloads the asset of every card that has an identifier and an asset
// URL and is not cached yet. A failed download is counted and logged and never
// stops the batch. Cards without an identifier or URL count as skipped, as do
// cached cards, repeated identifiers and cards left unattempted after ctx is
// done.
//
// With more than one worker downloads run concurrently; the counts do not
// depend on completion order.
func (s *Syncer) Sync(ctx context.Context, cs []cards.Card) Stats {
	logger := logging.FromContext(ctx)

	var (
		mu    sync.Mutex
		stats Stats
	)
	record := func(o outcome, f *Failure) {
		mu.Lock()
		defer mu.Unlock()
		switch o {
		case outcomeDownloaded:
			stats.Downloaded++
		case outcomeFailed:
			stats.Failed++
			stats.Failures = append(stats.Failures, *f)
		default:
			stats.Skipped++
		}
	}

	if err := os.MkdirAll(s.cfg.Dir, constants.DirPermissions); err != nil {
		err = errors.WrapIO("mkdir", s.cfg.Dir, err)
		logger.Error().Err(err).Str("dir", s.cfg.Dir).Msg("Cannot create asset directory")
	}

	// Each identifier is handed to at most one download; repeats are skipped.
	claimed := make(map[string]struct{}, len(cs))
	var g errgroup.Group
	g.SetLimit(max(s.cfg.Workers, 1))
	for _, c := range cs {
		if id := c.Identifier(); id != "" {
			if _, dup := claimed[id]; dup {
				record(outcomeSkipped, nil)
				continue
			}
			claimed[id] = struct{}{}
		}
		if s.cfg.Workers <= 1 {
			record(s.syncOne(ctx, c))
			continue
		}
		g.Go(func() error {
			record(s.syncOne(ctx, c))
			return nil
		})
	}
	_ = g.Wait()

	slices.SortFunc(stats.Failures, func(a, b Failure) int {
		return strings.Compare(a.ID, b.ID)
	})
	logger.Info().
		Int("downloaded", stats.Downloaded).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Assets done")
	return stats
}

func (s *Syncer) syncOne(ctx context.Context, c cards.Card) (outcome, *Failure) {
	id, url := c.Identifier(), c.AssetURL()
	if id == "" || url == "" {
		return outcomeSkipped, nil
	}
	logger := logging.FromContext(logging.WithCard(ctx, id))
	if !safeID(id) {
		logger.Warn().Msg("Identifier is not a valid file name; skipping asset")
		return outcomeSkipped, nil
	}
	if ctx.Err() != nil {
		return outcomeSkipped, nil
	}

	target := s.cfg.Path(id)
	if _, err := os.Stat(target); err == nil {
		return outcomeSkipped, nil
	}

	logger.Info().Str("url", url).Msg("Downloading asset")
	if err := s.downloader.Download(ctx, url, target); err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("Failed to download asset")
		return outcomeFailed, &Failure{ID: id, URL: url, Err: err}
	}
	return outcomeDownloaded, nil
}
