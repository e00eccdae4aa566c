// Package pagination walks the remote catalog page by page until the
// advertised page count is reached, accumulating raw card documents.
package pagination

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/constants"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Fetcher retrieves one URL and returns the decoded JSON value.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) (any, error)
}

// Config locates the paginated endpoint.
type Config struct {
	BaseURL  string
	Endpoint string
	PageSize int
}

// DefaultConfig returns the public catalog endpoint with the default page size.
func DefaultConfig() Config {
	return Config{
		BaseURL:  constants.DefaultBaseURL,
		Endpoint: constants.CardsEndpoint,
		PageSize: constants.DefaultPageSize,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewValidationError("base_url", c.BaseURL, "must be an absolute http(s) URL")
	}
	if c.PageSize < 1 || c.PageSize > constants.MaxPageSize {
		return errors.NewValidationError("page_size", c.PageSize, "must be between 1 and "+strconv.Itoa(constants.MaxPageSize))
	}
	return nil
}

// Walker drives a Fetcher across catalog pages. Pages are requested strictly
// in sequence starting at 1.
type Walker struct {
	fetcher Fetcher
	cfg     Config
}

// New creates a Walker.
func New(fetcher Fetcher, cfg Config) (*Walker, error) {
	if fetcher == nil {
		return nil, errors.NewValidationError("fetcher", nil, "cannot be nil")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = constants.CardsEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Walker{fetcher: fetcher, cfg: cfg}, nil
}

// PageURL returns the request URL for a page: <base><endpoint>?page=N&size=M.
func (w *Walker) PageURL(page int) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(w.cfg.PageSize))
	endpoint := w.cfg.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return strings.TrimRight(w.cfg.BaseURL, "/") + endpoint + "?" + query.Encode()
}

// FetchAll requests pages until the response's page count is absent or
// reached and returns every raw item in page order. Empty pages do not stop
// the walk. Any fetch or decode failure aborts the walk with a FetchError and
// no partial result.
//
// A response without a page count ends the walk even if the page was full.
// The walker logs a warning in that case rather than guessing whether more
// data exists.
func (w *Walker) FetchAll(ctx context.Context) ([]cards.Document, error) {
	logger := logging.FromContext(ctx)

	var all []cards.Document
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}

		pageURL := w.PageURL(page)
		logger.Info().Int("page", page).Str("url", pageURL).Msg("Fetching page")

		payload, err := w.fetcher.FetchJSON(ctx, pageURL)
		if err != nil {
			return nil, errors.NewFetchError(page, pageURL, err)
		}

		p := ParsePage(payload, w.cfg.BaseURL)
		if len(p.Items) > 0 {
			all = append(all, p.Items...)
			logger.Info().
				Int("page", page).
				Int("collected", len(p.Items)).
				Int("total", len(all)).
				Msg("Collected cards")
		} else {
			logger.Info().Int("page", page).Msg("No cards found on this page")
		}
		if p.Dropped > 0 {
			logger.Warn().Int("page", page).Int("dropped", p.Dropped).Msg("Skipped non-object items")
		}
		if p.Next != "" {
			logger.Debug().Int("page", page).Str("next", p.Next).Msg("Response carries a next-page hint")
		}

		if p.Pages == 0 || page >= p.Pages {
			if p.Pages == 0 && !p.Terminal && len(p.Items) >= w.cfg.PageSize {
				logger.Warn().
					Int("page", page).
					Int("page_size", w.cfg.PageSize).
					Msg("Full page without a page count; stopping, more data may exist upstream")
			}
			logger.Info().Int("pages", page).Int("total", len(all)).Msg("Reached last page")
			return all, nil
		}
	}
}
