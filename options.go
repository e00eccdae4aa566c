package riftsync

import (
	"time"

	"github.com/agentstation/riftsync/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*config) error

// WithBaseURL sets the catalog API root.
func WithBaseURL(url string) Option {
	return func(c *config) error {
		c.baseURL = url
		return nil
	}
}

// WithSnapshotPath sets where the grouped snapshot is read and written.
func WithSnapshotPath(path string) Option {
	return func(c *config) error {
		c.snapshotPath = path
		return nil
	}
}

// WithAssetsDir sets the asset cache directory.
func WithAssetsDir(dir string) Option {
	return func(c *config) error {
		c.assetsDir = dir
		return nil
	}
}

// WithAssetExt sets the asset file extension, without the dot.
func WithAssetExt(ext string) Option {
	return func(c *config) error {
		c.assetExt = ext
		return nil
	}
}

// WithPageSize sets the number of cards requested per page.
func WithPageSize(size int) Option {
	return func(c *config) error {
		c.pageSize = size
		return nil
	}
}

// WithWorkers sets how many asset downloads may run at once.
func WithWorkers(n int) Option {
	return func(c *config) error {
		c.workers = n
		return nil
	}
}

// WithUserAgent sets the User-Agent of the default HTTP transport.
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		c.userAgent = ua
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout of the default HTTP transport.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return &errors.ValidationError{Field: "http_timeout", Value: d, Message: "must be non-negative"}
		}
		c.httpTimeout = d
		return nil
	}
}

// WithFetcher replaces the page fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *config) error {
		if f == nil {
			return &errors.ValidationError{Field: "fetcher", Message: "cannot be nil"}
		}
		c.fetcher = f
		return nil
	}
}

// WithDownloader replaces the asset downloader.
func WithDownloader(d Downloader) Option {
	return func(c *config) error {
		if d == nil {
			return &errors.ValidationError{Field: "downloader", Message: "cannot be nil"}
		}
		c.downloader = d
		return nil
	}
}
