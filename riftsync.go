// Package riftsync keeps a local card catalog snapshot and image cache in
// step with a paginated remote catalog.
//
// A sync run loads the persisted snapshot, walks every catalog page, merges
// the two without ever dropping or refreshing persisted cards, writes the
// grouped snapshot and downloads missing card images:
//
//	client, err := riftsync.New(riftsync.WithSnapshotPath("cards.txt"))
//	if err != nil {
//		return err
//	}
//	result, err := client.Sync(ctx)
package riftsync

import (
	"context"
	"time"

	"github.com/agentstation/riftsync/internal/assets"
	"github.com/agentstation/riftsync/internal/pagination"
	"github.com/agentstation/riftsync/internal/snapshot"
	"github.com/agentstation/riftsync/internal/transport"
	"github.com/agentstation/riftsync/pkg/constants"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/reconciler"
)

// Fetcher retrieves one catalog URL as a decoded JSON value.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) (any, error)
}

// Downloader stores the body of url at path without leaving partial files.
type Downloader interface {
	Download(ctx context.Context, url, path string) error
}

// config holds the client settings collected from options.
type config struct {
	baseURL      string
	snapshotPath string
	assetsDir    string
	assetExt     string
	pageSize     int
	workers      int
	userAgent    string
	httpTimeout  time.Duration
	fetcher      Fetcher
	downloader   Downloader
}

func defaultConfig() *config {
	return &config{
		baseURL:      constants.DefaultBaseURL,
		snapshotPath: constants.DefaultSnapshotPath,
		assetsDir:    constants.DefaultAssetsDir,
		assetExt:     constants.DefaultAssetExt,
		pageSize:     constants.DefaultPageSize,
		workers:      constants.DefaultWorkers,
		userAgent:    constants.DefaultUserAgent,
		httpTimeout:  constants.DefaultHTTPTimeout,
	}
}

// Client runs sync operations against one catalog, snapshot and asset cache.
type Client struct {
	config     *config
	walker     *pagination.Walker
	syncer     *assets.Syncer
	reconciler reconciler.Reconciler
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("client", "applying options", err)
		}
	}
	if cfg.snapshotPath == "" {
		return nil, errors.NewValidationError("snapshot", cfg.snapshotPath, "cannot be empty")
	}

	if cfg.fetcher == nil || cfg.downloader == nil {
		client := transport.New(
			transport.WithUserAgent(cfg.userAgent),
			transport.WithTimeout(cfg.httpTimeout),
		)
		if cfg.fetcher == nil {
			cfg.fetcher = client
		}
		if cfg.downloader == nil {
			cfg.downloader = client
		}
	}

	walker, err := pagination.New(cfg.fetcher, pagination.Config{
		BaseURL:  cfg.baseURL,
		Endpoint: constants.CardsEndpoint,
		PageSize: cfg.pageSize,
	})
	if err != nil {
		return nil, err
	}
	syncer, err := assets.NewSyncer(cfg.downloader, cfg.assetsConfig())
	if err != nil {
		return nil, err
	}
	rec, err := reconciler.New()
	if err != nil {
		return nil, err
	}

	return &Client{
		config:     cfg,
		walker:     walker,
		syncer:     syncer,
		reconciler: rec,
	}, nil
}

func (c *config) assetsConfig() assets.Config {
	return assets.Config{Dir: c.assetsDir, Ext: c.assetExt, Workers: c.workers}
}

// SnapshotPath returns the path of the persisted snapshot.
func (c *Client) SnapshotPath() string {
	return c.config.snapshotPath
}

// AssetsDir returns the asset cache directory.
func (c *Client) AssetsDir() string {
	return c.config.assetsDir
}

// Snapshot loads the persisted snapshot without contacting the catalog.
func (c *Client) Snapshot(ctx context.Context) snapshot.Snapshot {
	return snapshot.Load(ctx, c.config.snapshotPath)
}

// LocalIDs lists the card IDs that already have a cached asset.
func (c *Client) LocalIDs() (map[string]struct{}, error) {
	return assets.LocalIDs(c.config.assetsDir, c.config.assetExt)
}
