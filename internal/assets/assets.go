// Package assets maintains the local card image cache: a flat directory of
// <identifier>.<ext> files where a file's presence is the only record that
// the asset was materialized.
package assets

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/riftsync/pkg/constants"
	"github.com/agentstation/riftsync/pkg/errors"
)

// Downloader fetches url and stores the body at path. Implementations must
// not leave a file at path when they fail.
type Downloader interface {
	Download(ctx context.Context, url, path string) error
}

// Config locates the cache and bounds download concurrency.
type Config struct {
	Dir     string
	Ext     string
	Workers int
}

// DefaultConfig returns the default cache layout with sequential downloads.
func DefaultConfig() Config {
	return Config{
		Dir:     constants.DefaultAssetsDir,
		Ext:     constants.DefaultAssetExt,
		Workers: constants.DefaultWorkers,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Dir == "" {
		return errors.NewValidationError("assets_dir", c.Dir, "cannot be empty")
	}
	if c.Ext == "" || strings.ContainsAny(c.Ext, `./\`) {
		return errors.NewValidationError("asset_ext", c.Ext, "must be a non-empty extension without a dot")
	}
	if c.Workers < 1 || c.Workers > constants.MaxWorkers {
		return errors.NewValidationError("workers", c.Workers, "must be between 1 and the worker limit")
	}
	return nil
}

// Path returns the cache path for a card identifier.
func (c Config) Path(id string) string {
	return filepath.Join(c.Dir, id+"."+c.Ext)
}

// LocalIDs lists the identifiers that already have an asset in dir, matching
// the extension case-insensitively. A missing directory yields an empty set.
func LocalIDs(dir, ext string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ids, nil
		}
		return ids, errors.WrapIO("list", dir, err)
	}

	suffix := "." + ext
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(name) <= len(suffix) || !strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			continue
		}
		ids[name[:len(name)-len(suffix)]] = struct{}{}
	}
	return ids, nil
}

// safeID reports whether id can be used as a file name inside the cache.
func safeID(id string) bool {
	return id != "" &&
		id != "." &&
		!strings.Contains(id, "..") &&
		!strings.ContainsAny(id, `/\`)
}
