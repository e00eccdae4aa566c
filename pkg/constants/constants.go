// Package constants provides shared constants used throughout the riftsync codebase.
// This includes endpoints, timeouts, limits, file permissions, and default paths
// that should be consistent across the application.
package constants

import "time"

// Remote catalog constants
const (
	// DefaultBaseURL is the base URL of the remote card catalog API
	DefaultBaseURL = "https://api.riftcodex.com"

	// CardsEndpoint is the paginated card listing path, relative to the base URL
	CardsEndpoint = "/cards"

	// DefaultUserAgent identifies the client to the catalog API
	DefaultUserAgent = "riftsync/1.0"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for page fetches and asset downloads
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultPageSize is the number of cards requested per page
	DefaultPageSize = 100

	// MaxPageSize is the largest page size accepted by configuration
	MaxPageSize = 1000

	// DefaultWorkers is the number of concurrent asset downloads (sequential by default)
	DefaultWorkers = 1

	// MaxWorkers caps the asset download pool
	MaxWorkers = 32
)

// Path constants
const (
	// DefaultSnapshotPath is the persisted snapshot written after every run
	DefaultSnapshotPath = "cards.txt"

	// DefaultAssetsDir is the flat directory holding <identifier>.<ext> files
	DefaultAssetsDir = "cards_png"

	// DefaultAssetExt is the file extension of cached card images
	DefaultAssetExt = "png"
)
