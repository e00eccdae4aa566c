package riftsync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/riftsync/internal/snapshot"
	"github.com/agentstation/riftsync/internal/utils/ptr"
	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// catalogServer serves a paginated card catalog plus one image per card.
type catalogServer struct {
	*httptest.Server
	pages    [][]map[string]any
	failPage int
	images   atomic.Int32
}

func newCatalogServer(t *testing.T, pages ...[]map[string]any) *catalogServer {
	t.Helper()
	cs := &catalogServer{pages: pages}
	mux := http.NewServeMux()
	mux.HandleFunc("/cards", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "riftsync/1.0", r.Header.Get("User-Agent"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == cs.failPage {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if page < 1 || page > len(cs.pages) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": cs.pages[page-1],
			"page":  page,
			"pages": len(cs.pages),
		})
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		cs.images.Add(1)
		_, _ = w.Write([]byte("image:" + r.URL.Path))
	})
	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Close)
	return cs
}

func (cs *catalogServer) card(id, subset, name string) map[string]any {
	return map[string]any{
		"name":       name,
		"identifier": id,
		"subset":     map[string]any{"subset_id": subset, "label": "Set " + subset},
		"media":      map[string]any{"asset_url": cs.URL + "/img/" + id + ".png"},
	}
}

type env struct {
	snapshot string
	assets   string
}

func newEnv(t *testing.T) env {
	dir := t.TempDir()
	return env{
		snapshot: filepath.Join(dir, "cards.txt"),
		assets:   filepath.Join(dir, "cards_png"),
	}
}

func newClient(t *testing.T, e env, srv *catalogServer, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL),
		WithSnapshotPath(e.snapshot),
		WithAssetsDir(e.assets),
		WithPageSize(2),
	}
	c, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func snapshotIDs(t *testing.T, path string) []string {
	t.Helper()
	snap := snapshot.Load(context.Background(), path)
	require.Equal(t, snapshot.ShapeGrouped, snap.Shape)
	out := make([]string, 0, len(snap.Cards))
	for _, c := range snap.Cards {
		out = append(out, c.Identifier())
	}
	return out
}

func TestSyncFullRebuild(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{
		{srv.card("ogn-010", "OGN", "Ten"), srv.card("arc-001", "ARC", "One")},
		{srv.card("ogn-002", "OGN", "Two")},
	}
	c := newClient(t, e, srv)

	result, err := c.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeFull, result.Mode)
	assert.Equal(t, snapshot.ShapeMissing, result.SnapshotShape)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 3, result.Written)
	assert.Equal(t, 3, result.Assets.Downloaded)
	assert.NoError(t, result.Err())
	assert.Equal(t, []string{"arc-001", "ogn-002", "ogn-010"}, snapshotIDs(t, e.snapshot))
	assert.False(t, result.StartedAt.IsZero())
	assert.False(t, result.FinishedAt.IsZero())

	for _, id := range []string{"arc-001", "ogn-002", "ogn-010"} {
		data, err := os.ReadFile(filepath.Join(e.assets, id+".png"))
		require.NoError(t, err)
		assert.Equal(t, "image:/img/"+id+".png", string(data))
	}
}

func TestSyncIncrementalBackfill(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{
		{srv.card("a-1", "A", "Renamed upstream"), srv.card("a-2", "A", "Two")},
		{srv.card("a-3", "A", "Three")},
	}

	require.NoError(t, snapshot.Save(e.snapshot, []cards.Card{{
		ID:     ptr.To("a-1"),
		Name:   ptr.To("Original"),
		Subset: cards.Subset{SubsetID: ptr.To("A"), Label: ptr.To("Set A")},
		Tags:   []string{},
	}}))
	require.NoError(t, os.MkdirAll(e.assets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.assets, "a-2.png"), []byte("cached"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(e.assets, "zz-9.png"), []byte("orphan"), 0o644))

	tl := logging.NewTestLogger(t)
	c := newClient(t, e, srv)
	result, err := c.Sync(tl.Context(context.Background()))
	require.NoError(t, err)

	assert.Equal(t, ModeIncremental, result.Mode)
	assert.Equal(t, snapshot.ShapeGrouped, result.SnapshotShape)
	assert.Equal(t, []string{"a-2"}, result.Backfilled)
	assert.Equal(t, []string{"zz-9"}, result.Unresolved)
	assert.Equal(t, []string{"a-1", "a-2"}, snapshotIDs(t, e.snapshot))

	snap := snapshot.Load(context.Background(), e.snapshot)
	assert.Equal(t, "Original", *snap.Cards[0].Name)

	// a-2 is cached; a-1 and a-3 are fetched and missing.
	assert.Equal(t, 2, result.Assets.Downloaded)
	assert.Equal(t, 1, result.Assets.Skipped)
	data, err := os.ReadFile(filepath.Join(e.assets, "a-2.png"))
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))

	tl.AssertContains(t, "Filling missing cards from cached assets")
}

func TestSyncIsIdempotent(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{{srv.card("b-2", "B", "x"), srv.card("b-1", "B", "y")}}
	c := newClient(t, e, srv)

	_, err := c.Sync(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(e.snapshot)
	require.NoError(t, err)

	second, err := c.Sync(context.Background())
	require.NoError(t, err)
	again, err := os.ReadFile(e.snapshot)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(again))
	assert.Equal(t, ModeIncremental, second.Mode)
	assert.Empty(t, second.Backfilled)
	assert.Equal(t, 2, second.Assets.Skipped)
	assert.Equal(t, int32(2), srv.images.Load())
}

func TestSyncFetchFailureLeavesSnapshot(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{{srv.card("a-1", "A", "x"), srv.card("a-2", "A", "y")}, {}}
	srv.failPage = 2

	original := "[]\n"
	require.NoError(t, os.WriteFile(e.snapshot, []byte(original), 0o644))

	c := newClient(t, e, srv)
	result, err := c.Sync(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsFetchError(err))
	assert.True(t, errors.IsSourceUnavailable(err))

	data, readErr := os.ReadFile(e.snapshot)
	require.NoError(t, readErr)
	assert.Equal(t, original, string(data))
	assert.NoDirExists(t, e.assets)
	assert.Zero(t, srv.images.Load())
}

func TestSyncDryRun(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{{srv.card("a-1", "A", "x")}}
	c := newClient(t, e, srv)

	result, err := c.Sync(context.Background(), WithDryRun())
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.False(t, result.FinishedAt.IsZero())
	assert.Equal(t, 1, result.Written)
	assert.NoFileExists(t, e.snapshot)
	assert.NoDirExists(t, e.assets)
}

func TestSyncSkipAssets(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{{srv.card("a-1", "A", "x")}}
	c := newClient(t, e, srv)

	result, err := c.Sync(context.Background(), WithSkipAssets())
	require.NoError(t, err)
	assert.FileExists(t, e.snapshot)
	assert.Zero(t, result.Assets.Total())
	assert.Zero(t, srv.images.Load())
}

func TestSyncCorruptSnapshotRebuilds(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{{srv.card("a-1", "A", "x")}}
	require.NoError(t, os.WriteFile(e.snapshot, []byte("{corrupt"), 0o644))

	c := newClient(t, e, srv)
	result, err := c.Sync(context.Background(), WithSkipAssets())
	require.NoError(t, err)
	assert.Equal(t, snapshot.ShapeInvalid, result.SnapshotShape)
	assert.Equal(t, ModeFull, result.Mode)
	assert.Equal(t, []string{"a-1"}, snapshotIDs(t, e.snapshot))
}

// failingDownloader fails every download.
type failingDownloader struct{}

func (failingDownloader) Download(context.Context, string, string) error {
	return fmt.Errorf("no network")
}

func TestSyncAssetFailuresAreReported(t *testing.T) {
	e := newEnv(t)
	srv := newCatalogServer(t)
	srv.pages = [][]map[string]any{{srv.card("a-1", "A", "x"), srv.card("a-2", "A", "y")}}

	c := newClient(t, e, srv, WithDownloader(failingDownloader{}), WithWorkers(2))
	result, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 2, result.Assets.Failed)
	require.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), "a-1")
	assert.FileExists(t, e.snapshot)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"page size", []Option{WithPageSize(0)}},
		{"base url", []Option{WithBaseURL("ftp://example.com")}},
		{"workers", []Option{WithWorkers(0)}},
		{"extension", []Option{WithAssetExt(".png")}},
		{"snapshot", []Option{WithSnapshotPath("")}},
		{"timeout", []Option{WithHTTPTimeout(-1)}},
		{"nil fetcher", []Option{WithFetcher(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, "cards.txt", c.SnapshotPath())
	assert.Equal(t, "cards_png", c.AssetsDir())
}
