package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/riftsync"
	"github.com/agentstation/riftsync/pkg/errors"
)

const flatSnapshot = `[
  {"identifier": "ogn-002", "name": "Second", "subset": {"subset_id": "OGN", "label": "Origins"}},
  {"identifier": "ogn-001", "name": "First", "subset": {"subset_id": "OGN", "label": "Origins"}}
]`

func newClient(t *testing.T, content string) (*riftsync.Client, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.txt")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	client, err := riftsync.New(
		riftsync.WithSnapshotPath(path),
		riftsync.WithAssetsDir(filepath.Join(dir, "cards_png")),
	)
	require.NoError(t, err)
	return client, path
}

func TestExecuteJSONMatchesSyncOutput(t *testing.T) {
	client, path := newClient(t, flatSnapshot)

	var first bytes.Buffer
	require.NoError(t, Execute(context.Background(), &first, client, "json"))
	assert.Contains(t, first.String(), `"subset_id": "OGN"`)
	assert.Less(t, bytes.Index(first.Bytes(), []byte("ogn-001")), bytes.Index(first.Bytes(), []byte("ogn-002")))

	// Exporting the canonical form again is byte-identical
	require.NoError(t, os.WriteFile(path, first.Bytes(), 0o644))
	var second bytes.Buffer
	require.NoError(t, Execute(context.Background(), &second, client, ""))
	assert.Equal(t, first.String(), second.String())
}

func TestExecuteYAML(t *testing.T) {
	client, _ := newClient(t, flatSnapshot)

	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), &buf, client, "yaml"))
	assert.Contains(t, buf.String(), "subset_id: OGN")
	assert.Contains(t, buf.String(), "identifier: ogn-001")
}

func TestExecuteErrors(t *testing.T) {
	t.Run("missing snapshot", func(t *testing.T) {
		client, _ := newClient(t, "")
		var re *errors.ResourceError
		assert.True(t, errors.As(Execute(context.Background(), &bytes.Buffer{}, client, "json"), &re))
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		client, _ := newClient(t, `{"not": "an array"}`)
		assert.Error(t, Execute(context.Background(), &bytes.Buffer{}, client, "json"))
	})

	t.Run("table is not an export format", func(t *testing.T) {
		client, _ := newClient(t, flatSnapshot)
		assert.True(t, errors.IsValidationError(Execute(context.Background(), &bytes.Buffer{}, client, "table")))
	})

	t.Run("unknown format", func(t *testing.T) {
		client, _ := newClient(t, flatSnapshot)
		assert.Error(t, Execute(context.Background(), &bytes.Buffer{}, client, "xml"))
	})
}
