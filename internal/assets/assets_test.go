package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/riftsync/pkg/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestLocalIDs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "ogn-001.png", "ogn-002.PNG", "notes.txt", "ogn-003.png.tmp", ".png", "arc-010.Png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	ids, err := LocalIDs(dir, "png")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"ogn-001": {},
		"ogn-002": {},
		"arc-010": {},
	}, ids)
}

func TestLocalIDsMissingDir(t *testing.T) {
	ids, err := LocalIDs(filepath.Join(t.TempDir(), "absent"), "png")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLocalIDsNotADirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file")
	_, err := LocalIDs(filepath.Join(dir, "file"), "png")
	var ioe *errors.IOError
	assert.True(t, errors.As(err, &ioe))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"empty dir", Config{Ext: "png", Workers: 1}, false},
		{"dotted ext", Config{Dir: "d", Ext: ".png", Workers: 1}, false},
		{"empty ext", Config{Dir: "d", Workers: 1}, false},
		{"zero workers", Config{Dir: "d", Ext: "png"}, false},
		{"too many workers", Config{Dir: "d", Ext: "png", Workers: 1000}, false},
		{"webp", Config{Dir: "d", Ext: "webp", Workers: 8}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsValidationError(err))
			}
		})
	}
}

func TestSafeID(t *testing.T) {
	for _, id := range []string{"ogn-001", "OGN-001a-2", "x.y"} {
		assert.True(t, safeID(id), id)
	}
	for _, id := range []string{"", ".", "..", "../etc", "a/b", `a\b`} {
		assert.False(t, safeID(id), id)
	}
}

func TestConfigPath(t *testing.T) {
	cfg := Config{Dir: "cards_png", Ext: "png", Workers: 1}
	assert.Equal(t, filepath.Join("cards_png", "ogn-001.png"), cfg.Path("ogn-001"))
}
