package fontload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseOpenTypeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.fontload")
	defer teardown()
	//
	f, err := ParseOpenTypeFont(goregular.TTF, 0)
	require.NoError(t, err)
	assert.Contains(t, f.Fontname, "Go")
	assert.Empty(t, f.Path)
	assert.NotNil(t, f.SFNT)
	_, err = ParseOpenTypeFont(goregular.TTF, 1)
	assert.Error(t, err, "single fonts have one face only")
	_, err = ParseOpenTypeFont([]byte("garbage"), 0)
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.fontload")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	located, err := Locate(path)
	require.NoError(t, err)
	assert.Equal(t, path, located)
	f, err := LoadOpenTypeFont(path, 0)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, len(goregular.TTF), len(f.Binary))
}

func TestLocateMissingFile(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
