package glyphkit

import (
	"strings"
	"testing"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func TestSubsetFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit")
	defer teardown()
	//
	out, err := SubsetFont(goregular.TTF, 0, []rune("Hello"))
	require.NoError(t, err)
	assert.Less(t, len(out), len(goregular.TTF))
	f, err := sfnt.Parse(out)
	require.NoError(t, err, "subset must be a valid font")
	var buf sfnt.Buffer
	gid, err := f.GlyphIndex(&buf, 'e')
	require.NoError(t, err)
	assert.NotZero(t, gid)
	gid, err = f.GlyphIndex(&buf, 'x')
	require.NoError(t, err)
	assert.Zero(t, gid, "'x' is not mapped any more")
	//
	face, err := hb.NewFace(out, 0)
	require.NoError(t, err)
	defer face.Close()
	assert.Equal(t, []uint32{'H', 'e', 'l', 'o'}, face.Get().Unicodes())
}

func TestSubsetFontExactSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit")
	defer teardown()
	//
	// 14 tables; glyf keeps .notdef, space, exclam and quotedbl (284 bytes),
	// cmap is a single format 4 segment (52 bytes)
	out, err := SubsetFont(goregular.TTF, 0, []rune{32, 33, 34})
	require.NoError(t, err)
	assert.Equal(t, 21336, len(out))
}

func TestSubsetFontRejectsGarbage(t *testing.T) {
	_, err := SubsetFont([]byte("no font at all"), 0, []rune("a"))
	assert.Error(t, err)
}

func TestRenderSVG(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit")
	defer teardown()
	//
	svg, err := RenderSVG(goregular.TTF, 0, "Hi\nthere", "-kern")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 7, strings.Count(svg, "<path "))
	assert.Contains(t, svg, `height="224"`)
	//
	_, err = RenderSVG(goregular.TTF, 0, "Hi", "bad feature")
	assert.Error(t, err)
}
