package main

import (
	"testing"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseCodepoints(t *testing.T) {
	runes, err := parseCodepoints("U+0041, 0x42 u+1F600 43")
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 'B', 0x1F600, 'C'}, runes)
	_, err = parseCodepoints("U+110000")
	assert.Error(t, err)
	_, err = parseCodepoints("xyz")
	assert.Error(t, err)
}

func TestFormatGlyphOutput(t *testing.T) {
	infos := []hb.GlyphInfo{{Glyph: 36, Cluster: 0}, {Glyph: 57, Cluster: 1}}
	positions := []hb.GlyphPosition{{XAdvance: 1366}, {XAdvance: 1200, XOffset: -3, YOffset: 4}}
	assert.Equal(t, "[36=0+1366|57=1+1200@-3,4]", formatGlyphOutput(infos, positions))
}

func TestRenderText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	face, err := hb.NewFace(goregular.TTF, 0)
	require.NoError(t, err)
	defer face.Close()
	font, err := hb.NewFont(face)
	require.NoError(t, err)
	defer font.Close()
	one, err := renderText(face.Get(), font.Get(), "Hi", nil, 32)
	require.NoError(t, err)
	two, err := renderText(face.Get(), font.Get(), "Hi\nHi", nil, 32)
	require.NoError(t, err)
	assert.Equal(t, one.Bounds().Dx(), two.Bounds().Dx())
	assert.Equal(t, one.Bounds().Dy()+32, two.Bounds().Dy())
	_, err = renderText(face.Get(), font.Get(), " ", nil, 32)
	assert.Error(t, err, "blank text has nothing to draw")
}
