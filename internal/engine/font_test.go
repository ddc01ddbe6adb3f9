package engine

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFontHoldsFaceReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	before := Stats()
	face := goRegular(t)
	font := FontCreate(face)
	assert.Equal(t, 2, RefCount(face))
	FaceDestroy(face)
	assert.True(t, Alive(face), "font keeps its face alive")
	FontDestroy(font)
	assert.False(t, Alive(face))
	after := Stats()
	assert.Equal(t, before.Live, after.Live)
	assert.Equal(t, before.Outstanding, after.Outstanding)
}

func TestFontScale(t *testing.T) {
	face := goRegular(t)
	defer FaceDestroy(face)
	font := FontCreate(face)
	defer FontDestroy(font)
	x, y := FontScale(font)
	assert.Equal(t, int32(FaceUpem(face)), x, "default scale is upem")
	assert.Equal(t, x, y)
	FontSetScale(font, 100, -100)
	x, y = FontScale(font)
	assert.Equal(t, int32(100), x)
	assert.Equal(t, int32(-100), y)
}

func TestShapeLatin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	face := goRegular(t)
	defer FaceDestroy(face)
	font := FontCreate(face)
	defer FontDestroy(font)
	infos, positions := Shape(font, "Hello", nil, ShapeOptions{Direction: DirectionLTR})
	require.Len(t, infos, 5)
	require.Len(t, positions, 5)
	gidH, _ := FaceNominalGlyph(face, 'H')
	assert.Equal(t, uint32(gidH), infos[0].Glyph)
	for i, pos := range positions {
		assert.Greater(t, pos.XAdvance, int32(0), "glyph %d should advance", i)
		assert.Equal(t, i, infos[i].Cluster)
	}
	// the advances follow the font scale
	FontSetScale(font, 2*int32(FaceUpem(face)), 2*int32(FaceUpem(face)))
	_, scaled := Shape(font, "Hello", nil, ShapeOptions{Direction: DirectionLTR})
	assert.InDelta(t, 2*positions[0].XAdvance, scaled[0].XAdvance, 2)
}

func TestShapeUnknownCharacterFallsBackToNotdef(t *testing.T) {
	face := goRegular(t)
	defer FaceDestroy(face)
	font := FontCreate(face)
	defer FontDestroy(font)
	infos, _ := Shape(font, "\U0001F600", nil, ShapeOptions{})
	require.Len(t, infos, 1)
	assert.Equal(t, uint32(0), infos[0].Glyph)
}

func TestGlyphPathMatchesOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	face := goRegular(t)
	defer FaceDestroy(face)
	font := FontCreate(face)
	defer FontDestroy(font)
	gid, ok := FaceNominalGlyph(face, 'h')
	require.True(t, ok)
	FontSetScale(font, 100, -100)
	buf := make([]byte, 4096)
	n := GlyphToSVGPath(font, uint32(gid), buf)
	require.Less(t, n, len(buf))
	path := string(buf[:n])
	t.Logf("path of 'h' = %s", path)
	assert.Equal(t, "M7.52,0L7.52,-77.1L17.14,-77.1L17.14,-43.07"+
		"Q24.8,-54.2 35.06,-54.2Q48.68,-54.2 48.68,-38.09L48.68,0L39.01,0L39.01,-34.96"+
		"Q39.01,-41.36 37.65,-43.65Q36.33,-45.95 32.62,-45.95Q24.46,-45.95 17.14,-34.33"+
		"L17.14,0L7.52,0Z", path)
}

func TestGlyphPathReportsRequiredLength(t *testing.T) {
	face := goRegular(t)
	defer FaceDestroy(face)
	font := FontCreate(face)
	defer FontDestroy(font)
	gid, _ := FaceNominalGlyph(face, 'W')
	full := make([]byte, 8192)
	n := GlyphToSVGPath(font, uint32(gid), full)
	require.Greater(t, n, 10)
	short := make([]byte, 10)
	assert.Equal(t, n, GlyphToSVGPath(font, uint32(gid), short), "required length does not depend on the buffer")
	assert.Equal(t, full[:10], short)
	assert.Equal(t, 0, GlyphToSVGPath(font, uint32(FaceGlyphCount(face)), full), "no path for invalid glyphs")
	space, _ := FaceNominalGlyph(face, ' ')
	assert.Equal(t, 0, GlyphToSVGPath(font, uint32(space), full), "space has no outline")
}

func TestGlyphPathFollowsScale(t *testing.T) {
	face := goRegular(t)
	defer FaceDestroy(face)
	font := FontCreate(face)
	defer FontDestroy(font)
	gid, _ := FaceNominalGlyph(face, 'l')
	FontSetScale(font, 100, -100)
	buf := make([]byte, 4096)
	path := string(buf[:GlyphToSVGPath(font, uint32(gid), buf)])
	require.NotEmpty(t, path)
	// y is flipped: glyph 'l' rises above the baseline, so y values turn negative
	assert.Contains(t, path, ",-")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(-0.001))
	assert.Equal(t, "12", FormatNumber(12))
	assert.Equal(t, "149.5", FormatNumber(149.5))
	assert.Equal(t, "-3.14", FormatNumber(-3.14159))
	assert.Equal(t, "0.1", FormatNumber(0.1))
}
