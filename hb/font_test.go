package hb

import (
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/glyphkit/internal/engine"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFontKeepsFaceAlive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	face := goRegular(t)
	font, err := NewFont(face)
	require.NoError(t, err)
	defer font.Close()
	upem := face.Get().Upem()
	face.Close()
	assert.Equal(t, upem, font.Get().Upem())
	x, y := font.Get().Scale()
	assert.Equal(t, int32(upem), x)
	assert.Equal(t, int32(upem), y)
}

func TestFontShapeAndPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	face := goRegular(t)
	defer face.Close()
	font, err := NewFont(face)
	require.NoError(t, err)
	defer font.Close()
	f := font.Get()
	f.SetScale(100, -100)
	infos, positions := f.Shape("Hié", nil, LeftToRight)
	require.Len(t, infos, 3)
	require.Len(t, positions, 3)
	gid, _ := face.Get().NominalGlyph('H')
	assert.Equal(t, uint32(gid), infos[0].Glyph)
	path := f.GlyphToPath(infos[0].Glyph)
	assert.True(t, strings.HasPrefix(path, "M"))
	assert.True(t, strings.HasSuffix(path, "Z"))
	assert.Greater(t, len(path), initialPathBuffer/4)
	//
	// a complex glyph at a large scale needs more than the initial buffer
	f.SetScale(100000, -100000)
	at, _ := face.Get().NominalGlyph('@')
	long := f.GlyphToPath(uint32(at))
	assert.Greater(t, len(long), initialPathBuffer)
	full := make([]byte, 1<<16)
	n := engine.GlyphToSVGPath(font.AsRaw(), uint32(at), full)
	assert.Equal(t, string(full[:n]), long, "retried path is complete")
}

func TestSharedFontConcurrentUse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	face := goRegular(t)
	defer face.Close()
	font, err := NewFont(face)
	require.NoError(t, err)
	defer font.Close()
	font.Get().SetScale(100, -100)
	wantInfos, wantPos := font.Get().Shape("Hello", nil, LeftToRight)
	wantPath := font.Get().GlyphToPath(wantInfos[0].Glyph)
	//
	var wg sync.WaitGroup
	results := make([]bool, 4)
	for i := range results {
		owner := font.Share()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer owner.Close()
			ok := true
			for range 20 {
				infos, pos := owner.Get().Shape("Hello", nil, LeftToRight)
				path := owner.Get().GlyphToPath(infos[0].Glyph)
				ok = ok && assert.ObjectsAreEqual(wantInfos, infos) &&
					assert.ObjectsAreEqual(wantPos, pos) && path == wantPath
			}
			results[i] = ok
		}()
	}
	wg.Wait()
	for i, ok := range results {
		assert.True(t, ok, "goroutine %d saw diverging results", i)
	}
	assert.Equal(t, 1, engine.RefCount(font.AsRaw()))
}

func TestFontShapeWithFeatures(t *testing.T) {
	face := goRegular(t)
	defer face.Close()
	font, err := NewFont(face)
	require.NoError(t, err)
	defer font.Close()
	plain, _ := font.Get().Shape("AV", nil, LeftToRight)
	off, _ := font.Get().Shape("AV", []Feature{GlobalFeature("kern", 0)}, LeftToRight)
	assert.Equal(t, plain, off, "switching features does not change glyph selection for AV")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(-0.004))
	assert.Equal(t, "-0.01", FormatNumber(-0.006))
	assert.Equal(t, "1234.57", FormatNumber(1234.5678))
	assert.Equal(t, "100", FormatNumber(100))
}
