package hb

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodepointSetBasics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	set, err := NewCodepointSet()
	require.NoError(t, err)
	defer set.Close()
	assert.False(t, set.Borrowed())
	set.Add('c', 'a', 'b', 'a')
	set.AddRange('x', 'z')
	assert.Equal(t, 6, set.Len())
	set.Remove('b', 'q')
	assert.Equal(t, []uint32{'a', 'c', 'x', 'y', 'z'}, set.Values())
	assert.True(t, set.Contains('x'))
	assert.False(t, set.Contains('b'))
	set.Clear()
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Values())
}

func TestCodepointSetAddRangeIsClipped(t *testing.T) {
	set, err := NewCodepointSet()
	require.NoError(t, err)
	defer set.Close()
	set.AddRange(MaxCodepoint-1, math.MaxInt32)
	assert.Equal(t, []uint32{MaxCodepoint - 1, MaxCodepoint}, set.Values())
	set.Clear()
	set.AddRange(-5, 1)
	assert.Equal(t, []uint32{0, 1}, set.Values())
	set.Clear()
	set.AddRange('z', 'a')
	assert.Equal(t, 0, set.Len())
}

func TestCodepointSetInverted(t *testing.T) {
	set, err := NewCodepointSet()
	require.NoError(t, err)
	defer set.Close()
	set.Invert()
	assert.True(t, set.IsInverted())
	assert.True(t, set.Contains(0x1F600))
	set.Remove('a')
	assert.False(t, set.Contains('a'))
	vals := set.Values()
	require.Len(t, vals, MaxCodepoint, "all codepoints but 'a'")
	assert.Equal(t, uint32(MaxCodepoint), vals[len(vals)-1])
	assert.Nil(t, set.Tags())
	//
	n := 0
	for range set.All() {
		if n++; n == 10 {
			break
		}
	}
	assert.Equal(t, 10, n, "enumeration stops early")
}

func TestCodepointSetTags(t *testing.T) {
	set, err := NewCodepointSet()
	require.NoError(t, err)
	defer set.Close()
	set.AddTags("liga", "kern", "SVG")
	assert.True(t, set.ContainsTag("SVG "))
	set.RemoveTags("kern")
	assert.Equal(t, []string{"SVG ", "liga"}, set.Tags())
}

func TestCodepointSetDoubleClose(t *testing.T) {
	set, err := NewCodepointSet()
	require.NoError(t, err)
	assert.NoError(t, set.Close())
	assert.NoError(t, set.Close())
	err = recoverErr(func() { set.Add('a') })
	assert.True(t, errors.Is(err, ErrReleased))
}

func TestBorrowedViewOutlivingRequestPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	req, err := NewSubsetRequest()
	require.NoError(t, err)
	view := req.Get().Unicodes()
	assert.True(t, view.Borrowed())
	view.Add('a')
	assert.NoError(t, view.Close(), "closing a view is a no-op")
	assert.True(t, req.Get().Unicodes().Contains('a'), "view close leaves the set intact")
	req.Close()
	err = recoverErr(func() { view.Len() })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBorrowExpired))
}
