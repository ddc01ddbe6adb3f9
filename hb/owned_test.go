package hb

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphkit/internal/engine"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func goRegular(t *testing.T) *Owned[Face] {
	t.Helper()
	face, err := NewFace(goregular.TTF, 0)
	require.NoError(t, err)
	return face
}

// recoverErr runs f and returns the error it panics with, if any.
func recoverErr(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func TestOwnedReleasesExactlyOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	before := engine.Stats()
	face := goRegular(t)
	h := face.AsRaw()
	assert.True(t, face.Alive())
	assert.NoError(t, face.Close())
	assert.NoError(t, face.Close(), "closing twice is harmless")
	assert.False(t, face.Alive())
	assert.False(t, engine.Alive(h))
	after := engine.Stats()
	assert.Equal(t, before.Created+1, after.Created)
	assert.Equal(t, before.Destroyed+1, after.Destroyed)
	assert.Equal(t, before.Outstanding, after.Outstanding)
}

func TestOwnedShare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.hb")
	defer teardown()
	//
	before := engine.Stats()
	face := goRegular(t)
	shared := face.Share()
	assert.Equal(t, face.AsRaw(), shared.AsRaw())
	assert.Equal(t, 2, engine.RefCount(face.AsRaw()))
	upem := face.Get().Upem()
	face.Close()
	assert.True(t, shared.Alive())
	assert.Equal(t, upem, shared.Get().Upem(), "shared owner still usable")
	shared.Close()
	after := engine.Stats()
	assert.Equal(t, before.Live, after.Live)
	assert.Equal(t, before.Outstanding, after.Outstanding)
}

func TestOwnedUseAfterClosePanics(t *testing.T) {
	face := goRegular(t)
	face.Close()
	err := recoverErr(func() { face.Get() })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReleased))
	assert.Equal(t, "released", face.String())
}

func TestFromRawRejectsNilHandle(t *testing.T) {
	o, err := FromRaw(engine.NilHandle, wrapFace)
	assert.Nil(t, o)
	assert.ErrorIs(t, err, ErrAllocation)
	var nothing *Owned[Face]
	assert.False(t, nothing.Alive())
	assert.NoError(t, nothing.Close())
}
