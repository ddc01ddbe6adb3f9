package engine

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLifecycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	before := Stats()
	destroyed := 0
	h := register(kindSet, newU32Set(), func() { destroyed++ })
	require.NotEqual(t, NilHandle, h)
	assert.True(t, Alive(h))
	assert.Equal(t, 1, RefCount(h))
	reference(h, kindSet)
	assert.Equal(t, 2, RefCount(h))
	release(h, kindSet)
	assert.True(t, Alive(h), "one reference left")
	assert.Equal(t, 0, destroyed)
	release(h, kindSet)
	assert.False(t, Alive(h))
	assert.Equal(t, 1, destroyed, "destroy callback must run exactly once")
	after := Stats()
	assert.Equal(t, before.Live, after.Live)
	assert.Equal(t, before.Outstanding, after.Outstanding)
	assert.Equal(t, before.Destroyed+1, after.Destroyed)
}

func TestHandlesAreNotReused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	h1 := SetCreate()
	SetDestroy(h1)
	h2 := SetCreate()
	defer SetDestroy(h2)
	assert.NotEqual(t, h1, h2)
	assert.False(t, Alive(h1))
	assert.True(t, Alive(h2))
}

func TestDeadHandlePanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	h := SetCreate()
	SetDestroy(h)
	assert.Panics(t, func() { SetReference(h) })
	assert.Panics(t, func() { SetDestroy(h) })
	assert.Panics(t, func() { SetAdd(h, 1) })
}

func TestKindMismatchPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphkit.engine")
	defer teardown()
	//
	h := SetCreate()
	defer SetDestroy(h)
	assert.Panics(t, func() { FaceReference(h) })
	assert.Panics(t, func() { FontDestroy(h) })
}

func TestNilHandleIsIgnored(t *testing.T) {
	before := Stats()
	FaceReference(NilHandle)
	FaceDestroy(NilHandle)
	assert.Equal(t, before, Stats())
	assert.False(t, Alive(NilHandle))
}
