package hb

import (
	"fmt"

	"github.com/npillmayer/glyphkit/internal/engine"
)

// SubsetRequest configures a subsetting run: the codepoints to retain, the
// tables to drop and the layout features and scripts to keep.
//
// A fresh request retains no codepoints, drops a set of tables which would
// be invalidated by subsetting and keeps a default set of layout features
// for all scripts.
type SubsetRequest struct {
	h Handle
}

func wrapSubsetRequest(h Handle) SubsetRequest {
	return SubsetRequest{h: h}
}

// NewSubsetRequest creates a request with the default configuration.
func NewSubsetRequest() (*Owned[SubsetRequest], error) {
	return FromRaw(engine.SubsetInputCreateOrFail(), wrapSubsetRequest)
}

// AsRaw returns the request's handle.
func (r SubsetRequest) AsRaw() Handle { return r.h }

// Reference adds a reference to the request.
func (r SubsetRequest) Reference() { engine.SubsetInputReference(r.h) }

// Dereference releases a reference to the request.
func (r SubsetRequest) Dereference() { engine.SubsetInputDestroy(r.h) }

func (r SubsetRequest) view(which engine.SubsetSet) *CodepointSet {
	return borrowSet(engine.SubsetInputSet(r.h, which), r.h)
}

// Unicodes returns a view of the codepoints to retain.
func (r SubsetRequest) Unicodes() *CodepointSet {
	return borrowSet(engine.SubsetInputUnicodeSet(r.h), r.h)
}

// Glyphs returns a view of the glyph indices to retain in addition to those
// reached from the retained codepoints.
func (r SubsetRequest) Glyphs() *CodepointSet {
	return r.view(engine.SubsetGlyphIndex)
}

// DropTables returns a view of the tags of tables to omit.
func (r SubsetRequest) DropTables() *CodepointSet {
	return r.view(engine.SubsetDropTableTag)
}

// LayoutFeatures returns a view of the layout feature tags to retain.
func (r SubsetRequest) LayoutFeatures() *CodepointSet {
	return r.view(engine.SubsetLayoutFeatureTag)
}

// LayoutScripts returns a view of the layout script tags to retain.
func (r SubsetRequest) LayoutScripts() *CodepointSet {
	return r.view(engine.SubsetLayoutScriptTag)
}

// ClearDropTables configures the request to retain all tables.
func (r SubsetRequest) ClearDropTables() {
	r.DropTables().Clear()
}

// DropTable adds tables to omit.
func (r SubsetRequest) DropTable(tags ...string) {
	r.DropTables().AddTags(tags...)
}

// RetainAllLayout configures the request to keep every layout feature for
// every script.
func (r SubsetRequest) RetainAllLayout() {
	for _, set := range []*CodepointSet{r.LayoutFeatures(), r.LayoutScripts()} {
		set.Clear()
		set.Invert()
	}
}

// KeepFeatures adds layout features to retain.
func (r SubsetRequest) KeepFeatures(tags ...string) {
	r.LayoutFeatures().AddTags(tags...)
}

// TryExecute subsets face with the request's current configuration. The
// face is consumed: its reference is released whether subsetting succeeds
// or not. Failures wrap ErrSubsetFailed.
func (r SubsetRequest) TryExecute(face *Owned[Face]) (*Owned[Face], error) {
	in := face.take()
	defer in.Dereference()
	h := engine.SubsetOrFail(in.AsRaw(), r.h)
	if h == engine.NilHandle {
		if cause := engine.SubsetInputError(r.h); cause != nil {
			return nil, fmt.Errorf("%w: %w", ErrSubsetFailed, cause)
		}
		return nil, ErrSubsetFailed
	}
	tracer().Debugf("subset face #%d -> #%d", in.AsRaw(), h)
	return FromRaw(h, wrapFace)
}

// Execute is TryExecute for callers which have validated their input: it
// panics if subsetting fails. The face is consumed in either case.
func (r SubsetRequest) Execute(face *Owned[Face]) *Owned[Face] {
	out, err := r.TryExecute(face)
	if err != nil {
		panic(err)
	}
	return out
}
