package hb

import (
	"fmt"

	"github.com/npillmayer/glyphkit/internal/engine"
	"github.com/npillmayer/glyphkit/internal/fontload"
)

// Face is a single font of a font file, or the result of subsetting one.
type Face struct {
	h Handle
}

func wrapFace(h Handle) Face {
	return Face{h: h}
}

// AsRaw returns the face's handle.
func (f Face) AsRaw() Handle { return f.h }

// Reference adds a reference to the face.
func (f Face) Reference() { engine.FaceReference(f.h) }

// Dereference releases a reference to the face.
func (f Face) Dereference() { engine.FaceDestroy(f.h) }

// NewFace creates a face for font number index of a font binary. data must
// not be modified while the face is alive.
func NewFace(data []byte, index int) (*Owned[Face], error) {
	h, err := engine.FaceCreate(data, index)
	if err != nil {
		return nil, fmt.Errorf("hb: cannot create face: %w", err)
	}
	return FromRaw(h, wrapFace)
}

// LoadFace loads face number index from a font file. If no file exists at
// path, path is looked up as a system font name.
func LoadFace(path string, index int) (*Owned[Face], error) {
	sf, err := fontload.LoadOpenTypeFont(path, index)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("loaded font %q from %s", sf.Fontname, sf.Path)
	return NewFace(sf.Binary, index)
}

// Data returns the font binary of the face. For subset faces this is the
// complete subset font. Callers must not modify it.
func (f Face) Data() []byte {
	return engine.FaceBlob(f.h)
}

// Index returns the face index within its font binary.
func (f Face) Index() int {
	return engine.FaceIndex(f.h)
}

// Unicodes returns the codepoints the face's character map covers, in
// ascending order.
func (f Face) Unicodes() []uint32 {
	set, err := NewCodepointSet()
	if err != nil {
		panic(err)
	}
	defer set.Close()
	engine.FaceCollectUnicodes(f.h, set.AsRaw())
	return set.Values()
}

// GlyphCount returns the number of glyphs of the face.
func (f Face) GlyphCount() int {
	return engine.FaceGlyphCount(f.h)
}

// Upem returns the units per em of the face.
func (f Face) Upem() int {
	return engine.FaceUpem(f.h)
}

// TableTags returns the tags of the face's tables, sorted.
func (f Face) TableTags() []string {
	return engine.FaceTableTags(f.h)
}

// HasTable reports whether the face contains a table.
func (f Face) HasTable(tag string) bool {
	return engine.FaceTable(f.h, tag) != nil
}

// NominalGlyph returns the glyph the face's character map assigns to r.
func (f Face) NominalGlyph(r rune) (uint16, bool) {
	return engine.FaceNominalGlyph(f.h, r)
}
