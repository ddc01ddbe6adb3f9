package engine

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"golang.org/x/image/font/sfnt"
)

// face is a single font of a font file, with its tables loaded.
type face struct {
	blob      []byte
	index     int
	file      *sfntFile
	head      tables.Head
	upem      uint16
	numGlyphs int
	cmap      cmapping // nil for fonts without a usable cmap

	shaperOnce sync.Once
	shaper     *font.Font
	shaperErr  error

	outlineOnce sync.Once
	outlines    *sfnt.Font
	outlineErr  error
}

func newFace(blob []byte, index int) (*face, error) {
	file, err := readSFNT(blob, index)
	if err != nil {
		return nil, err
	}
	f := &face{blob: blob, index: index, file: file}
	if f.head, _, err = tables.ParseHead(file.table("head")); err != nil {
		return nil, critical("head", "header", "%v", err)
	}
	f.upem = f.head.UnitsPerEm
	if f.upem < 16 || f.upem > 16384 {
		return nil, critical("head", "unitsPerEm", "invalid units per em %d", f.upem)
	}
	maxp, _, err := tables.ParseMaxp(file.table("maxp"))
	if err != nil {
		return nil, critical("maxp", "header", "%v", err)
	}
	f.numGlyphs = int(maxp.NumGlyphs)
	if file.has("cmap") {
		if f.cmap, err = decodeCmap(file, f.numGlyphs); err != nil {
			tracer().Infof("engine: face without usable cmap: %v", err)
			f.cmap = nil
		}
	}
	return f, nil
}

// longLoca reports whether the face's loca table uses 32-bit offsets.
func (f *face) longLoca() bool {
	return f.head.IndexToLocFormat == 1
}

// shapingFont returns the face parsed for shaping, created on first use.
func (f *face) shapingFont() (*font.Font, error) {
	f.shaperOnce.Do(func() {
		lds, err := ot.NewLoaders(bytes.NewReader(f.blob))
		if err != nil {
			f.shaperErr = err
			return
		}
		if f.index >= len(lds) {
			f.shaperErr = fmt.Errorf("face index %d out of range", f.index)
			return
		}
		f.shaper, f.shaperErr = font.NewFont(lds[f.index])
	})
	return f.shaper, f.shaperErr
}

// outlineFont returns the face parsed for glyph outlines, created on first use.
func (f *face) outlineFont() (*sfnt.Font, error) {
	f.outlineOnce.Do(func() {
		coll, err := sfnt.ParseCollection(f.blob)
		if err != nil {
			f.outlineErr = err
			return
		}
		f.outlines, f.outlineErr = coll.Font(f.index)
	})
	return f.outlines, f.outlineErr
}

// --- Engine API ------------------------------------------------------------

// FaceCreate creates a face for font number index of blob. blob must not be
// modified while the face is alive.
func FaceCreate(blob []byte, index int) (Handle, error) {
	f, err := newFace(blob, index)
	if err != nil {
		return NilHandle, err
	}
	tracer().Debugf("engine: face with %d glyphs, upem %d, %d tables", f.numGlyphs, f.upem, len(f.file.tables))
	return register(kindFace, f, nil), nil
}

// FaceReference increments the reference count of a face.
func FaceReference(h Handle) {
	reference(h, kindFace)
}

// FaceDestroy decrements the reference count of a face.
func FaceDestroy(h Handle) {
	release(h, kindFace)
}

func mustFace(h Handle, op string) *face {
	return mustLookup(h, kindFace, op).value.(*face)
}

// FaceBlob returns the font data a face has been created from. Callers must
// not modify it.
func FaceBlob(h Handle) []byte {
	return mustFace(h, "face-blob").blob
}

// FaceIndex returns the index of a face within its font file.
func FaceIndex(h Handle) int {
	return mustFace(h, "face-index").index
}

// FaceCollectUnicodes adds every codepoint the face's cmap maps to set.
func FaceCollectUnicodes(h Handle, set Handle) {
	f := mustFace(h, "face-collect-unicodes")
	s := mustSet(set, "face-collect-unicodes")
	for r := range f.cmap {
		s.add(uint32(r))
	}
}

// FaceGlyphCount returns the number of glyphs of a face.
func FaceGlyphCount(h Handle) int {
	return mustFace(h, "face-glyph-count").numGlyphs
}

// FaceUpem returns the units per em of a face.
func FaceUpem(h Handle) int {
	return int(mustFace(h, "face-upem").upem)
}

// FaceTableTags returns the tags of the tables of a face, sorted.
func FaceTableTags(h Handle) []string {
	return mustFace(h, "face-table-tags").file.tags()
}

// FaceTable returns the raw data of a table, or nil if the face has no such
// table. Callers must not modify it.
func FaceTable(h Handle, tag string) []byte {
	return mustFace(h, "face-table").file.table(tag)
}

// FaceNominalGlyph returns the glyph a face's cmap maps r to.
func FaceNominalGlyph(h Handle, r rune) (uint16, bool) {
	gid, ok := mustFace(h, "face-nominal-glyph").cmap[r]
	return gid, ok
}
