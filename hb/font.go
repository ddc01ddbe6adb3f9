package hb

import (
	"github.com/npillmayer/glyphkit/internal/engine"
)

// Direction is the direction of a run of text.
type Direction = engine.Direction

// Text directions.
const (
	DirectionAuto = engine.DirectionAuto
	LeftToRight   = engine.DirectionLTR
	RightToLeft   = engine.DirectionRTL
	TopToBottom   = engine.DirectionTTB
	BottomToTop   = engine.DirectionBTT
)

// GlyphInfo is a shaped glyph and the cluster it belongs to.
type GlyphInfo = engine.GlyphInfo

// ShapeOptions are the segment properties of a shaping call: direction and
// BCP 47 language. Empty values are guessed from the text.
type ShapeOptions = engine.ShapeOptions

// GlyphPosition is the advance and offset of a shaped glyph, in font scale.
type GlyphPosition = engine.GlyphPosition

// Font is a face at a scale, ready for shaping and outline extraction.
type Font struct {
	h Handle
}

func wrapFont(h Handle) Font {
	return Font{h: h}
}

// NewFont creates a font for a face. The font keeps its own reference to
// the face; face may be closed independently.
func NewFont(face *Owned[Face]) (*Owned[Font], error) {
	return FromRaw(engine.FontCreate(face.AsRaw()), wrapFont)
}

// AsRaw returns the font's handle.
func (f Font) AsRaw() Handle { return f.h }

// Reference adds a reference to the font.
func (f Font) Reference() { engine.FontReference(f.h) }

// Dereference releases a reference to the font.
func (f Font) Dereference() { engine.FontDestroy(f.h) }

// SetScale sets the number of units per em for positions and outlines. A
// negative y scale yields coordinates with y growing downwards.
func (f Font) SetScale(x, y int32) {
	engine.FontSetScale(f.h, x, y)
}

// Scale returns the font's scale.
func (f Font) Scale() (x, y int32) {
	return engine.FontScale(f.h)
}

// Upem returns the units per em of the font's face.
func (f Font) Upem() int {
	return engine.FaceUpem(engine.FontFace(f.h))
}

// Shape shapes a single run of text. Features apply to cluster ranges of
// the text's runes.
func (f Font) Shape(text string, features []Feature, dir Direction) ([]GlyphInfo, []GlyphPosition) {
	return f.ShapeWithOptions(text, features, ShapeOptions{Direction: dir})
}

// ShapeWithOptions is Shape with explicit segment properties.
func (f Font) ShapeWithOptions(text string, features []Feature, opts ShapeOptions) ([]GlyphInfo, []GlyphPosition) {
	ef := make([]engine.Feature, len(features))
	for i, feat := range features {
		ef[i] = feat.engine()
	}
	return engine.Shape(f.h, text, ef, opts)
}

// FormatNumber formats a coordinate the way glyph paths do: rounded to two
// fractional digits, in shortest form, never as "-0".
func FormatNumber(v float64) string {
	return engine.FormatNumber(v)
}

const initialPathBuffer = 256

// GlyphToPath returns the outline of a glyph as SVG path data, in font
// scale. Glyphs without outline yield an empty string.
func (f Font) GlyphToPath(gid uint32) string {
	buf := make([]byte, initialPathBuffer)
	for {
		n := engine.GlyphToSVGPath(f.h, gid, buf)
		if n <= len(buf) {
			return string(buf[:n])
		}
		size := 2 * len(buf)
		for size < n {
			size *= 2
		}
		tracer().Debugf("path of glyph %d needs %d bytes, retrying with %d", gid, n, size)
		buf = make([]byte, size)
	}
}
