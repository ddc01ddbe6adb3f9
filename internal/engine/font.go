package engine

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/harfbuzz"
	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Direction is the direction of a run of text to shape.
type Direction int

// Text directions. DirectionAuto guesses the direction from the text's script.
const (
	DirectionAuto Direction = iota
	DirectionLTR
	DirectionRTL
	DirectionTTB
	DirectionBTT
)

func (d Direction) harfbuzz() harfbuzz.Direction {
	switch d {
	case DirectionLTR:
		return harfbuzz.LeftToRight
	case DirectionRTL:
		return harfbuzz.RightToLeft
	case DirectionTTB:
		return harfbuzz.TopToBottom
	case DirectionBTT:
		return harfbuzz.BottomToTop
	}
	return 0
}

// Feature is an OpenType feature setting for a range of clusters. End is
// exclusive.
type Feature struct {
	Tag        uint32
	Value      uint32
	Start, End int
}

// GlyphInfo is a shaped glyph: its glyph index and the cluster (rune index
// of the input text) it originates from.
type GlyphInfo struct {
	Glyph   uint32
	Cluster int
}

// GlyphPosition is the placement of a shaped glyph, in font scale units.
type GlyphPosition struct {
	XAdvance, YAdvance int32
	XOffset, YOffset   int32
}

// ShapeOptions are the segment properties of a shaping call. Empty values
// are guessed from the text.
type ShapeOptions struct {
	Direction Direction
	Language  string // BCP 47 language tag
}

// scaledFont is safe for concurrent use. Shaping calls are serialized on
// the font's HarfBuzz instance; outlines are loaded with a buffer per call.
type scaledFont struct {
	faceHandle Handle
	face       *face

	mu             sync.Mutex // guards the scale and shaper use
	xScale, yScale int32

	shaperOnce sync.Once
	shaper     *harfbuzz.Font
	shaperErr  error
}

// FontCreate creates a font for a face, scaled to the face's units per em.
// The font holds a reference to the face.
func FontCreate(faceHandle Handle) Handle {
	f := mustFace(faceHandle, "font-create")
	FaceReference(faceHandle)
	fo := &scaledFont{
		faceHandle: faceHandle,
		face:       f,
		xScale:     int32(f.upem),
		yScale:     int32(f.upem),
	}
	return register(kindFont, fo, func() {
		FaceDestroy(faceHandle)
	})
}

// FontReference increments the reference count of a font.
func FontReference(h Handle) {
	reference(h, kindFont)
}

// FontDestroy decrements the reference count of a font. A destroyed font
// releases its face.
func FontDestroy(h Handle) {
	release(h, kindFont)
}

func mustFont(h Handle, op string) *scaledFont {
	return mustLookup(h, kindFont, op).value.(*scaledFont)
}

// FontFace returns the face of a font, without adding a reference.
func FontFace(h Handle) Handle {
	return mustFont(h, "font-face").faceHandle
}

// FontSetScale sets the scale of a font. Glyph positions and outlines are
// reported in units of scale per em. A negative y scale flips the y axis.
func FontSetScale(h Handle, x, y int32) {
	fo := mustFont(h, "font-set-scale")
	fo.mu.Lock()
	defer fo.mu.Unlock()
	fo.xScale, fo.yScale = x, y
}

// FontScale returns the scale of a font.
func FontScale(h Handle) (x, y int32) {
	fo := mustFont(h, "font-scale")
	return fo.scale()
}

func (fo *scaledFont) scale() (x, y int32) {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	return fo.xScale, fo.yScale
}

// harfbuzzFont returns the HarfBuzz font of fo, created on first use.
func (fo *scaledFont) harfbuzzFont() (*harfbuzz.Font, error) {
	fo.shaperOnce.Do(func() {
		ft, err := fo.face.shapingFont()
		if err != nil {
			fo.shaperErr = err
			return
		}
		fo.shaper = harfbuzz.NewFont(font.NewFace(ft))
	})
	return fo.shaper, fo.shaperErr
}

// Shape shapes text with a font. Characters the font cannot render are
// mapped to glyph 0; shaping does not fail. Positions are in font scale.
func Shape(h Handle, text string, features []Feature, opts ShapeOptions) ([]GlyphInfo, []GlyphPosition) {
	fo := mustFont(h, "shape")
	shaper, err := fo.harfbuzzFont()
	if err != nil {
		tracer().Errorf("engine: font cannot be shaped with: %v", err)
		return nil, nil
	}
	buf := harfbuzz.NewBuffer()
	buf.AddRunes([]rune(text), 0, -1)
	buf.Props.Direction = opts.Direction.harfbuzz()
	if opts.Language != "" {
		buf.Props.Language = language.NewLanguage(opts.Language)
	}
	buf.GuessSegmentProperties()
	hbFeatures := make([]harfbuzz.Feature, len(features))
	for i, f := range features {
		hbFeatures[i] = harfbuzz.Feature{
			Tag:   ot.Tag(f.Tag),
			Value: f.Value,
			Start: f.Start,
			End:   f.End,
		}
	}
	fo.mu.Lock()
	shaper.XScale, shaper.YScale = fo.xScale, fo.yScale
	buf.Shape(shaper, hbFeatures)
	fo.mu.Unlock()
	infos := make([]GlyphInfo, len(buf.Info))
	positions := make([]GlyphPosition, len(buf.Pos))
	for i, info := range buf.Info {
		infos[i] = GlyphInfo{Glyph: uint32(info.Glyph), Cluster: info.Cluster}
	}
	for i, pos := range buf.Pos {
		positions[i] = GlyphPosition{
			XAdvance: int32(pos.XAdvance),
			YAdvance: int32(pos.YAdvance),
			XOffset:  int32(pos.XOffset),
			YOffset:  int32(pos.YOffset),
		}
	}
	return infos, positions
}

// GlyphToSVGPath writes the outline of a glyph as SVG path data into buf and
// returns the length of the complete path. If the result exceeds len(buf),
// buf holds a prefix and the caller has to retry with a larger buffer.
// Glyphs without outline yield an empty path.
func GlyphToSVGPath(h Handle, gid uint32, buf []byte) int {
	fo := mustFont(h, "glyph-to-svg-path")
	path := fo.svgPath(gid)
	copy(buf, path)
	return len(path)
}

func (fo *scaledFont) svgPath(gid uint32) string {
	if int(gid) >= fo.face.numGlyphs {
		return ""
	}
	outlines, err := fo.face.outlineFont()
	if err != nil {
		tracer().Errorf("engine: no outlines for face: %v", err)
		return ""
	}
	upem := fixed.I(int(fo.face.upem))
	var glyphBuf sfnt.Buffer
	segs, err := outlines.LoadGlyph(&glyphBuf, sfnt.GlyphIndex(gid), upem, nil)
	if err != nil {
		tracer().Debugf("engine: cannot load glyph %d: %v", gid, err)
		return ""
	}
	xScale, yScale := fo.scale()
	xs := float64(xScale) / float64(fo.face.upem)
	ys := float64(yScale) / float64(fo.face.upem)
	// segments are in 26.6 pixels at 1 pixel per unit, y pointing down
	pt := func(p fixed.Point26_6) (float64, float64) {
		return float64(p.X) / 64 * xs, -float64(p.Y) / 64 * ys
	}
	var b strings.Builder
	point := func(p fixed.Point26_6) {
		x, y := pt(p)
		b.WriteString(FormatNumber(x))
		b.WriteString(",")
		b.WriteString(FormatNumber(y))
	}
	var start, cur fixed.Point26_6
	open := false
	closePath := func() {
		if !open {
			return
		}
		if cur != start {
			b.WriteString("L")
			point(start)
		}
		b.WriteString("Z")
		open = false
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closePath()
			b.WriteString("M")
			point(seg.Args[0])
			start, cur, open = seg.Args[0], seg.Args[0], true
		case sfnt.SegmentOpLineTo:
			b.WriteString("L")
			point(seg.Args[0])
			cur = seg.Args[0]
		case sfnt.SegmentOpQuadTo:
			b.WriteString("Q")
			point(seg.Args[0])
			b.WriteString(" ")
			point(seg.Args[1])
			cur = seg.Args[1]
		case sfnt.SegmentOpCubeTo:
			b.WriteString("C")
			point(seg.Args[0])
			b.WriteString(" ")
			point(seg.Args[1])
			b.WriteString(" ")
			point(seg.Args[2])
			cur = seg.Args[2]
		}
	}
	closePath()
	return b.String()
}

// FormatNumber formats v rounded to two fractional digits, in its shortest
// decimal form.
func FormatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0" // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
