/*
Package svgtext lays out text with a font and renders it as an SVG document.

Text is split into lines at newlines. Every line is shaped left to right,
and each glyph becomes one filled path, positioned by the advances the
shaper reports. Lines are spaced by a fixed line height, not by font
metrics.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package svgtext

import (
	"strings"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphkit.svg'.
func tracer() tracing.Trace {
	return tracing.Select("glyphkit.svg")
}

// Engine holds the layout parameters. All values are in document units.
type Engine struct {
	Scale      int32   // units per em; glyphs are drawn with y growing downwards
	LineHeight float64 // distance between baselines
	Margin     float64 // added to the bounding box on each axis
}

// DefaultEngine returns an engine drawing at 100 units per em, with a line
// height of one em and a margin of 24.
func DefaultEngine() *Engine {
	return &Engine{Scale: 100, LineHeight: 100, Margin: 24}
}

// Glyph is a positioned glyph outline.
type Glyph struct {
	GID  uint32
	Path string  // SVG path data, relative to the glyph origin
	X, Y float64 // translation of the glyph origin
	Pos  hb.GlyphPosition
}

// BoundingBox is the extent of a layout.
type BoundingBox struct {
	Width, Height float64
}

// Document is the result of a layout pass.
type Document struct {
	Glyphs []Glyph
	BBox   BoundingBox
	Margin float64
	Lines  int
}

// Width is the document width including the margin.
func (doc Document) Width() float64 { return doc.BBox.Width + doc.Margin }

// Height is the document height including the margin.
func (doc Document) Height() float64 { return doc.BBox.Height + doc.Margin }

// Layout shapes text line by line and positions its glyphs. It sets the
// scale of font.
//
// The pen starts at (0, LineHeight). Each glyph is placed at the pen,
// displaced vertically by its y advance, and the pen then moves right by the
// glyph's x advance. At the end of a line the bounding box grows to the
// pen's x and y, the pen returns to x=0 and moves down one line height.
func (e *Engine) Layout(font hb.Font, text string, features []hb.Feature) Document {
	doc := Document{
		BBox:   BoundingBox{Width: 0, Height: e.LineHeight},
		Margin: e.Margin,
	}
	paths := make(map[uint32]string)
	penX, penY := 0.0, e.LineHeight
	for _, line := range strings.Split(text, "\n") {
		font.SetScale(e.Scale, -e.Scale)
		infos, positions := font.Shape(line, features, hb.LeftToRight)
		for i, info := range infos {
			pos := positions[i]
			path, ok := paths[info.Glyph]
			if !ok {
				path = font.GlyphToPath(info.Glyph)
				paths[info.Glyph] = path
			}
			doc.Glyphs = append(doc.Glyphs, Glyph{
				GID:  info.Glyph,
				Path: path,
				X:    penX,
				Y:    penY + float64(pos.YAdvance),
				Pos:  pos,
			})
			penX += float64(pos.XAdvance)
		}
		doc.BBox.Width = max(doc.BBox.Width, penX)
		doc.BBox.Height = max(doc.BBox.Height, penY)
		penX = 0
		penY += e.LineHeight
		doc.Lines++
	}
	tracer().Debugf("layout: %d lines, %d glyphs, bbox %.2f x %.2f",
		doc.Lines, len(doc.Glyphs), doc.BBox.Width, doc.BBox.Height)
	return doc
}

// Render lays out text and returns it as an SVG document.
func (e *Engine) Render(font hb.Font, text string, features []hb.Feature) string {
	return e.Layout(font, text, features).SVG()
}

// SVG returns the document as SVG. Width, height and view box are the
// bounding box plus the margin.
func (doc Document) SVG() string {
	w, h := hb.FormatNumber(doc.Width()), hb.FormatNumber(doc.Height())
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"`)
	b.WriteString(` width="` + w + `" height="` + h + `"`)
	b.WriteString(` viewBox="0 0 ` + w + ` ` + h + `">`)
	for _, g := range doc.Glyphs {
		b.WriteString(`<path transform="translate(`)
		b.WriteString(hb.FormatNumber(g.X))
		b.WriteString(" ")
		b.WriteString(hb.FormatNumber(g.Y))
		b.WriteString(`)" d="`)
		b.WriteString(g.Path)
		b.WriteString(`"></path>`)
	}
	b.WriteString("</svg>")
	return b.String()
}
