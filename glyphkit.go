/*
Package glyphkit subsets fonts and renders shaped text as SVG.

The heavy lifting happens in two packages: hb owns the reference-counted
font engine objects (faces, fonts, subset requests), and svgtext lays out
shaped text. This package bundles both for the most common use-cases,
taking font binaries in and returning bytes or strings.

We stick to the following terms:

▪︎ A "face" is a single font of a font file. Font collections (*.ttc) hold
several faces, selected by index.

▪︎ A "font" is a face at a scale, ready for shaping.

▪︎ A "subset" is a face reduced to a selection of codepoints, with glyph
indices retained.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphkit

import (
	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/glyphkit/svgtext"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphkit'
func tracer() tracing.Trace {
	return tracing.Select("glyphkit")
}

// SubsetFont reduces face number index of a font binary to the given
// codepoints. All tables are retained and layout features are kept for all
// scripts. The result is a standalone font binary.
func SubsetFont(data []byte, index int, codepoints []rune) ([]byte, error) {
	face, err := hb.NewFace(data, index)
	if err != nil {
		return nil, err
	}
	req, err := hb.NewSubsetRequest()
	if err != nil {
		face.Close()
		return nil, err
	}
	defer req.Close()
	r := req.Get()
	r.ClearDropTables()
	r.RetainAllLayout()
	r.Unicodes().Add(codepoints...)
	subset, err := r.TryExecute(face)
	if err != nil {
		return nil, err
	}
	defer subset.Close()
	out := subset.Get().Data()
	tracer().Debugf("subset %d codepoints: %d -> %d bytes", len(codepoints), len(data), len(out))
	return out, nil
}

// RenderSVG shapes text with face number index of a font binary and returns
// it as an SVG document, using svgtext.DefaultEngine. features is a list in
// hb-shape syntax, e.g. "liga,-kern"; it may be empty.
func RenderSVG(data []byte, index int, text string, features string) (string, error) {
	feats, err := hb.ParseFeatures(features)
	if err != nil {
		return "", err
	}
	face, err := hb.NewFace(data, index)
	if err != nil {
		return "", err
	}
	defer face.Close()
	font, err := hb.NewFont(face)
	if err != nil {
		return "", err
	}
	defer font.Close()
	return svgtext.DefaultEngine().Render(font.Get(), text, feats), nil
}
