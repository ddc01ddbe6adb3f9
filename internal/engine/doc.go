/*
Package engine is the in-process font engine behind package hb.

It hands out opaque, reference-counted objects addressed by a Handle, in the
manner of a C font library: faces, codepoint sets, subset inputs and scaled
fonts. Every object starts with a reference count of one; the matching
destroy call releases it once the count drops to zero. Handles are never
reused, so a dead handle can always be told apart from a live one.

The engine API is deliberately flat. It neither knows nor cares about Go
ownership; package hb layers safe ownership on top of it. Calling a
reference or destroy function on a dead handle is a programming error and
panics.

Shaping is delegated to go-text's HarfBuzz port, glyph outlines to
golang.org/x/image/font/sfnt. Subsetting rewrites the font binary table by
table and retains glyph IDs, so every glyph-indexed table stays valid.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package engine

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphkit.engine'.
func tracer() tracing.Trace {
	return tracing.Select("glyphkit.engine")
}
