package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/thatisuday/commando"
)

func runShapeCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	lang, err := parseLanguage(flags["lang"])
	if err != nil {
		fatalf("%v", err)
	}
	dir, err := parseDirection(flags["direction"])
	if err != nil {
		fatalf("%v", err)
	}
	features, err := parseFeatureList(flags["features"])
	if err != nil {
		fatalf("%v", err)
	}
	input, err := parseShapeInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	face := mustLoadFace(args, flags)
	defer face.Close()
	font, err := hb.NewFont(face)
	if err != nil {
		fatalf("%v", err)
	}
	defer font.Close()
	infos, positions := font.Get().ShapeWithOptions(input, features, hb.ShapeOptions{
		Direction: dir,
		Language:  lang,
	})
	fmt.Println(formatGlyphOutput(infos, positions))
}

// formatGlyphOutput prints glyphs in the notation of hb-shape:
// gid=cluster+advance, followed by a y advance and offsets if non-zero.
func formatGlyphOutput(infos []hb.GlyphInfo, positions []hb.GlyphPosition) string {
	var b strings.Builder
	for i, info := range infos {
		if b.Len() > 0 {
			b.WriteString("|")
		}
		pos := positions[i]
		part := fmt.Sprintf("%d=%d+%d", info.Glyph, info.Cluster, pos.XAdvance)
		if pos.YAdvance != 0 {
			part = fmt.Sprintf("%s,%d", part, pos.YAdvance)
		}
		if pos.XOffset != 0 || pos.YOffset != 0 {
			part = fmt.Sprintf("%s@%d,%d", part, pos.XOffset, pos.YOffset)
		}
		b.WriteString(part)
	}
	return "[" + b.String() + "]"
}
