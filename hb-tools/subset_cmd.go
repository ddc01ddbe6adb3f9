package main

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/thatisuday/commando"
)

func runSubsetCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	face := mustLoadFace(args, flags)
	input, err := parseShapeInput(args["text"], flags["codepoints"])
	if err != nil {
		face.Close()
		fatalf("%v", err)
	}
	req, err := hb.NewSubsetRequest()
	if err != nil {
		face.Close()
		fatalf("%v", err)
	}
	defer req.Close()
	r := req.Get()
	r.Unicodes().Add([]rune(input)...)
	if gids := optString(flags["glyphs"], "glyphs"); gids != "" {
		for _, g := range splitCSVSpace(gids) {
			n, err := strconv.ParseUint(g, 10, 16)
			if err != nil {
				face.Close()
				fatalf("invalid glyph index %q: %v", g, err)
			}
			r.Glyphs().Add(rune(n))
		}
	}
	if mustFlagBool(flags["keep-tables"], "keep-tables") {
		r.ClearDropTables()
	}
	if drop := optString(flags["drop"], "drop"); drop != "" {
		r.DropTable(splitCSVSpace(drop)...)
	}
	switch feats := optString(flags["features"], "features"); feats {
	case "*":
		r.RetainAllLayout()
	case "":
		r.LayoutFeatures().Clear()
	default:
		r.LayoutFeatures().Clear()
		r.KeepFeatures(splitCSVSpace(feats)...)
	}
	if verbose(flags) {
		fmt.Printf("retain %s, drop tables %v\n", r.Unicodes(), r.DropTables().Tags())
	}
	subset, err := r.TryExecute(face)
	if err != nil {
		fatalf("%v", err)
	}
	defer subset.Close()
	outPath := optString(flags["output"], "output")
	data := subset.Get().Data()
	if err := writeOutput(outPath, data); err != nil {
		fatalf("cannot write %s: %v", outPath, err)
	}
	fmt.Printf("wrote %s (%d bytes, %d codepoints)\n", outPath, len(data), len(subset.Get().Unicodes()))
}
