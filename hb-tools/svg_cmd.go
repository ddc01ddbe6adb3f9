package main

import (
	"strings"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/glyphkit/svgtext"
	"github.com/thatisuday/commando"
)

func runSVGCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	features, err := parseFeatureList(flags["features"])
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
	// allow line breaks from the shell
	text := strings.ReplaceAll(args["text"].Value, `\n`, "\n")
	svg := svgtext.DefaultEngine().Render(font.Get(), text, features)
	outPath := optString(flags["output"], "output")
	if err := writeOutput(outPath, []byte(svg)); err != nil {
		fatalf("cannot write %s: %v", outPath, err)
	}
}
