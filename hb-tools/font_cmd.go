package main

import (
	"fmt"
	"strings"

	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	face := mustLoadFace(args, flags)
	defer face.Close()
	f := face.Get()

	fmt.Printf("Path: %s\n", strings.TrimSpace(args["font"].Value))
	fmt.Printf("Index: %d\n", f.Index())
	fmt.Printf("Size: %d bytes\n", len(f.Data()))
	fmt.Printf("Glyphs: %d\n", f.GlyphCount())
	fmt.Printf("Units per em: %d\n", f.Upem())
	tags := f.TableTags()
	fmt.Printf("Tables (%d): %s\n", len(tags), strings.Join(tags, " "))
	var layout []string
	for _, tag := range []string{"GDEF", "GSUB", "GPOS"} {
		if f.HasTable(tag) {
			layout = append(layout, tag)
		}
	}
	fmt.Printf("Layout: %s\n", strings.Join(layout, ","))
	unicodes := f.Unicodes()
	fmt.Printf("Codepoints: %d\n", len(unicodes))
	if mustFlagBool(flags["codepoints"], "codepoints") {
		for i, cp := range unicodes {
			if i > 0 && i%8 == 0 {
				fmt.Println()
			}
			fmt.Printf("U+%04X %q  ", cp, rune(cp))
		}
		fmt.Println()
	}
}
