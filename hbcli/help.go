package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "subset", "subsetting":
		pterm.Info.Println("Subsetting")
		pterm.Println(`
	A subset retains the glyphs of the selected codepoints, plus glyph 0,
	plus glyphs reachable from them through composite glyphs and through
	the substitutions of the retained layout features.
	Glyph indices do not change; glyphs not retained are emptied.

	    add <text>          retain the codepoints of text
	    addcp U+41-U+5A     retain codepoints or ranges
	    drop name,post      omit tables
	    keep-tables         omit no table at all
	    subset out.ttf      write the subset
	`)
	case "set", "sets":
		pterm.Info.Println("Sets")
		pterm.Println(`
	A subset request holds five sets:
	+-------------+--------------------------------------+
	| unicodes    | codepoints to retain                 |
	| glyphs      | glyph indices to retain additionally |
	| drop tables | table tags to omit                   |
	| features    | layout feature tags to retain        |
	| scripts     | layout script tags to retain         |
	+-------------+--------------------------------------+
	An inverted set contains everything but its listed members.
	'all-layout' inverts the empty feature and script sets.
	`)
	default:
		pterm.Info.Println("Commands (separate several by ';')")
		pterm.Println(`
	font <file> [index]   load a font
	add <text>            retain codepoints        remove <text>
	addcp <codepoints>    retain codepoints        clear / invert
	drop <tags>           omit tables              keep-tables
	features <tags>       retain features          all-layout
	show                  print the request
	subset <file>         write a subset
	svg [file.svg: ]<text> render text as SVG
	shape <text>          print shaped glyphs
	help [subset|sets]    quit
	`)
	}
}
