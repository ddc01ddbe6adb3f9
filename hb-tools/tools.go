package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/thatisuday/commando"
	"golang.org/x/text/language"
)

func main() {
	commando.
		SetExecutableName("hb-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for font subsetting, shaping and SVG text rendering.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("subset").
		SetDescription("Subset a font to a set of codepoints and write the result.").
		SetShortDescription("subset a font").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("text...", "text whose codepoints to retain", "").
		AddFlag("index,i", "face index within a font collection", commando.Int, 0).
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0041,U+0042)", commando.String, "-").
		AddFlag("glyphs,g", "additional glyph indices to retain (comma/space separated)", commando.String, "-").
		AddFlag("drop,d", "additional table tags to drop (e.g. name,post)", commando.String, "-").
		AddFlag("keep-tables,k", "retain all tables instead of the default drop list", commando.Bool, nil).
		AddFlag("features,f", "layout features to retain, '*' for all", commando.String, "*").
		AddFlag("output,o", "output font file", commando.String, "subset.ttf").
		SetAction(runSubsetCommand)

	commando.
		Register("svg").
		SetDescription("Shape text and render it as an SVG document.").
		SetShortDescription("render text to SVG").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("text...", "text to render; '\\n' starts a new line", "").
		AddFlag("index,i", "face index within a font collection", commando.Int, 0).
		AddFlag("features,f", "feature list (e.g. liga,-kern,aalt=2)", commando.String, "-").
		AddFlag("output,o", "output SVG file, '-' for stdout", commando.String, "-").
		SetAction(runSVGCommand)

	commando.
		Register("shape").
		SetDescription("Shape text with a font and print the glyph stream.").
		SetShortDescription("shape text").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("text...", "text to shape", "").
		AddFlag("index,i", "face index within a font collection", commando.Int, 0).
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, he)", commando.String, "-").
		AddFlag("direction,d", "direction: auto|ltr|rtl|ttb|btt", commando.String, "auto").
		AddFlag("features,f", "feature list (e.g. liga,-kern,aalt=2)", commando.String, "-").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-").
		SetAction(runShapeCommand)

	commando.
		Register("view").
		SetDescription("Render shaped text to a PNG image.").
		SetShortDescription("shape to image").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("text...", "text to render", "").
		AddFlag("index,i", "face index within a font collection", commando.Int, 0).
		AddFlag("features,f", "feature list (e.g. liga,-kern,aalt=2)", commando.String, "-").
		AddFlag("output,o", "output PNG file", commando.String, "hb-tools-view.png").
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 96).
		SetAction(runViewCommand)

	commando.
		Register("font").
		SetDescription("Print diagnostics and table information for a font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path or system font name", "").
		AddFlag("index,i", "face index within a font collection", commando.Int, 0).
		AddFlag("codepoints,c", "list the mapped codepoints", commando.Bool, nil).
		SetAction(runFontCommand)

	commando.Parse(nil)
}

// mustLoadFace loads a face or terminates. The caller must close it.
func mustLoadFace(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) *hb.Owned[hb.Face] {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	face, err := hb.LoadFace(fontPath, mustFlagInt(flags["index"], "index"))
	if err != nil {
		fatalf("cannot load font %s: %v", fontPath, err)
	}
	if verbose(flags) {
		f := face.Get()
		fmt.Fprintf(os.Stderr, "loaded %s: %d glyphs, upem %d\n", fontPath, f.GlyphCount(), f.Upem())
	}
	return face
}

// optString returns a string flag, where "-" means "not set".
func optString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	if s = strings.TrimSpace(s); s == "-" {
		return ""
	}
	return s
}

func parseShapeInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	if cp := optString(cpFlag, "codepoints"); cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return string(runes), nil
	}
	return textArg.Value, nil
}

func parseLanguage(flag commando.FlagValue) (string, error) {
	s := optString(flag, "lang")
	if s == "" {
		return "", nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", s, err)
	}
	return tag.String(), nil
}

func parseDirection(flag commando.FlagValue) (hb.Direction, error) {
	s, err := flag.GetString()
	if err != nil {
		return hb.DirectionAuto, fmt.Errorf("invalid --direction flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return hb.DirectionAuto, nil
	case "ltr", "left-to-right":
		return hb.LeftToRight, nil
	case "rtl", "right-to-left":
		return hb.RightToLeft, nil
	case "ttb", "top-to-bottom":
		return hb.TopToBottom, nil
	case "btt", "bottom-to-top":
		return hb.BottomToTop, nil
	default:
		return hb.DirectionAuto, fmt.Errorf("unsupported direction %q (expected auto|ltr|rtl|ttb|btt)", s)
	}
}

func parseFeatureList(flag commando.FlagValue) ([]hb.Feature, error) {
	features, err := hb.ParseFeatures(optString(flag, "features"))
	if err != nil {
		return nil, fmt.Errorf("invalid --features flag: %w", err)
	}
	return features, nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	if u > hb.MaxCodepoint {
		return 0, fmt.Errorf("codepoint %q out of range", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

// verbose reports the global --verbose flag, if the command carries it.
func verbose(flags map[string]commando.FlagValue) bool {
	flag, ok := flags["verbose"]
	if !ok {
		return false
	}
	b, err := flag.GetBool()
	return err == nil && b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "hb-tools: "+format+"\n", args...)
	os.Exit(1)
}

func writeOutput(outPath string, data []byte) error {
	if outPath == "" || outPath == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
