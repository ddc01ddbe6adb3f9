package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/glyphkit/svgtext"
	"github.com/pterm/pterm"
)

var errNoArg = errors.New("command needs an argument")

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func fontOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	name, inx, _ := strings.Cut(op.arg, " ")
	index := 0
	if inx != "" {
		var err error
		if index, err = strconv.Atoi(strings.TrimSpace(inx)); err != nil {
			return fmt.Errorf("invalid face index %q", inx), false
		}
	}
	return intp.loadFont(name, index), false
}

func showOp(intp *Intp, op *Op) (error, bool) {
	r := intp.req.Get()
	data := [][]string{
		{"Set", "Size", "Members"},
		{"unicodes", setSize(r.Unicodes()), preview(r.Unicodes(), formatCodepoint)},
		{"glyphs", setSize(r.Glyphs()), preview(r.Glyphs(), strconv.Itoa)},
		{"drop tables", setSize(r.DropTables()), tagPreview(r.DropTables())},
		{"features", setSize(r.LayoutFeatures()), tagPreview(r.LayoutFeatures())},
		{"scripts", setSize(r.LayoutScripts()), tagPreview(r.LayoutScripts())},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func setSize(set *hb.CodepointSet) string {
	if set.IsInverted() {
		return "all but " + strconv.FormatUint(uint64(0xFFFFFFFF-uint32(set.Len())), 10)
	}
	return strconv.Itoa(set.Len())
}

const previewLength = 16

func preview(set *hb.CodepointSet, format func(int) string) string {
	var parts []string
	for v := range set.All() {
		if len(parts) == previewLength {
			parts = append(parts, "…")
			break
		}
		parts = append(parts, format(int(v)))
	}
	return strings.Join(parts, " ")
}

func tagPreview(set *hb.CodepointSet) string {
	if set.IsInverted() {
		return "*"
	}
	return strings.Join(set.Tags(), " ")
}

func formatCodepoint(cp int) string {
	return fmt.Sprintf("U+%04X", cp)
}

func addOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	intp.req.Get().Unicodes().Add([]rune(op.arg)...)
	return nil, false
}

func addCodepointsOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	set := intp.req.Get().Unicodes()
	for _, token := range strings.Fields(strings.ReplaceAll(op.arg, ",", " ")) {
		lo, hi, isRange := strings.Cut(token, "-")
		from, err := parseCodepoint(lo)
		if err != nil {
			return err, false
		}
		to := from
		if isRange {
			if to, err = parseCodepoint(hi); err != nil {
				return err, false
			}
		}
		if to < from {
			return fmt.Errorf("empty codepoint range %q", token), false
		}
		set.AddRange(from, to)
	}
	return nil, false
}

func parseCodepoint(s string) (rune, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "U+"), "u+")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil || n > hb.MaxCodepoint {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	return rune(n), nil
}

func removeOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	intp.req.Get().Unicodes().Remove([]rune(op.arg)...)
	return nil, false
}

func clearOp(intp *Intp, op *Op) (error, bool) {
	intp.req.Get().Unicodes().Clear()
	return nil, false
}

func invertOp(intp *Intp, op *Op) (error, bool) {
	intp.req.Get().Unicodes().Invert()
	return nil, false
}

func dropOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	intp.req.Get().DropTable(strings.Fields(strings.ReplaceAll(op.arg, ",", " "))...)
	return nil, false
}

func keepTablesOp(intp *Intp, op *Op) (error, bool) {
	intp.req.Get().ClearDropTables()
	return nil, false
}

func featuresOp(intp *Intp, op *Op) (error, bool) {
	r := intp.req.Get()
	r.LayoutFeatures().Clear()
	r.KeepFeatures(strings.Fields(strings.ReplaceAll(op.arg, ",", " "))...)
	return nil, false
}

func allLayoutOp(intp *Intp, op *Op) (error, bool) {
	intp.req.Get().RetainAllLayout()
	return nil, false
}

// subsetOp subsets a copy of the loaded face and writes it to a file. The
// loaded face stays available for further runs.
func subsetOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	out, err := intp.req.Get().TryExecute(intp.face.Share())
	if err != nil {
		return err, false
	}
	defer out.Close()
	data := out.Get().Data()
	if err := os.WriteFile(op.arg, data, 0o644); err != nil {
		return err, false
	}
	pterm.Info.Printf("wrote %s: %d bytes, %d codepoints\n", op.arg, len(data), len(out.Get().Unicodes()))
	return nil, false
}

// svgOp renders text as SVG. An argument "file.svg: text" writes to a file,
// everything else is printed.
func svgOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errNoArg, false
	}
	font, err := hb.NewFont(intp.face)
	if err != nil {
		return err, false
	}
	defer font.Close()
	text, outPath := op.arg, ""
	if file, rest, ok := strings.Cut(op.arg, ": "); ok && strings.HasSuffix(file, ".svg") {
		text, outPath = rest, file
	}
	text = strings.ReplaceAll(text, `\n`, "\n")
	svg := svgtext.DefaultEngine().Render(font.Get(), text, nil)
	if outPath == "" {
		pterm.Println(svg)
		return nil, false
	}
	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		return err, false
	}
	pterm.Info.Printf("wrote %s\n", outPath)
	return nil, false
}

func shapeOp(intp *Intp, op *Op) (error, bool) {
	font, err := hb.NewFont(intp.face)
	if err != nil {
		return err, false
	}
	defer font.Close()
	infos, positions := font.Get().Shape(op.arg, nil, hb.DirectionAuto)
	data := [][]string{{"Glyph", "Cluster", "Advance", "Offset"}}
	for i, info := range infos {
		pos := positions[i]
		data = append(data, []string{
			strconv.Itoa(int(info.Glyph)),
			strconv.Itoa(info.Cluster),
			fmt.Sprintf("%d,%d", pos.XAdvance, pos.YAdvance),
			fmt.Sprintf("%d,%d", pos.XOffset, pos.YOffset),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}
