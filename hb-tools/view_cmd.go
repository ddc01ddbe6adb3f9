package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/glyphkit/internal/fontload"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	features, err := parseFeatureList(flags["features"])
	if err != nil {
		fatalf("%v", err)
	}
	text := strings.ReplaceAll(args["text"].Value, `\n`, "\n")
	if text == "" {
		fatalf("input text is empty")
	}
	outPath := optString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	ppem := mustFlagInt(flags["ppem"], "ppem")
	if ppem <= 0 {
		fatalf("--ppem must be > 0")
	}
	face := mustLoadFace(args, flags)
	defer face.Close()
	font, err := hb.NewFont(face)
	if err != nil {
		fatalf("%v", err)
	}
	defer font.Close()
	img, err := renderText(face.Get(), font.Get(), text, features, ppem)
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if err := writePNG(outPath, img); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("wrote %s (%dx%d)\n", outPath, img.Bounds().Dx(), img.Bounds().Dy())
}

type placedGlyph struct {
	segs   sfnt.Segments
	dx, dy float32
}

// renderText lays out text in lines one em apart and rasterizes it. Glyph
// positions are computed at 64 units per pixel.
func renderText(face hb.Face, font hb.Font, text string, features []hb.Feature, ppem int) (*image.RGBA, error) {
	sf, err := fontload.ParseOpenTypeFont(face.Data(), face.Index())
	if err != nil {
		return nil, fmt.Errorf("cannot parse font for rasterization: %w", err)
	}
	font.SetScale(int32(ppem*64), int32(ppem*64))
	var (
		glyphs []placedGlyph
		buf    sfnt.Buffer
		width  float32
		penY   = float32(ppem)
	)
	for _, line := range strings.Split(text, "\n") {
		infos, positions := font.Shape(line, features, hb.LeftToRight)
		penX := float32(0)
		for i, info := range infos {
			pos := positions[i]
			segs, err := sf.SFNT.LoadGlyph(&buf, sfnt.GlyphIndex(info.Glyph), fixed.I(ppem), nil)
			if err == nil && len(segs) > 0 {
				// segments are only valid until the buffer is re-used
				glyphs = append(glyphs, placedGlyph{
					segs: append(sfnt.Segments(nil), segs...),
					dx:   penX + float32(pos.XOffset)/64,
					dy:   penY - float32(pos.YOffset)/64,
				})
			}
			penX += float32(pos.XAdvance) / 64
		}
		width = max(width, penX)
		penY += float32(ppem)
	}
	if len(glyphs) == 0 {
		return nil, errors.New("no drawable glyph paths found")
	}
	margin := float32(ppem) / 4
	w := int(width+2*margin) + 1
	h := int(penY-float32(ppem)/2+margin) + 1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(w, h)
	rast.DrawOp = draw.Over
	for _, g := range glyphs {
		tx, ty := margin+g.dx, g.dy
		pt := func(p fixed.Point26_6) (float32, float32) {
			return tx + float32(p.X)/64, ty + float32(p.Y)/64
		}
		for _, seg := range g.segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				rast.MoveTo(pt(seg.Args[0]))
			case sfnt.SegmentOpLineTo:
				rast.LineTo(pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				x1, y1 := pt(seg.Args[0])
				x2, y2 := pt(seg.Args[1])
				rast.QuadTo(x1, y1, x2, y2)
			case sfnt.SegmentOpCubeTo:
				x1, y1 := pt(seg.Args[0])
				x2, y2 := pt(seg.Args[1])
				x3, y3 := pt(seg.Args[2])
				rast.CubeTo(x1, y1, x2, y2, x3, y3)
			}
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	return img, nil
}

func writePNG(outPath string, img image.Image) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
