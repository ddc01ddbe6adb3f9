/*
Package fontload locates and loads font files.

A font is referred to either by a file path or, if no such file exists, by a
system font name, which is resolved using the platform's font directories.
*/
package fontload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'glyphkit.fontload'.
func tracer() tracing.Trace {
	return tracing.Select("glyphkit.fontload")
}

// ScalableFont is a loaded font binary, together with a decoded view of the
// selected face.
type ScalableFont struct {
	Fontname string
	Path     string // empty for fonts loaded from memory
	Index    int    // face index within a font collection
	Binary   []byte
	SFNT     *sfnt.Font
}

// Locate resolves a font reference to a file path. References which are not
// an existing file are looked up as font names (e.g. "DejaVuSans.ttf")
// in the system's font directories.
func Locate(font string) (string, error) {
	if _, err := os.Stat(font); err == nil {
		return font, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if filepath.Base(font) != font {
		return "", fmt.Errorf("font file %q: %w", font, os.ErrNotExist)
	}
	path, err := findfont.Find(font)
	if err != nil {
		return "", fmt.Errorf("font %q not found: %w", font, err)
	}
	tracer().Debugf("located font %q as %s", font, path)
	return path, nil
}

// LoadOpenTypeFont loads face number index of an OpenType font (TTF, OTF or
// a collection) from a file or system font name.
func LoadOpenTypeFont(font string, index int) (*ScalableFont, error) {
	path, err := Locate(font)
	if err != nil {
		return nil, err
	}
	bytez, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez, index)
	if err != nil {
		return nil, fmt.Errorf("font file %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// ParseOpenTypeFont loads face number index of an OpenType font from memory.
func ParseOpenTypeFont(fbytes []byte, index int) (f *ScalableFont, err error) {
	coll, err := sfnt.ParseCollection(fbytes)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("face index %d out of range, font has %d faces", index, coll.NumFonts())
	}
	f = &ScalableFont{Binary: fbytes, Index: index}
	if f.SFNT, err = coll.Font(index); err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		tracer().Debugf("font without full name: %v", err)
		f.Fontname, err = "", nil
	}
	return f, nil
}
