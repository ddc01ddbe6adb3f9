package engine

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"slices"

	ot "github.com/go-text/typesetting/font/opentype"
)

// binarySegm is a segment of byte data, used for the few fixed-position
// fields the subsetter patches in place.
type binarySegm []byte

// U16 returns the uint16 at offset i, or 0 if it is out of bounds.
func (b binarySegm) U16(i int) uint16 {
	if i < 0 || i+2 > len(b) {
		return 0
	}
	return binary.BigEndian.Uint16(b[i:])
}

// U32 returns the uint32 at offset i, or 0 if it is out of bounds.
func (b binarySegm) U32(i int) uint32 {
	if i < 0 || i+4 > len(b) {
		return 0
	}
	return binary.BigEndian.Uint32(b[i:])
}

// --- SFNT table directory --------------------------------------------------

// sfntFile holds the raw tables of a single font inside a font file.
type sfntFile struct {
	version ot.Tag // one of ot.TrueType, ot.OpenType, ot.AppleTrueType
	tables  map[string]binarySegm
}

// readSFNT loads the tables of font number index from data. For files which
// are not a font collection, index has to be 0. WOFF files are accepted and
// decompressed.
func readSFNT(data []byte, index int) (*sfntFile, error) {
	lds, err := ot.NewLoaders(bytes.NewReader(data))
	if err != nil {
		return nil, critical("", "header", "%v", err)
	}
	if index < 0 || index >= len(lds) {
		return nil, critical("", "header", "face index %d out of range [0,%d)", index, len(lds))
	}
	ld := lds[index]
	switch ld.Type {
	case ot.TrueType, ot.OpenType, ot.AppleTrueType:
	default:
		return nil, critical("", "header", "unsupported sfnt version %s", ld.Type)
	}
	f := &sfntFile{version: ld.Type, tables: make(map[string]binarySegm)}
	for _, tag := range ld.Tables() {
		table, err := ld.RawTable(tag)
		if err != nil {
			return nil, critical(tag.String(), "directory", "%v", err)
		}
		f.tables[tag.String()] = table
	}
	return f, nil
}

func (f *sfntFile) table(tag string) binarySegm {
	return f.tables[tag]
}

func (f *sfntFile) has(tag string) bool {
	_, ok := f.tables[tag]
	return ok
}

// tags returns the table tags in sorted order.
func (f *sfntFile) tags() []string {
	tags := make([]string, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// --- Writing ---------------------------------------------------------------

const checkSumMagic uint32 = 0xB1B0AFBA

func checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:min(i+4, len(b))])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

const (
	sfntHeaderSize = 12
	sfntRecordSize = 16
)

// writeSFNT serializes tables as a single-font SFNT file. Tables are ordered
// by tag and padded to 4 bytes; head.checkSumAdjustment is recomputed.
// Output is a pure function of its input.
func writeSFNT(version ot.Tag, tables map[string][]byte) ([]byte, error) {
	entries := make([]ot.Table, 0, len(tables))
	for tag, data := range tables {
		if len(tag) != 4 {
			return nil, critical("", "writer", "invalid table tag %q", tag)
		}
		if tag == "head" {
			if len(data) < 12 {
				return nil, critical("head", "header", "head table too short")
			}
			data = slices.Clone(data)
			binary.BigEndian.PutUint32(data[8:], 0)
		}
		padded := make([]byte, pad4(len(data)))
		copy(padded, data)
		entries = append(entries, ot.Table{Tag: ot.MustNewTag(tag), Content: padded})
	}
	slices.SortFunc(entries, func(a, b ot.Table) int { return cmp.Compare(a.Tag, b.Tag) })
	out := ot.WriteTTF(entries)
	binary.BigEndian.PutUint32(out, uint32(version))
	// directory lengths are the unpadded ones; padding does not change checksums
	headOffset := -1
	for i, e := range entries {
		rec := out[sfntHeaderSize+sfntRecordSize*i:]
		tag := e.Tag.String()
		binary.BigEndian.PutUint32(rec[12:], uint32(len(tables[tag])))
		if tag == "head" {
			headOffset = int(binary.BigEndian.Uint32(rec[8:]))
		}
	}
	if headOffset >= 0 {
		binary.BigEndian.PutUint32(out[headOffset+8:], checkSumMagic-checksum(out))
	}
	return out, nil
}
