package engine

import (
	"encoding/binary"
	"slices"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype/tables"
)

// maxUnicode is the largest Unicode codepoint.
const maxUnicode = 0x10FFFF

// cmapping maps Unicode codepoints to glyph indices. Codepoints mapped to
// glyph 0 are not represented.
type cmapping map[rune]uint16

// codepoints returns the mapped codepoints in ascending order.
func (cm cmapping) codepoints() []rune {
	rs := make([]rune, 0, len(cm))
	for r := range cm {
		rs = append(rs, r)
	}
	slices.Sort(rs)
	return rs
}

// decodeCmap collects the Unicode mappings of a face's cmap table, from the
// subtable HarfBuzz would select for shaping.
func decodeCmap(file *sfntFile, numGlyphs int) (cmapping, error) {
	table, _, err := tables.ParseCmap(file.table("cmap"))
	if err != nil {
		return nil, critical("cmap", "header", "%v", err)
	}
	page := tables.FPNone
	if file.has("OS/2") {
		if os2, _, err := tables.ParseOs2(file.table("OS/2")); err == nil {
			page = os2.FontPage()
		}
	}
	cm, _, err := font.ProcessCmap(table, page)
	if err != nil {
		return nil, critical("cmap", "subtable", "%v", err)
	}
	mapping := make(cmapping)
	for it := cm.Iter(); it.Next(); {
		r, gid := it.Char()
		if gid > 0 && int(gid) < numGlyphs && r <= maxUnicode {
			mapping[r] = uint16(gid)
		}
	}
	return mapping, nil
}

// --- Writing ---------------------------------------------------------------

type cmapSegment struct {
	start, end uint16
	delta      uint16   // used if glyphs is empty
	glyphs     []uint16 // explicit glyph ids
}

// writeCmapFormat4 encodes the BMP part of rs. It returns nil if the subtable
// would exceed the 16-bit length limit of format 4.
func writeCmapFormat4(rs []rune, cm cmapping) []byte {
	var segs []cmapSegment
	for i := 0; i < len(rs) && rs[i] < 0xFFFF; {
		j := i + 1
		for j < len(rs) && rs[j] < 0xFFFF && rs[j] == rs[j-1]+1 {
			j++
		}
		seg := cmapSegment{start: uint16(rs[i]), end: uint16(rs[j-1])}
		seg.delta = cm[rs[i]] - uint16(rs[i])
		for k := i + 1; k < j; k++ {
			if cm[rs[k]]-uint16(rs[k]) != seg.delta {
				seg.delta = 0
				seg.glyphs = make([]uint16, 0, j-i)
				for _, r := range rs[i:j] {
					seg.glyphs = append(seg.glyphs, cm[r])
				}
				break
			}
		}
		segs = append(segs, seg)
		i = j
	}
	segs = append(segs, cmapSegment{start: 0xFFFF, end: 0xFFFF, delta: 1}) // maps to .notdef
	segCount := len(segs)
	size := 16 + 8*segCount
	for _, seg := range segs {
		size += 2 * len(seg.glyphs)
	}
	if size > 0xFFFF {
		return nil
	}
	entrySelector := 0
	for 1<<(entrySelector+1) <= segCount {
		entrySelector++
	}
	searchRange := 2 * (1 << entrySelector)
	out := make([]byte, size)
	be := binary.BigEndian
	be.PutUint16(out[0:], 4)
	be.PutUint16(out[2:], uint16(size))
	be.PutUint16(out[6:], uint16(2*segCount))
	be.PutUint16(out[8:], uint16(searchRange))
	be.PutUint16(out[10:], uint16(entrySelector))
	be.PutUint16(out[12:], uint16(2*segCount-searchRange))
	ends := out[14:]
	starts := out[16+2*segCount:]
	deltas := out[16+4*segCount:]
	rangeOffsets := out[16+6*segCount:]
	glyphArray := 16 + 8*segCount
	for i, seg := range segs {
		be.PutUint16(ends[2*i:], seg.end)
		be.PutUint16(starts[2*i:], seg.start)
		be.PutUint16(deltas[2*i:], seg.delta)
		if len(seg.glyphs) == 0 {
			continue
		}
		at := 16 + 6*segCount + 2*i
		be.PutUint16(rangeOffsets[2*i:], uint16(glyphArray-at))
		for _, gid := range seg.glyphs {
			be.PutUint16(out[glyphArray:], gid)
			glyphArray += 2
		}
	}
	return out
}

// writeCmapFormat12 encodes rs as sequential map groups.
func writeCmapFormat12(rs []rune, cm cmapping) []byte {
	type group struct{ start, end, gid uint32 }
	var groups []group
	for _, r := range rs {
		gid := uint32(cm[r])
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if uint32(r) == last.end+1 && gid == last.gid+uint32(r)-last.start {
				last.end = uint32(r)
				continue
			}
		}
		groups = append(groups, group{uint32(r), uint32(r), gid})
	}
	out := make([]byte, 16+12*len(groups))
	be := binary.BigEndian
	be.PutUint16(out[0:], 12)
	be.PutUint32(out[4:], uint32(len(out)))
	be.PutUint32(out[12:], uint32(len(groups)))
	for i, g := range groups {
		be.PutUint32(out[16+12*i:], g.start)
		be.PutUint32(out[20+12*i:], g.end)
		be.PutUint32(out[24+12*i:], g.gid)
	}
	return out
}

// writeCmap builds a cmap table for the given mapping: a format 4 subtable
// for the BMP and, if any codepoint lies beyond it (or format 4 overflows),
// a format 12 subtable for the full repertoire.
func writeCmap(cm cmapping) []byte {
	rs := cm.codepoints()
	f4 := writeCmapFormat4(rs, cm)
	var f12 []byte
	if f4 == nil || (len(rs) > 0 && rs[len(rs)-1] > 0xFFFF) {
		f12 = writeCmapFormat12(rs, cm)
	}
	type record struct {
		platform, encoding uint16
		f12                bool
	}
	var records []record
	if f4 != nil {
		records = append(records, record{0, 3, false})
	}
	if f12 != nil {
		records = append(records, record{0, 4, true})
	}
	if f4 != nil {
		records = append(records, record{3, 1, false})
	}
	if f12 != nil {
		records = append(records, record{3, 10, true})
	}
	hdr := 4 + 8*len(records)
	out := make([]byte, hdr+len(f4)+len(f12))
	be := binary.BigEndian
	be.PutUint16(out[2:], uint16(len(records)))
	f4Offset, f12Offset := hdr, hdr+len(f4)
	copy(out[f4Offset:], f4)
	copy(out[f12Offset:], f12)
	for i, rec := range records {
		be.PutUint16(out[4+8*i:], rec.platform)
		be.PutUint16(out[6+8*i:], rec.encoding)
		if rec.f12 {
			be.PutUint32(out[8+8*i:], uint32(f12Offset))
		} else {
			be.PutUint32(out[8+8*i:], uint32(f4Offset))
		}
	}
	return out
}
