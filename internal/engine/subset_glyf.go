package engine

import (
	"encoding/binary"

	"github.com/go-text/typesetting/font/opentype/tables"
)

// readLoca decodes the glyph offsets of a face, numGlyphs+1 entries.
func readLoca(f *face) ([]uint32, *FontError) {
	offsets, err := tables.ParseLoca(f.file.table("loca"), f.numGlyphs, f.longLoca())
	if err != nil {
		return nil, critical("loca", "offsets", "%v", err)
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, critical("loca", "offsets", "offsets not ascending at glyph %d", i-1)
		}
	}
	if int(offsets[len(offsets)-1]) > len(f.file.table("glyf")) {
		return nil, critical("loca", "offsets", "offsets point beyond end of glyf")
	}
	return offsets, nil
}

// compositeComponents returns the glyph indices referenced by a composite
// glyph description, or nil for simple and empty glyphs.
func compositeComponents(data []byte) ([]uint16, *FontError) {
	if numberOfContours := int16(binarySegm(data).U16(0)); len(data) == 0 || numberOfContours >= 0 {
		return nil, nil
	}
	glyph, _, err := tables.ParseGlyph(data)
	if err != nil {
		return nil, critical("glyf", "glyph", "%v", err)
	}
	composite, ok := glyph.Data.(tables.CompositeGlyph)
	if !ok {
		return nil, nil
	}
	comps := make([]uint16, len(composite.Glyphs))
	for i, part := range composite.Glyphs {
		comps[i] = part.GlyphIndex
	}
	return comps, nil
}

// closeComposites adds the components of retained composite glyphs,
// transitively.
func closeComposites(plan *subsetPlan) *FontError {
	offsets, err := readLoca(plan.face)
	if err != nil {
		return err
	}
	glyf := plan.face.file.table("glyf")
	var work []uint16
	for gid, in := range plan.glyphs {
		if in {
			work = append(work, uint16(gid))
		}
	}
	for len(work) > 0 {
		gid := work[len(work)-1]
		work = work[:len(work)-1]
		comps, err := compositeComponents(glyf[offsets[gid]:offsets[gid+1]])
		if err != nil {
			return err
		}
		for _, c := range comps {
			if plan.glyphs.add(c) {
				work = append(work, c)
			}
		}
	}
	return nil
}

// subsetGlyf writes glyf and loca tables in which the descriptions of
// unretained glyphs are empty. Glyph indices are unchanged. The loca format
// is short whenever the new glyf table allows it.
func subsetGlyf(plan *subsetPlan) (glyf, loca []byte, long bool, ferr *FontError) {
	offsets, ferr := readLoca(plan.face)
	if ferr != nil {
		return nil, nil, false, ferr
	}
	src := plan.face.file.table("glyf")
	n := plan.face.numGlyphs
	newOffsets := make([]uint32, n+1)
	for gid := 0; gid < n; gid++ {
		newOffsets[gid+1] = newOffsets[gid]
		if !plan.glyphs.has(uint16(gid)) {
			continue
		}
		size := offsets[gid+1] - offsets[gid]
		newOffsets[gid+1] += size + size&1
	}
	glyf = make([]byte, newOffsets[n])
	for gid := 0; gid < n; gid++ {
		if newOffsets[gid+1] > newOffsets[gid] {
			copy(glyf[newOffsets[gid]:], src[offsets[gid]:offsets[gid+1]])
		}
	}
	long = newOffsets[n]/2 > 0xFFFF
	be := binary.BigEndian
	if long {
		loca = make([]byte, 4*(n+1))
		for i, o := range newOffsets {
			be.PutUint32(loca[4*i:], o)
		}
	} else {
		loca = make([]byte, 2*(n+1))
		for i, o := range newOffsets {
			be.PutUint16(loca[2*i:], uint16(o/2))
		}
	}
	return glyf, loca, long, nil
}

// subsetGvar writes a gvar table which carries variation data for retained
// glyphs only. The output always uses long offsets.
func subsetGvar(data binarySegm, glyphs gidSet) ([]byte, *FontError) {
	if _, _, err := tables.ParseGvar(data); err != nil {
		return nil, critical("gvar", "header", "%v", err)
	}
	const headerSize = 20
	axisCount := int(data.U16(4))
	sharedCount := int(data.U16(6))
	sharedOffset := int(data.U32(8))
	glyphCount := int(data.U16(12))
	flags := data.U16(14)
	dataOffset := int(data.U32(16))
	offsets, err := tables.ParseLoca(data[headerSize:], glyphCount, flags&1 != 0)
	if err != nil {
		return nil, critical("gvar", "offsets", "%v", err)
	}
	sharedEnd := sharedOffset + 2*axisCount*sharedCount
	if sharedEnd > len(data) {
		return nil, critical("gvar", "sharedTuples", "shared tuples out of bounds")
	}
	shared := data[sharedOffset:sharedEnd]
	variations := make([][]byte, glyphCount)
	total := 0
	for gid := 0; gid < glyphCount; gid++ {
		if !glyphs.has(uint16(gid)) {
			continue
		}
		from, to := dataOffset+int(offsets[gid]), dataOffset+int(offsets[gid+1])
		if to < from || to > len(data) {
			return nil, critical("gvar", "glyphVariationData", "data of glyph %d out of bounds", gid)
		}
		variations[gid] = data[from:to]
		total += to - from
	}
	newShared := headerSize + 4*(glyphCount+1)
	newData := newShared + len(shared)
	out := make([]byte, newData+total)
	copy(out, data[:headerSize])
	be := binary.BigEndian
	be.PutUint32(out[8:], uint32(newShared))
	be.PutUint16(out[14:], flags|1)
	be.PutUint32(out[16:], uint32(newData))
	copy(out[newShared:], shared)
	at := 0
	for gid := 0; gid < glyphCount; gid++ {
		be.PutUint32(out[headerSize+4*gid:], uint32(at))
		at += copy(out[newData+at:], variations[gid])
	}
	be.PutUint32(out[headerSize+4*glyphCount:], uint32(at))
	return out, nil
}
