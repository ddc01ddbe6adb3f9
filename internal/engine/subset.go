package engine

import (
	"encoding/binary"
	"slices"

	ot "github.com/go-text/typesetting/font/opentype"
)

// gidSet is a set of glyph indices of a face, indexed by glyph index.
type gidSet []bool

func newGIDSet(numGlyphs int) gidSet {
	return make(gidSet, numGlyphs)
}

// add inserts gid and reports whether it was newly added. Glyph indices
// beyond the face's glyph count are ignored.
func (s gidSet) add(gid uint16) bool {
	if int(gid) >= len(s) || s[gid] {
		return false
	}
	s[gid] = true
	return true
}

func (s gidSet) has(gid uint16) bool {
	return int(gid) < len(s) && s[gid]
}

func (s gidSet) count() int {
	n := 0
	for _, in := range s {
		if in {
			n++
		}
	}
	return n
}

// subsetPlan is the resolved configuration of a single subsetting run.
type subsetPlan struct {
	face     *face
	input    *subsetInput
	cmap     cmapping // retained codepoints
	glyphs   gidSet   // retained glyphs, closed under GSUB and composites
	drop     func(tag string) bool
	layout   bool // layout tables are retained at all
	features *u32set
	scripts  *u32set
	errs     errorCollector
}

func newSubsetPlan(f *face, in *subsetInput) *subsetPlan {
	dropSet := in.set(SubsetDropTableTag)
	plan := &subsetPlan{
		face:     f,
		input:    in,
		cmap:     make(cmapping),
		glyphs:   newGIDSet(f.numGlyphs),
		drop:     func(tag string) bool { return dropSet.has(Tag(tag)) },
		features: in.set(SubsetLayoutFeatureTag),
		scripts:  in.set(SubsetLayoutScriptTag),
	}
	plan.layout = plan.features.population() > 0 && plan.scripts.population() > 0
	unicodes := in.set(SubsetUnicode)
	for r, gid := range f.cmap {
		if unicodes.has(uint32(r)) {
			plan.cmap[r] = gid
		}
	}
	plan.glyphs.add(0) // .notdef
	for _, gid := range plan.cmap {
		plan.glyphs.add(gid)
	}
	in.set(SubsetGlyphIndex).members(uint32(f.numGlyphs), func(gid uint32) {
		plan.glyphs.add(uint16(gid))
	})
	return plan
}

// closeGlyphs extends the glyph set by everything reachable through
// retained substitutions and composite glyph references.
func (plan *subsetPlan) closeGlyphs() *FontError {
	if plan.layout && !plan.drop("GSUB") {
		if gsub := plan.face.file.table("GSUB"); gsub != nil {
			if err := closeGSUB(gsub, plan); err != nil {
				plan.errs.addError("GSUB", err.Section, err.Issue, SeverityMajor)
			}
		}
	}
	if plan.face.file.has("glyf") {
		return closeComposites(plan)
	}
	return nil
}

func (plan *subsetPlan) validate() *FontError {
	f := plan.face
	if f.cmap == nil {
		return critical("cmap", "subtable", "font has no usable cmap")
	}
	if f.file.version != ot.OpenType || f.file.has("glyf") {
		if !f.file.has("glyf") || !f.file.has("loca") {
			return critical("glyf", "outlines", "TrueType font without glyf/loca tables")
		}
	}
	return nil
}

// subset runs a plan and returns the new font binary.
func (plan *subsetPlan) subset() ([]byte, *FontError) {
	if err := plan.validate(); err != nil {
		return nil, err
	}
	if err := plan.closeGlyphs(); err != nil {
		return nil, err
	}
	f := plan.face
	tables := make(map[string][]byte, len(f.file.tables))
	var longLoca bool
	for _, tag := range f.file.tags() {
		if plan.drop(tag) {
			continue
		}
		data := f.file.table(tag)
		switch tag {
		case "glyf":
			if plan.drop("loca") {
				continue
			}
			glyf, loca, long, err := subsetGlyf(plan)
			if err != nil {
				return nil, err
			}
			tables["glyf"], tables["loca"], longLoca = glyf, loca, long
		case "loca":
			// written together with glyf
		case "gvar":
			gvar, err := subsetGvar(data, plan.glyphs)
			if err != nil {
				plan.errs.addError("gvar", err.Section, err.Issue, SeverityMajor)
				continue
			}
			tables[tag] = gvar
		case "cmap":
			tables[tag] = writeCmap(plan.cmap)
		case "OS/2":
			tables[tag] = subsetOS2(data, plan.cmap)
		case "GSUB", "GPOS":
			if !plan.layout {
				continue
			}
			pruned, err := pruneLayoutTable(data, plan)
			if err != nil {
				plan.errs.addError(tag, err.Section, err.Issue, SeverityMajor)
				continue
			}
			tables[tag] = pruned
		case "GDEF":
			if plan.layout {
				tables[tag] = data
			}
		default:
			tables[tag] = data
		}
	}
	if head, ok := tables["head"]; ok && tables["loca"] != nil {
		head = slices.Clone(head)
		format := uint16(0)
		if longLoca {
			format = 1
		}
		binary.BigEndian.PutUint16(head[50:], format)
		tables["head"] = head
	}
	out, err := writeSFNT(f.file.version, tables)
	if err != nil {
		return nil, critical("", "writer", "%v", err)
	}
	return out, nil
}

// subsetOS2 updates the first and last character index of an OS/2 table.
func subsetOS2(data binarySegm, cm cmapping) []byte {
	out := slices.Clone([]byte(data))
	if len(out) < 68 || len(cm) == 0 {
		return out
	}
	rs := cm.codepoints()
	first, last := rs[0], rs[len(rs)-1]
	binary.BigEndian.PutUint16(out[64:], uint16(min(first, 0xFFFF)))
	binary.BigEndian.PutUint16(out[66:], uint16(min(last, 0xFFFF)))
	return out
}

// --- Engine API ------------------------------------------------------------

// SubsetOrFail subsets a face according to a subset input. It returns a new
// face, or NilHandle on failure; the reason of a failure may be queried with
// SubsetInputError. Neither the face nor the input is consumed.
func SubsetOrFail(faceHandle, inputHandle Handle) Handle {
	inObj, ok := lookup(inputHandle, kindSubsetInput)
	if !ok {
		tracer().Errorf("engine: subset with dead input handle #%d", inputHandle)
		return NilHandle
	}
	in := inObj.value.(*subsetInput)
	in.lastErr = nil
	fail := func(err *FontError) Handle {
		in.lastErr = err
		tracer().Errorf("engine: subsetting failed: %v", err)
		return NilHandle
	}
	faceObj, ok := lookup(faceHandle, kindFace)
	if !ok {
		return fail(critical("", "face", "dead face handle #%d", faceHandle))
	}
	f := faceObj.value.(*face)
	plan := newSubsetPlan(f, in)
	out, err := plan.subset()
	if err != nil {
		return fail(err)
	}
	h, cerr := FaceCreate(out, 0)
	if cerr != nil {
		return fail(critical("", "writer", "subset font does not parse: %v", cerr))
	}
	if n := len(plan.errs.errors); n > 0 {
		tracer().Infof("engine: subset worked around %d damaged tables", n)
	}
	tracer().Infof("engine: subset kept %d of %d glyphs, %d codepoints, %d -> %d bytes",
		plan.glyphs.count(), f.numGlyphs, len(plan.cmap), len(f.blob), len(out))
	return h
}
