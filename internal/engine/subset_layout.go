package engine

import (
	"encoding/binary"
	"slices"

	"github.com/go-text/typesetting/font/opentype/tables"
)

// maxClosureRounds bounds the GSUB closure iteration. Fonts with cyclic
// substitutions converge well before.
const maxClosureRounds = 32

// layoutTable is a parsed GSUB or GPOS table together with its raw data.
type layoutTable struct {
	data   binarySegm
	layout tables.Layout
}

func parseLayoutTable(data binarySegm) (*layoutTable, *FontError) {
	layout, _, err := tables.ParseLayout(data)
	if err != nil {
		return nil, critical("", "header", "%v", err)
	}
	return &layoutTable{data: data, layout: layout}, nil
}

// scriptListOffset and featureListOffset are the positions of the lists
// within the raw table.
func (t *layoutTable) scriptListOffset() int  { return int(t.data.U16(4)) }
func (t *layoutTable) featureListOffset() int { return int(t.data.U16(6)) }

// layoutSelection is the result of matching a layout table's script and
// feature records against the retained scripts and features.
type layoutSelection struct {
	scripts  []bool // per script record
	features []bool // per feature record
	lookups  []int  // lookup indices of retained features, ascending
}

// selectLayout determines which records of t are retained. A feature is
// retained if its tag is selected and some retained script's language
// system refers to it; required features of retained scripts are retained
// regardless of their tag.
func selectLayout(t *layoutTable, features, scripts *u32set) *layoutSelection {
	scriptList, featureList := t.layout.ScriptList, t.layout.FeatureList
	sel := &layoutSelection{
		scripts:  make([]bool, len(scriptList.Records)),
		features: make([]bool, len(featureList.Records)),
	}
	useFeature := func(index uint16, required bool) {
		if int(index) >= len(featureList.Records) {
			return
		}
		if required || features.has(uint32(featureList.Records[index].Tag)) {
			sel.features[index] = true
		}
	}
	visitLangSys := func(ls tables.LangSys) {
		if ls.RequiredFeatureIndex != 0xFFFF {
			useFeature(ls.RequiredFeatureIndex, true)
		}
		for _, index := range ls.FeatureIndices {
			useFeature(index, false)
		}
	}
	for i, rec := range scriptList.Records {
		if !scripts.has(uint32(rec.Tag)) {
			continue
		}
		sel.scripts[i] = true
		script := scriptList.Scripts[i]
		if script.DefaultLangSys != nil {
			visitLangSys(*script.DefaultLangSys)
		}
		for _, ls := range script.LangSys {
			visitLangSys(ls)
		}
	}
	lookups := make(map[int]bool)
	for i, ok := range sel.features {
		if !ok {
			continue
		}
		for _, l := range featureList.Features[i].LookupListIndices {
			lookups[int(l)] = true
		}
	}
	for l := range lookups {
		sel.lookups = append(sel.lookups, l)
	}
	slices.Sort(sel.lookups)
	return sel
}

// pruneLayoutTable returns a copy of a GSUB or GPOS table in which feature
// records not retained refer to no lookups and script records not retained
// have no language systems. Tables shared with a retained record stay
// intact.
func pruneLayoutTable(data binarySegm, plan *subsetPlan) ([]byte, *FontError) {
	t, err := parseLayoutTable(data)
	if err != nil {
		return nil, err
	}
	sel := selectLayout(t, plan.features, plan.scripts)
	out := slices.Clone([]byte(data))
	be := binary.BigEndian
	featBase := t.featureListOffset()
	records := t.layout.FeatureList.Records
	keptFeat := make(map[uint16]bool)
	for i, ok := range sel.features {
		if ok {
			keptFeat[records[i].Offset] = true
		}
	}
	for i, ok := range sel.features {
		off := featBase + int(records[i].Offset)
		if ok || keptFeat[records[i].Offset] || off+4 > len(out) {
			continue
		}
		be.PutUint16(out[off+2:], 0) // lookupIndexCount
	}
	scriptBase := t.scriptListOffset()
	scriptRecords := t.layout.ScriptList.Records
	keptScript := make(map[uint16]bool)
	for i, ok := range sel.scripts {
		if ok {
			keptScript[scriptRecords[i].Offset] = true
		}
	}
	for i, ok := range sel.scripts {
		off := scriptBase + int(scriptRecords[i].Offset)
		if ok || keptScript[scriptRecords[i].Offset] || off+4 > len(out) {
			continue
		}
		be.PutUint16(out[off:], 0)   // defaultLangSysOffset
		be.PutUint16(out[off+2:], 0) // langSysCount
	}
	return out, nil
}

// --- GSUB closure ----------------------------------------------------------

// coverage calls f for every glyph of a coverage table, together with its
// coverage index.
func coverage(cov tables.Coverage, f func(index int, gid uint16)) {
	switch cov := cov.(type) {
	case tables.Coverage1:
		for i, g := range cov.Glyphs {
			f(i, g)
		}
	case tables.Coverage2:
		for _, r := range cov.Ranges {
			for g := uint32(r.StartGlyphID); g <= uint32(r.EndGlyphID); g++ {
				f(int(r.StartCoverageIndex)+int(g-uint32(r.StartGlyphID)), uint16(g))
			}
		}
	}
}

// gsubSubtables returns the subtables of a lookup with extension subtables
// resolved. Subtables which fail to parse are skipped.
func gsubSubtables(lookup tables.Lookup) []tables.GSUBLookup {
	subs, err := lookup.AsGSUBLookups()
	if err != nil {
		tracer().Debugf("engine: skipping GSUB lookup: %v", err)
		return nil
	}
	out := subs[:0]
	for _, sub := range subs {
		if ext, ok := sub.(tables.ExtensionSubs); ok {
			resolved, err := ext.Resolve()
			if err != nil {
				tracer().Debugf("engine: skipping GSUB extension: %v", err)
				continue
			}
			sub = resolved
		}
		out = append(out, sub)
	}
	return out
}

func isContextual(sub tables.GSUBLookup) bool {
	switch sub.(type) {
	case tables.ContextualSubs, tables.ChainedContextualSubs:
		return true
	}
	return false
}

// closeGSUB adds all glyphs reachable from the plan's glyph set through the
// lookups of retained GSUB features, iterating until no glyph is added.
func closeGSUB(data binarySegm, plan *subsetPlan) *FontError {
	t, err := parseLayoutTable(data)
	if err != nil {
		return err
	}
	sel := selectLayout(t, plan.features, plan.scripts)
	all := t.layout.LookupList.Lookups
	var subtables []tables.GSUBLookup
	contextual := false
	for _, index := range sel.lookups {
		if index >= len(all) {
			continue
		}
		for _, sub := range gsubSubtables(all[index]) {
			subtables = append(subtables, sub)
			contextual = contextual || isContextual(sub)
		}
	}
	if contextual {
		// nested lookups are reachable from contextual ones
		subtables = subtables[:0]
		for _, lookup := range all {
			subtables = append(subtables, gsubSubtables(lookup)...)
		}
	}
	for round := 0; round < maxClosureRounds; round++ {
		added := 0
		for _, sub := range subtables {
			added += closeSubstitution(sub, plan.glyphs)
		}
		tracer().Debugf("engine: GSUB closure round %d added %d glyphs", round, added)
		if added == 0 {
			return nil
		}
	}
	tracer().Infof("engine: GSUB closure did not converge after %d rounds", maxClosureRounds)
	return nil
}

// closeSubstitution applies one substitution subtable to the glyph set and
// returns the number of glyphs added.
func closeSubstitution(sub tables.GSUBLookup, glyphs gidSet) int {
	added := 0
	add := func(gid uint16) {
		if glyphs.add(gid) {
			added++
		}
	}
	covered := func(f func(i int)) {
		coverage(sub.Cov(), func(i int, g uint16) {
			if glyphs.has(g) {
				f(i)
			}
		})
	}
	switch sub := sub.(type) {
	case tables.SingleSubs:
		switch data := sub.Data.(type) {
		case tables.SingleSubstData1:
			coverage(data.Coverage, func(_ int, g uint16) {
				if glyphs.has(g) {
					add(g + uint16(data.DeltaGlyphID))
				}
			})
		case tables.SingleSubstData2:
			covered(func(i int) {
				if i < len(data.SubstituteGlyphIDs) {
					add(data.SubstituteGlyphIDs[i])
				}
			})
		}
	case tables.MultipleSubs:
		covered(func(i int) {
			if i < len(sub.Sequences) {
				for _, g := range sub.Sequences[i].SubstituteGlyphIDs {
					add(g)
				}
			}
		})
	case tables.AlternateSubs:
		covered(func(i int) {
			if i < len(sub.AlternateSets) {
				for _, g := range sub.AlternateSets[i].AlternateGlyphIDs {
					add(g)
				}
			}
		})
	case tables.LigatureSubs:
		covered(func(i int) {
			if i >= len(sub.LigatureSets) {
				return
			}
			for _, lig := range sub.LigatureSets[i].Ligatures {
				all := true
				for _, c := range lig.ComponentGlyphIDs {
					if all = glyphs.has(c); !all {
						break
					}
				}
				if all {
					add(lig.LigatureGlyph)
				}
			}
		})
	case tables.ReverseChainSingleSubs:
		covered(func(i int) {
			if i < len(sub.SubstituteGlyphIDs) {
				add(sub.SubstituteGlyphIDs[i])
			}
		})
	}
	return added
}
