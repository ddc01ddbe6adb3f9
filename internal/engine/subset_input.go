package engine

import "fmt"

// SubsetSet selects one of the sets of a subset input.
type SubsetSet int

// Sets of a subset input.
const (
	SubsetGlyphIndex         SubsetSet = iota // extra glyphs to retain
	SubsetUnicode                             // codepoints to retain
	SubsetDropTableTag                        // tables to omit
	SubsetLayoutFeatureTag                    // layout features to retain
	SubsetLayoutScriptTag                     // layout scripts to retain
	numSubsetSets
)

func (s SubsetSet) String() string {
	switch s {
	case SubsetGlyphIndex:
		return "glyph-index"
	case SubsetUnicode:
		return "unicode"
	case SubsetDropTableTag:
		return "drop-table-tag"
	case SubsetLayoutFeatureTag:
		return "layout-feature-tag"
	case SubsetLayoutScriptTag:
		return "layout-script-tag"
	}
	return fmt.Sprintf("subset-set(%d)", int(s))
}

// DefaultDropTables are the tables a fresh subset input omits: tables which
// would be invalidated by subsetting and which the subsetter cannot rewrite.
var DefaultDropTables = []string{
	"morx", "mort", "kerx", "BASE", "JSTF", "DSIG", "EBDT", "EBLC", "EBSC",
	"SVG ", "PCLT", "LTSH", "feat", "Glat", "Gloc", "Silf", "Sill",
}

// DefaultLayoutFeatures are the layout features a fresh subset input retains.
var DefaultLayoutFeatures = []string{
	// common
	"abvm", "blwm", "ccmp", "locl", "mark", "mkmk", "rlig",
	// horizontal
	"calt", "clig", "curs", "dist", "kern", "liga", "rclt", "rvrn",
	// directional
	"ltra", "ltrm", "rtla", "rtlm",
	// fractions
	"frac", "numr", "dnom",
	// arabic joining
	"init", "medi", "fina", "isol",
}

// Tag converts a 4-byte OpenType tag to its numeric value. Shorter tags are
// padded with spaces.
func Tag(s string) uint32 {
	var b [4]byte
	copy(b[:], "    ")
	copy(b[:], s)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// TagString converts a numeric OpenType tag to its 4-byte string form.
func TagString(t uint32) string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

type subsetInput struct {
	sets    [numSubsetSets]Handle
	lastErr *FontError
}

func (in *subsetInput) set(which SubsetSet) *u32set {
	return mustSet(in.sets[which], "subset-input-set")
}

// SubsetInputCreateOrFail creates a subset input with the default
// configuration. It returns NilHandle if the input could not be allocated.
func SubsetInputCreateOrFail() Handle {
	in := &subsetInput{}
	for i := range in.sets {
		in.sets[i] = SetCreate()
		if in.sets[i] == NilHandle {
			for _, h := range in.sets[:i] {
				SetDestroy(h)
			}
			return NilHandle
		}
	}
	drop := in.set(SubsetDropTableTag)
	for _, tag := range DefaultDropTables {
		drop.add(Tag(tag))
	}
	features := in.set(SubsetLayoutFeatureTag)
	for _, tag := range DefaultLayoutFeatures {
		features.add(Tag(tag))
	}
	in.set(SubsetLayoutScriptTag).invert()
	return register(kindSubsetInput, in, func() {
		for _, h := range in.sets {
			SetDestroy(h)
		}
	})
}

// SubsetInputReference increments the reference count of a subset input.
func SubsetInputReference(h Handle) {
	reference(h, kindSubsetInput)
}

// SubsetInputDestroy decrements the reference count of a subset input. Its
// sets are destroyed together with it.
func SubsetInputDestroy(h Handle) {
	release(h, kindSubsetInput)
}

func mustSubsetInput(h Handle, op string) *subsetInput {
	return mustLookup(h, kindSubsetInput, op).value.(*subsetInput)
}

// SubsetInputSet returns one of the sets of a subset input. The handle is
// owned by the input; callers must not destroy it.
func SubsetInputSet(h Handle, which SubsetSet) Handle {
	if which < 0 || which >= numSubsetSets {
		panic(fmt.Errorf("engine: invalid subset set %d", which))
	}
	return mustSubsetInput(h, "subset-input-set").sets[which]
}

// SubsetInputUnicodeSet returns the codepoint set of a subset input.
func SubsetInputUnicodeSet(h Handle) Handle {
	return SubsetInputSet(h, SubsetUnicode)
}

// SubsetInputError returns the error of the last failed SubsetOrFail call
// for this input, or nil.
func SubsetInputError(h Handle) error {
	in := mustSubsetInput(h, "subset-input-error")
	if in.lastErr == nil {
		return nil
	}
	return *in.lastErr
}
