package hb

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/npillmayer/glyphkit/internal/engine"
)

// MaxCodepoint is the largest Unicode codepoint.
const MaxCodepoint = 0x10FFFF

// CodepointSet is a set of codepoints, glyph indices or tags.
//
// A CodepointSet either owns its engine set, or it is a borrowed view of one
// of the sets of a SubsetRequest. A borrowed view never destroys the set and
// must not be used after its request has been released.
type CodepointSet struct {
	h      Handle
	parent Handle // owning request of a borrowed view
	closed atomic.Bool
}

// NewCodepointSet creates an empty, self-owned set. Callers must Close it.
func NewCodepointSet() (*CodepointSet, error) {
	h := engine.SetCreate()
	if h == engine.NilHandle {
		return nil, ErrAllocation
	}
	return &CodepointSet{h: h}, nil
}

func borrowSet(h, parent Handle) *CodepointSet {
	return &CodepointSet{h: h, parent: parent}
}

// Borrowed reports whether s is a view of a set owned by someone else.
func (s *CodepointSet) Borrowed() bool {
	return s.parent != engine.NilHandle
}

// raw checks that s may be used and returns its handle.
func (s *CodepointSet) raw() Handle {
	if s.parent != engine.NilHandle {
		if !engine.Alive(s.parent) {
			panic(fmt.Errorf("%w: set #%d of request #%d", ErrBorrowExpired, s.h, s.parent))
		}
	} else if s.closed.Load() {
		panic(fmt.Errorf("%w: set #%d", ErrReleased, s.h))
	}
	return s.h
}

// AsRaw returns the handle of the set.
func (s *CodepointSet) AsRaw() Handle {
	return s.raw()
}

// Close destroys a self-owned set, exactly once. Closing a borrowed view
// has no effect.
func (s *CodepointSet) Close() error {
	if s.parent != engine.NilHandle || !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	engine.SetDestroy(s.h)
	return nil
}

// Add inserts values. Values already present are ignored.
func (s *CodepointSet) Add(values ...rune) {
	h := s.raw()
	for _, v := range values {
		engine.SetAdd(h, uint32(v))
	}
}

// Remove deletes values. Values not present are ignored.
func (s *CodepointSet) Remove(values ...rune) {
	h := s.raw()
	for _, v := range values {
		engine.SetDel(h, uint32(v))
	}
}

// AddRange inserts all codepoints from lo to hi, inclusive. The range is
// clipped to [0, MaxCodepoint].
func (s *CodepointSet) AddRange(lo, hi rune) {
	h := s.raw()
	lo, hi = max(lo, 0), min(hi, MaxCodepoint)
	for v := int64(lo); v <= int64(hi); v++ {
		engine.SetAdd(h, uint32(v))
	}
}

// AddTags inserts OpenType tags such as table or feature tags.
func (s *CodepointSet) AddTags(tags ...string) {
	h := s.raw()
	for _, tag := range tags {
		engine.SetAdd(h, engine.Tag(tag))
	}
}

// RemoveTags deletes OpenType tags.
func (s *CodepointSet) RemoveTags(tags ...string) {
	h := s.raw()
	for _, tag := range tags {
		engine.SetDel(h, engine.Tag(tag))
	}
}

// Clear empties the set.
func (s *CodepointSet) Clear() {
	engine.SetClear(s.raw())
}

// Invert complements the set. Inverting an empty set selects everything.
func (s *CodepointSet) Invert() {
	engine.SetInvert(s.raw())
}

// IsInverted reports whether the set is represented by its complement.
func (s *CodepointSet) IsInverted() bool {
	return engine.SetIsInverted(s.raw())
}

// Contains tests membership of v.
func (s *CodepointSet) Contains(v rune) bool {
	return engine.SetHas(s.raw(), uint32(v))
}

// ContainsTag tests membership of an OpenType tag.
func (s *CodepointSet) ContainsTag(tag string) bool {
	return engine.SetHas(s.raw(), engine.Tag(tag))
}

// Len returns the number of members.
func (s *CodepointSet) Len() int {
	return int(engine.SetPopulation(s.raw()))
}

const enumChunk = 256

// All iterates over the members in ascending order. For inverted sets the
// sequence is very long; stop early.
func (s *CodepointSet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		var buf [enumChunk]uint32
		after := engine.SetValueInvalid
		for {
			n := engine.SetNextMany(s.raw(), after, buf[:])
			for _, v := range buf[:n] {
				if !yield(v) {
					return
				}
			}
			if n < len(buf) {
				return
			}
			after = buf[n-1]
		}
	}
}

// Values returns the members in ascending order. Members of inverted sets
// are enumerated up to MaxCodepoint only.
func (s *CodepointSet) Values() []uint32 {
	inverted := s.IsInverted()
	var vals []uint32
	for v := range s.All() {
		if inverted && v > MaxCodepoint {
			break
		}
		vals = append(vals, v)
	}
	return vals
}

// Tags returns the members as OpenType tags. Inverted sets yield nil.
func (s *CodepointSet) Tags() []string {
	if s.IsInverted() {
		return nil
	}
	var tags []string
	for v := range s.All() {
		tags = append(tags, engine.TagString(v))
	}
	return tags
}

func (s *CodepointSet) String() string {
	if s.IsInverted() {
		return fmt.Sprintf("set#%d(all but %d)", s.h, engine.SetValueInvalid-engine.SetPopulation(s.raw()))
	}
	return fmt.Sprintf("set#%d(%d)", s.h, s.Len())
}
