package engine

import (
	"math"
	"sort"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
)

// SetValueInvalid is the sentinel which starts an enumeration with
// SetNextMany. It is never a member of a set.
const SetValueInvalid uint32 = math.MaxUint32

// u32set is a set of uint32 values: codepoints, glyph ids or table and
// feature tags. An inverted set contains every value of [0,SetValueInvalid)
// which is not stored.
type u32set struct {
	mu       sync.Mutex
	values   *treeset.Set
	inverted bool
}

func compareU32(a, b interface{}) int {
	x, y := a.(uint32), b.(uint32)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func newU32Set() *u32set {
	return &u32set{values: treeset.NewWith(compareU32)}
}

// add makes v a member of s.
func (s *u32set) add(v uint32) {
	if v == SetValueInvalid {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inverted {
		s.values.Remove(v)
	} else {
		s.values.Add(v)
	}
}

// del removes v from s.
func (s *u32set) del(v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inverted {
		s.values.Add(v)
	} else {
		s.values.Remove(v)
	}
}

func (s *u32set) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Clear()
	s.inverted = false
}

func (s *u32set) invert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inverted = !s.inverted
}

func (s *u32set) has(v uint32) bool {
	if v == SetValueInvalid {
		return false
	}
	return s.values.Contains(v) != s.inverted
}

func (s *u32set) population() uint32 {
	n := uint32(s.values.Size())
	if s.inverted {
		return SetValueInvalid - n
	}
	return n
}

// isAll reports whether s is the inverted empty set.
func (s *u32set) isAll() bool {
	return s.inverted && s.values.Empty()
}

// stored returns the stored values in ascending order.
func (s *u32set) stored() []uint32 {
	vals := s.values.Values()
	out := make([]uint32, len(vals))
	for i, v := range vals {
		out[i] = v.(uint32)
	}
	return out
}

// nextMany writes the members of s greater than after into out, in
// ascending order, and returns the number of values written. after ==
// SetValueInvalid starts at the smallest member.
func (s *u32set) nextMany(after uint32, out []uint32) int {
	stored := s.stored()
	first := uint64(after) + 1
	if after == SetValueInvalid {
		first = 0
	}
	i := sort.Search(len(stored), func(i int) bool { return uint64(stored[i]) >= first })
	n := 0
	if !s.inverted {
		for ; i < len(stored) && n < len(out); i++ {
			out[n] = stored[i]
			n++
		}
		return n
	}
	for v := first; v < uint64(SetValueInvalid) && n < len(out); v++ {
		if i < len(stored) && uint64(stored[i]) == v {
			i++
			continue
		}
		out[n] = uint32(v)
		n++
	}
	return n
}

// members calls f for every member of s which is smaller than limit.
func (s *u32set) members(limit uint32, f func(uint32)) {
	stored := s.stored()
	if !s.inverted {
		for _, v := range stored {
			if v >= limit {
				return
			}
			f(v)
		}
		return
	}
	i := 0
	for v := uint32(0); v < limit; v++ {
		if i < len(stored) && stored[i] == v {
			i++
			continue
		}
		f(v)
	}
}

// --- Engine API ------------------------------------------------------------

// SetCreate creates an empty set.
func SetCreate() Handle {
	return register(kindSet, newU32Set(), nil)
}

// SetReference increments the reference count of a set.
func SetReference(h Handle) {
	reference(h, kindSet)
}

// SetDestroy decrements the reference count of a set.
func SetDestroy(h Handle) {
	release(h, kindSet)
}

func mustSet(h Handle, op string) *u32set {
	return mustLookup(h, kindSet, op).value.(*u32set)
}

// SetAdd adds v to a set.
func SetAdd(h Handle, v uint32) {
	mustSet(h, "set-add").add(v)
}

// SetDel removes v from a set.
func SetDel(h Handle, v uint32) {
	mustSet(h, "set-del").del(v)
}

// SetClear empties a set. A cleared set is not inverted.
func SetClear(h Handle) {
	mustSet(h, "set-clear").clear()
}

// SetInvert complements a set over the uint32 value domain.
func SetInvert(h Handle) {
	mustSet(h, "set-invert").invert()
}

// SetHas tests membership of v.
func SetHas(h Handle, v uint32) bool {
	return mustSet(h, "set-has").has(v)
}

// SetPopulation returns the number of members of a set.
func SetPopulation(h Handle) uint32 {
	return mustSet(h, "set-population").population()
}

// SetIsInverted reports whether a set is in complement representation.
func SetIsInverted(h Handle) bool {
	return mustSet(h, "set-is-inverted").inverted
}

// SetNextMany fills out with members greater than after, ascending, and
// returns the count written. Start an enumeration with SetValueInvalid.
func SetNextMany(h Handle, after uint32, out []uint32) int {
	return mustSet(h, "set-next-many").nextMany(after, out)
}
