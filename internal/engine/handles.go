package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Handle identifies an engine object. Handles are never reused; the zero
// Handle is returned by constructors which failed to allocate.
type Handle uintptr

// NilHandle is the invalid handle.
const NilHandle Handle = 0

type objectKind uint8

const (
	kindFace objectKind = iota + 1
	kindSet
	kindSubsetInput
	kindFont
)

func (k objectKind) String() string {
	switch k {
	case kindFace:
		return "face"
	case kindSet:
		return "set"
	case kindSubsetInput:
		return "subset-input"
	case kindFont:
		return "font"
	}
	return "unknown"
}

// object is the engine-side record for a handle.
type object struct {
	kind    objectKind
	refs    atomic.Int32
	value   any
	destroy func() // called once, when the count reaches zero
}

var objects = struct {
	sync.RWMutex
	table map[Handle]*object
	next  Handle
}{
	table: make(map[Handle]*object),
	next:  1,
}

// Counters reports engine-wide reference bookkeeping. Outstanding is the
// number of references handed out (creations plus increments) which have not
// been released yet.
type Counters struct {
	Created     int64
	Referenced  int64
	Released    int64
	Destroyed   int64
	Live        int
	Outstanding int64
}

var stats struct {
	created, referenced, released, destroyed atomic.Int64
}

// Stats returns a snapshot of the engine's reference counters.
func Stats() Counters {
	objects.RLock()
	live := len(objects.table)
	objects.RUnlock()
	c := Counters{
		Created:    stats.created.Load(),
		Referenced: stats.referenced.Load(),
		Released:   stats.released.Load(),
		Destroyed:  stats.destroyed.Load(),
		Live:       live,
	}
	c.Outstanding = c.Created + c.Referenced - c.Released
	return c
}

// register stores v as a new object with one reference.
func register(kind objectKind, v any, destroy func()) Handle {
	obj := &object{kind: kind, value: v, destroy: destroy}
	obj.refs.Store(1)
	objects.Lock()
	h := objects.next
	objects.next++
	objects.table[h] = obj
	objects.Unlock()
	stats.created.Add(1)
	tracer().Debugf("engine: created %s #%d", kind, h)
	return h
}

// lookup returns the live object for h, if h is alive and of the given kind.
func lookup(h Handle, kind objectKind) (*object, bool) {
	if h == NilHandle {
		return nil, false
	}
	objects.RLock()
	obj, ok := objects.table[h]
	objects.RUnlock()
	if !ok || obj.kind != kind {
		return nil, false
	}
	return obj, true
}

// mustLookup is lookup for operations which have liveness as a precondition.
func mustLookup(h Handle, kind objectKind, op string) *object {
	obj, ok := lookup(h, kind)
	if !ok {
		panic(fmt.Errorf("engine: %s on dead or foreign %s handle #%d", op, kind, h))
	}
	return obj
}

func reference(h Handle, kind objectKind) {
	if h == NilHandle {
		return
	}
	obj := mustLookup(h, kind, "reference")
	obj.refs.Add(1)
	stats.referenced.Add(1)
}

func release(h Handle, kind objectKind) {
	if h == NilHandle {
		return
	}
	obj := mustLookup(h, kind, "destroy")
	stats.released.Add(1)
	if n := obj.refs.Add(-1); n > 0 {
		return
	} else if n < 0 {
		panic(fmt.Errorf("engine: %s #%d released more often than referenced", kind, h))
	}
	objects.Lock()
	delete(objects.table, h)
	objects.Unlock()
	stats.destroyed.Add(1)
	tracer().Debugf("engine: destroyed %s #%d", kind, h)
	if obj.destroy != nil {
		obj.destroy()
	}
}

// Alive reports whether h currently denotes a live object of any kind.
func Alive(h Handle) bool {
	if h == NilHandle {
		return false
	}
	objects.RLock()
	_, ok := objects.table[h]
	objects.RUnlock()
	return ok
}

// RefCount returns the current reference count of h, or 0 for dead handles.
func RefCount(h Handle) int {
	objects.RLock()
	obj, ok := objects.table[h]
	objects.RUnlock()
	if !ok {
		return 0
	}
	return int(obj.refs.Load())
}
