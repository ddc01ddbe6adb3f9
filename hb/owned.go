package hb

import (
	"fmt"
	"sync/atomic"

	"github.com/npillmayer/glyphkit/internal/engine"
)

// Handle identifies a font engine object. The zero Handle is invalid.
type Handle = engine.Handle

// Resource is a reference-counted font engine object.
//
// Reference must only be called while the resource is alive. Each call to
// Dereference releases exactly one reference acquired by creation or by
// Reference; after the last one the handle is invalid.
type Resource interface {
	AsRaw() Handle
	Reference()
	Dereference()
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527 (vet's
// copylocks check).
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Owned holds exactly one reference to a resource. Owned values must be used
// by pointer; Close releases the reference.
type Owned[T Resource] struct {
	_     noCopy
	res   T
	alive atomic.Bool
}

// FromRaw takes ownership of a handle which already carries one reference,
// e.g. one fresh from a constructor. wrap converts the handle to a resource.
// FromRaw fails with ErrAllocation for the nil handle.
func FromRaw[T Resource](h Handle, wrap func(Handle) T) (*Owned[T], error) {
	if h == engine.NilHandle {
		return nil, ErrAllocation
	}
	o := &Owned[T]{res: wrap(h)}
	o.alive.Store(true)
	return o, nil
}

// Get returns the owned resource. It panics if the owner has been closed or
// moved.
func (o *Owned[T]) Get() T {
	if !o.alive.Load() {
		panic(fmt.Errorf("%w: %T", ErrReleased, o.res))
	}
	return o.res
}

// AsRaw returns the handle of the owned resource without transferring
// ownership.
func (o *Owned[T]) AsRaw() Handle {
	return o.Get().AsRaw()
}

// Share returns a second, independent owner of the same resource.
func (o *Owned[T]) Share() *Owned[T] {
	res := o.Get()
	res.Reference()
	s := &Owned[T]{res: res}
	s.alive.Store(true)
	return s
}

// Alive reports whether o still owns its resource.
func (o *Owned[T]) Alive() bool {
	return o != nil && o.alive.Load()
}

// Close releases the owned reference. Closing an owner more than once, or
// closing a moved owner, has no effect.
func (o *Owned[T]) Close() error {
	if o == nil || !o.alive.CompareAndSwap(true, false) {
		return nil
	}
	o.res.Dereference()
	return nil
}

// take moves the reference out of o. The caller becomes responsible for
// dereferencing it.
func (o *Owned[T]) take() T {
	if !o.alive.CompareAndSwap(true, false) {
		panic(fmt.Errorf("%w: %T", ErrReleased, o.res))
	}
	return o.res
}

func (o *Owned[T]) String() string {
	if !o.Alive() {
		return "released"
	}
	return fmt.Sprintf("%T#%d", o.res, o.res.AsRaw())
}
