/*
Package hb provides safe ownership of reference-counted font resources.

Font engine objects (faces, fonts, subset requests, codepoint sets) live
behind opaque handles and carry a reference count. This package wraps each
handle in a resource type and every owned reference in an Owned value:

	face, err := hb.LoadFace("GoRegular.ttf", 0)
	if err != nil { … }
	req, err := hb.NewSubsetRequest()
	if err != nil { … }
	defer req.Close()
	req.Get().Unicodes().Add('a', 'b', 'c')
	subset := req.Get().Execute(face) // consumes face
	defer subset.Close()

An Owned releases its reference exactly once, when closed. A second owner of
the same resource is obtained with Share, which increments the count.
Operations which consume an owner (like Execute) release the consumed
reference themselves, whether they succeed or fail.

Sets obtained from a SubsetRequest are borrowed views: they alias the
request's sets, never destroy them, and must not be used after the request
has been released. Doing so panics with ErrBorrowExpired.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package hb

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphkit.hb'.
func tracer() tracing.Trace {
	return tracing.Select("glyphkit.hb")
}
