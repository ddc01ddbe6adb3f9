package hb

import "errors"

var (
	// ErrAllocation is returned if the font engine could not create an object.
	ErrAllocation = errors.New("hb: font engine allocation failed")
	// ErrSubsetFailed reports a failed subsetting run.
	ErrSubsetFailed = errors.New("hb: subsetting failed")
	// ErrReleased is the panic value for use of a released or moved owner.
	ErrReleased = errors.New("hb: use of released resource")
	// ErrBorrowExpired is the panic value for use of a borrowed set after its
	// owning request has been released.
	ErrBorrowExpired = errors.New("hb: borrowed set outlived its owner")
)
