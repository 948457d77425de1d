package ght

import (
	"fmt"

	"github.com/pramsey-labs/ght/internal/schema"
)

// ErrInvalidCoordinate indicates a coordinate outside WGS84 bounds.
type ErrInvalidCoordinate struct {
	X, Y float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("ght: invalid coordinate: x=%f y=%f (x must be ±180, y must be ±90)", e.X, e.Y)
}

// ErrDimensionNotFound indicates a schema lookup by name or index failed.
type ErrDimensionNotFound = schema.ErrDimensionNotFound

// ErrDuplicateDimension indicates a schema was built with two dimensions
// sharing a name.
type ErrDuplicateDimension = schema.ErrDuplicateDimension

// ErrInsertFailed indicates a node could not be placed in the trie — the
// two hashes involved share no usable relationship (MatchNone).
type ErrInsertFailed struct {
	RootHash string
	NewHash  string
}

func (e *ErrInsertFailed) Error() string {
	return fmt.Sprintf("ght: cannot insert hash %q under root hash %q", e.NewHash, e.RootHash)
}

// ErrAttributeExists indicates transferAttributes was asked to move a
// chain onto a node that already has one — an invariant violation, since
// transfer is only ever invoked right after a fresh node is created.
type ErrAttributeExists struct{}

func (e *ErrAttributeExists) Error() string {
	return "ght: destination node already has attributes"
}

// ErrVersionMismatch indicates a tree file's format_version byte doesn't
// match what this package knows how to read.
type ErrVersionMismatch struct {
	Got, Want uint8
}

func (e *ErrVersionMismatch) Error() string {
	return fmt.Sprintf("ght: unsupported format version %d (want %d)", e.Got, e.Want)
}

// ErrShortRead indicates a read stopped before a record boundary, which
// means the underlying stream was truncated or desynchronized mid-node.
type ErrShortRead struct {
	Wanted, Got int
}

func (e *ErrShortRead) Error() string {
	return fmt.Sprintf("ght: short read: wanted %d bytes, got %d", e.Wanted, e.Got)
}
