// SPDX-License-Identifier: Apache-2.0

package view

import "github.com/go-ssz/view/merkle"

// Type is the metadata protocol every SSZ type satisfies: it carries its
// own shape (fixed vs. variable size, byte lengths, default tree) as a
// value, rather than through reflection over a Go struct. Parameterized
// types (Vector, List, Bitvector, Bitlist, Container, ...) are constructed
// at runtime with their parameters (element type, N) baked in as fields,
// so that two constructions with the same element type and bound compare
// structurally equal the way spec.md requires, without requiring Go's
// generics to express an integer type parameter it does not have.
type Type interface {
	// TypeName returns a human-readable type descriptor, e.g.
	// "List[uint64, 1024]".
	TypeName() string
	// DefaultNode returns the backing tree of this type's zero value.
	DefaultNode() merkle.Node
	// IsFixedSize reports whether every value of this type has the same
	// SSZ byte length.
	IsFixedSize() bool
	// FixedSize returns the SSZ byte length for a fixed-size type. It
	// must not be called when IsFixedSize() is false.
	FixedSize() uint64
	// MinSize and MaxSize bound the SSZ byte length of a variable-size
	// type's encoding (inclusive). For fixed-size types both equal
	// FixedSize().
	MinSize() uint64
	MaxSize() uint64
	// CoerceView converts x into a View of this type, accepting a View
	// already of this type as a no-op and, for basic types, the native Go
	// values and raw byte encodings spec.md §4.F allows in place of a
	// pre-built View (e.g. a plain uint64 for Uint64Type, little-endian
	// bytes for any uint width). It is the uniform entry point Set/Append
	// calls before installing a value, so callers never have to build a
	// *View by hand just to assign a literal.
	CoerceView(x any) (View, error)
	// ViewFromBacking wraps an existing backing node as a View of this
	// type, without copying or validating its contents. hook may be nil.
	ViewFromBacking(n merkle.Node, hook Hook) (View, error)
	// Deserialize decodes scope bytes at buf's current read position into
	// a View of this type. buf must contain at least scope bytes.
	Deserialize(buf []byte, scope uint64) (View, error)
}

// BasicType is the subset of Type satisfied by the fixed-width scalar
// types (boolean, uint8..uint256) that pack multiple values per 32-byte
// chunk instead of each occupying a whole subtree.
type BasicType interface {
	Type
	// ByteLength is the little-endian wire width of one value, e.g. 8 for
	// uint64. 32 / ByteLength values are packed per chunk.
	ByteLength() int
	// PackedPerChunk is 32 / ByteLength.
	PackedPerChunk() int
	// DecodeFromChunk extracts the i-th packed element (0-based) out of a
	// 32-byte chunk and returns it as a View with no hook.
	DecodeFromChunk(chunk [32]byte, i int) (View, error)
	// EncodeInto writes a value's little-endian bytes into chunk at the
	// i-th packed slot, returning the updated chunk.
	EncodeInto(chunk [32]byte, i int, v View) ([32]byte, error)
}

// View is the value-layer counterpart of Type: every SSZ value, whether a
// basic scalar or a composite, implements it.
type View interface {
	// Type returns the metadata this view was constructed against.
	Type() Type
	// Backing returns the tree node backing this view's current value.
	Backing() merkle.Node
	// HashTreeRoot is the Merkle root of Backing(), using h.
	HashTreeRoot(h merkle.HashFn) [32]byte
	// Serialize appends this view's SSZ encoding to buf and returns the
	// result.
	Serialize(buf []byte) ([]byte, error)
}

// Hook is the parent-update callback bound to a child view produced by
// get(i): invoking it with the child's new backing tells the parent to
// rebind index i and propagate the new root upward. A nil Hook marks a
// view with no parent to notify (e.g. the root of a view chain, or a
// BasicView, which is immutable and never calls its hook).
type Hook func(newChild merkle.Node) error
