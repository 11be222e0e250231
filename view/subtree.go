// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// Backed is the embeddable state every composite (non-basic) view shares:
// a backing tree node and an optional hook notifying a parent view of
// mutation. Composite view types (Vector, List, Container, Bitvector,
// Bitlist, ByteVector, Union, StableContainer) embed it and add their own
// Type()/Serialize().
type Backed struct {
	backing merkle.Node
	hook    Hook
}

// Backing returns the current backing tree node.
func (b *Backed) Backing() merkle.Node { return b.backing }

// SetBacking installs a new backing node and, if a hook is bound, notifies
// the parent view so the mutation propagates to the root of the view
// chain.
func (b *Backed) SetBacking(n merkle.Node) error {
	b.backing = n
	if b.hook != nil {
		return b.hook(n)
	}
	return nil
}

// HashTreeRoot is the Merkle root of the current backing.
func (b *Backed) HashTreeRoot(h merkle.HashFn) [32]byte {
	return b.backing.MerkleRoot(h)
}

// isPacked reports whether elem is a basic type, whose values are packed
// into 32-byte chunks (one per chunk for Uint256).
func isPacked(elem Type) (BasicType, bool) {
	bt, ok := elem.(BasicType)
	return bt, ok
}

// perChunkElemDepth returns the tree depth of a uniform sequence of n
// elements of type elem: ceil(n/perChunk) leaves for packed basics, n
// leaves otherwise.
func perChunkElemDepth(elem Type, n uint64) int {
	if bt, ok := isPacked(elem); ok {
		perChunk := uint64(bt.PackedPerChunk())
		chunks := (n + perChunk - 1) / perChunk
		return merkle.GetDepth(chunks)
	}
	return merkle.GetDepth(n)
}

// getElement reads the logical i-th element out of contents, which is
// addressed as a uniform sequence of the given element type at the given
// tree depth. hook, if non-nil, is bound to the returned composite view so
// mutations call back with the new contents node for index i.
func getElement(contents merkle.Node, elem Type, treeDepth int, i uint64, hook Hook) (View, error) {
	if bt, ok := isPacked(elem); ok {
		perChunk := uint64(bt.PackedPerChunk())
		chunkIdx := i / perChunk
		g := merkle.ToGindex(chunkIdx, treeDepth)
		node, err := contents.Getter(g)
		if err != nil {
			return nil, fmt.Errorf("view: get(%d): %w", i, ErrNavigation)
		}
		leaf, ok := node.(*merkle.Leaf)
		if !ok {
			return nil, fmt.Errorf("view: get(%d): packed chunk is not a leaf: %w", i, ErrInvalidValue)
		}
		return bt.DecodeFromChunk(leaf.Value(), int(i%perChunk))
	}
	g := merkle.ToGindex(i, treeDepth)
	node, err := contents.Getter(g)
	if err != nil {
		return nil, fmt.Errorf("view: get(%d): %w", i, ErrNavigation)
	}
	return elem.ViewFromBacking(node, hook)
}

// setElement returns a new contents node with the logical i-th element
// replaced by v, coercing packed updates into a spliced chunk. v is run
// through elem.CoerceView first, except for the internal backingOnlyView
// sentinel a hook chain re-threads an already-typed child's new node
// through — that one is trusted as-is, since it never carries a literal a
// caller could have gotten wrong.
func setElement(contents merkle.Node, elem Type, treeDepth int, i uint64, v View) (merkle.Node, error) {
	if _, ok := v.(backingOnlyView); !ok {
		cv, err := elem.CoerceView(v)
		if err != nil {
			return nil, fmt.Errorf("view: set(%d): %w", i, err)
		}
		v = cv
	}
	if bt, ok := isPacked(elem); ok {
		perChunk := uint64(bt.PackedPerChunk())
		chunkIdx := i / perChunk
		g := merkle.ToGindex(chunkIdx, treeDepth)
		node, err := contents.Getter(g)
		if err != nil {
			return nil, fmt.Errorf("view: set(%d): %w", i, ErrNavigation)
		}
		leaf, ok := node.(*merkle.Leaf)
		if !ok {
			return nil, fmt.Errorf("view: set(%d): packed chunk is not a leaf: %w", i, ErrInvalidValue)
		}
		newChunk, err := bt.EncodeInto(leaf.Value(), int(i%perChunk), v)
		if err != nil {
			return nil, err
		}
		return merkle.Set(contents, g, merkle.NewLeaf(newChunk), false)
	}
	g := merkle.ToGindex(i, treeDepth)
	return merkle.Set(contents, g, v.Backing(), false)
}
