// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"errors"
	"math/bits"
)

// ErrNavigation is returned when a gindex is out of range, or navigation
// would have to descend into a Leaf at a gindex other than the root.
var ErrNavigation = errors.New("merkle: generalized index navigation error")

// Gindex is a 1-based integer addressing a position in a complete binary
// tree: the root is 1, the left child of g is 2g, the right child is 2g+1.
type Gindex uint64

// RootGindex, LeftGindex and RightGindex name the three gindices small
// enough to be handled without the general navigation algorithm.
const (
	RootGindex  Gindex = 1
	LeftGindex  Gindex = 2
	RightGindex Gindex = 3
)

// ToGindex computes the generalized index of the i-th node (0-based) at
// the given depth below an anchor. It panics if i does not fit in depth
// bits, mirroring the source's validating constructor.
func ToGindex(i uint64, depth int) Gindex {
	anchor := uint64(1) << uint(depth)
	if i >= anchor {
		panic("merkle: index too large for depth")
	}
	return Gindex(anchor | i)
}

// Depth returns the bit-length-derived depth of a gindex: depth(1) = 0,
// depth(2) = depth(3) = 1, depth(4..7) = 2, and so on.
func (g Gindex) Depth() int {
	if g <= 1 {
		return 0
	}
	return bits.Len64(uint64(g)) - 1
}

// anchor returns the highest set bit of g as a standalone power of two.
func (g Gindex) anchor() Gindex {
	return Gindex(1) << uint(bits.Len64(uint64(g))-1)
}

// GetDepth implements the element-count-to-depth helper used throughout
// the view layer: GetDepth(0) = GetDepth(1) = 0, GetDepth(2) = 1,
// GetDepth(3) = GetDepth(4) = 2, GetDepth(5..8) = 3, ...
func GetDepth(elemCount uint64) int {
	if elemCount <= 1 {
		return 0
	}
	return bits.Len64(elemCount - 1)
}

// Node is the immutable substrate of a Merkle tree. It has exactly two
// concrete implementations: Leaf (a 32-byte root with no children) and Pair
// (two child references with a lazily memoized root).
//
// Node objects are logically immutable: every mutating operation returns a
// new Node and reuses unchanged sibling structure rather than modifying an
// existing one in place.
type Node interface {
	// Getter navigates to the node rooted at gindex g.
	Getter(g Gindex) (Node, error)
	// Setter returns a function that, given a replacement node for gindex
	// g, produces a new root node with that replacement installed and all
	// other structure shared with the receiver. If expand is true, a Leaf
	// encountered partway down the path is treated as the root of an
	// all-zero subtree of the required depth rather than failing.
	Setter(g Gindex, expand bool) (func(Node) Node, error)
	// SummarizeInto returns a function that, when called, replaces the
	// subtree at gindex g with a single Leaf holding that subtree's
	// current Merkle root.
	SummarizeInto(g Gindex) (func() Node, error)
	// MerkleRoot computes (and, for Pair, memoizes) the 32-byte Merkle
	// root of the subtree rooted at this node.
	MerkleRoot(h HashFn) [32]byte
}

// Leaf is a Node holding 32 bytes of data and no children.
type Leaf struct {
	value [32]byte
}

// NewLeaf wraps a 32-byte value as a Leaf node.
func NewLeaf(value [32]byte) *Leaf {
	return &Leaf{value: value}
}

// ZeroNode returns the interned all-zero subtree of the given depth: a
// Leaf of the all-zero root when depth is 0, a Leaf carrying the
// precomputed zero-hash root of that depth otherwise. Callers that need
// the literal zero Leaf (depth 0) can rely on every call returning an
// equal (by value) node, satisfying the interning requirement without a
// shared pointer — Leaf equality is defined by its bytes, not its address.
func ZeroNode(depth int) Node {
	return &Leaf{value: ZeroHash(depth)}
}

// Value returns the raw 32 bytes stored in the leaf.
func (l *Leaf) Value() [32]byte { return l.value }

func (l *Leaf) Getter(g Gindex) (Node, error) {
	if g != RootGindex {
		return nil, ErrNavigation
	}
	return l, nil
}

func (l *Leaf) Setter(g Gindex, expand bool) (func(Node) Node, error) {
	if g < RootGindex {
		return nil, ErrNavigation
	}
	if g == RootGindex {
		return func(v Node) Node { return v }, nil
	}
	if !expand {
		return nil, ErrNavigation
	}
	depth := g.Depth()
	child := FillToDepth(ZeroNode(0), depth-1)
	expanded := NewPair(child, child)
	return expanded.Setter(g, true)
}

func (l *Leaf) SummarizeInto(g Gindex) (func() Node, error) {
	if g != RootGindex {
		return nil, ErrNavigation
	}
	return func() Node { return l }, nil
}

func (l *Leaf) MerkleRoot(h HashFn) [32]byte { return l.value }

// Pair is a branch Node holding two child references and a lazily
// memoized root. Once memoized, the root is never recomputed — per
// spec it must equal h(left.root, right.root) and is safe to race on
// since both writers would compute the same value.
type Pair struct {
	left, right Node
	root        *[32]byte
}

// NewPair constructs a branch node over the two given children.
func NewPair(left, right Node) *Pair {
	return &Pair{left: left, right: right}
}

func (p *Pair) Left() Node  { return p.left }
func (p *Pair) Right() Node { return p.right }

func (p *Pair) rebindLeft(v Node) Node  { return NewPair(v, p.right) }
func (p *Pair) rebindRight(v Node) Node { return NewPair(p.left, v) }

func (p *Pair) Getter(g Gindex) (Node, error) {
	switch {
	case g < RootGindex:
		return nil, ErrNavigation
	case g == RootGindex:
		return p, nil
	case g == LeftGindex:
		return p.left, nil
	case g == RightGindex:
		return p.right, nil
	}
	anchor := g.anchor()
	pivot := anchor >> 1
	if g < (g | pivot) {
		return p.left.Getter(g ^ anchor | pivot)
	}
	return p.right.Getter(g ^ anchor | pivot)
}

func (p *Pair) Setter(g Gindex, expand bool) (func(Node) Node, error) {
	switch {
	case g < RootGindex:
		return nil, ErrNavigation
	case g == RootGindex:
		return func(v Node) Node { return v }, nil
	case g == LeftGindex:
		return p.rebindLeft, nil
	case g == RightGindex:
		return p.rebindRight, nil
	}
	anchor := g.anchor()
	pivot := anchor >> 1
	if g < (g | pivot) {
		inner, err := p.left.Setter(g^anchor|pivot, expand)
		if err != nil {
			return nil, err
		}
		return func(v Node) Node { return p.rebindLeft(inner(v)) }, nil
	}
	inner, err := p.right.Setter(g^anchor|pivot, expand)
	if err != nil {
		return nil, err
	}
	return func(v Node) Node { return p.rebindRight(inner(v)) }, nil
}

func (p *Pair) SummarizeInto(g Gindex) (func() Node, error) {
	setter, err := p.Setter(g, false)
	if err != nil {
		return nil, err
	}
	getter, err := p.Getter(g)
	if err != nil {
		return nil, err
	}
	return func() Node {
		return setter(NewLeaf(getter.MerkleRoot(DefaultHashFn)))
	}, nil
}

func (p *Pair) MerkleRoot(h HashFn) [32]byte {
	if p.root != nil {
		return *p.root
	}
	root := h(p.left.MerkleRoot(h), p.right.MerkleRoot(h))
	p.root = &root
	return root
}

// primeRoot installs a precomputed root, so a later MerkleRoot call
// returns it without rehashing. Used by FillToContentsFast once a batched
// FastHasher call has already produced this pair's hash.
func (p *Pair) primeRoot(root [32]byte) {
	p.root = &root
}

// Get is a convenience wrapper around Node.Getter that callers can use
// without first checking which concrete type they hold.
func Get(n Node, g Gindex) (Node, error) {
	return n.Getter(g)
}

// Set replaces the subtree at gindex g of n with replacement, returning
// the new root. expand allows descending through Leaf nodes by treating
// them as zero-filled subtrees.
func Set(n Node, g Gindex, replacement Node, expand bool) (Node, error) {
	setter, err := n.Setter(g, expand)
	if err != nil {
		return nil, err
	}
	return setter(replacement), nil
}
