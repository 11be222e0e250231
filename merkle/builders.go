// SPDX-License-Identifier: Apache-2.0

package merkle

import "fmt"

// FillToDepth returns a perfect subtree of the given depth where every
// leaf equals bottom. Every level shares the same child reference, so the
// resulting tree uses O(depth) memory rather than O(2^depth).
func FillToDepth(bottom Node, depth int) Node {
	node := bottom
	for i := 0; i < depth; i++ {
		node = NewPair(node, node)
	}
	return node
}

// FillToLength returns a subtree of the given depth whose first length
// leaves equal bottom and whose remaining leaves are the zero leaf.
func FillToLength(bottom Node, depth int, length uint64) (Node, error) {
	capacity := uint64(1) << uint(depth)
	if length > capacity {
		return nil, fmt.Errorf("merkle: %d leaves do not fit in depth %d", length, depth)
	}
	if length == 0 {
		return ZeroNode(depth), nil
	}
	if length == capacity {
		return FillToDepth(bottom, depth), nil
	}
	if depth == 0 {
		if length == 1 {
			return bottom, nil
		}
		return nil, ErrNavigation
	}
	if depth == 1 {
		right := Node(ZeroNode(0))
		if length > 1 {
			right = bottom
		}
		return NewPair(bottom, right), nil
	}
	pivot := capacity >> 1
	if length <= pivot {
		left, err := FillToLength(bottom, depth-1, length)
		if err != nil {
			return nil, err
		}
		return NewPair(left, ZeroNode(depth-1)), nil
	}
	left := FillToDepth(bottom, depth-1)
	right, err := FillToLength(bottom, depth-1, length-pivot)
	if err != nil {
		return nil, err
	}
	return NewPair(left, right), nil
}

// FillToContents returns a subtree of the given depth whose leaf i equals
// nodes[i] for i < len(nodes), right-padded with zero leaves. It is an
// error to pass more nodes than the depth can hold.
func FillToContents(nodes []Node, depth int) (Node, error) {
	capacity := uint64(1) << uint(depth)
	if uint64(len(nodes)) > capacity {
		return nil, fmt.Errorf("merkle: %d nodes do not fit in depth %d", len(nodes), depth)
	}
	if len(nodes) == 0 {
		return ZeroNode(depth), nil
	}
	if depth == 0 {
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		return nil, ErrNavigation
	}
	if depth == 1 {
		right := Node(ZeroNode(0))
		if len(nodes) > 1 {
			right = nodes[1]
		}
		return NewPair(nodes[0], right), nil
	}
	pivot := capacity >> 1
	if uint64(len(nodes)) <= pivot {
		left, err := FillToContents(nodes, depth-1)
		if err != nil {
			return nil, err
		}
		return NewPair(left, ZeroNode(depth-1)), nil
	}
	left, err := FillToContents(nodes[:pivot], depth-1)
	if err != nil {
		return nil, err
	}
	right, err := FillToContents(nodes[pivot:], depth-1)
	if err != nil {
		return nil, err
	}
	return NewPair(left, right), nil
}

// FillToContentsFast is FillToContents for the common case of building a
// freshly-packed, fully-populated chunk layer (len(nodes) == 2^depth): it
// batch-hashes each layer with fast instead of recursing pair by pair,
// memoizing every Pair's root as it goes. Callers constructing a vector or
// list's chunk tree from scratch use this instead of FillToContents so
// gohashtree's SIMD hashing actually does the work, not just sits wired
// and unused. Partial or empty inputs fall back to FillToContents, since
// batching only pays off once a whole layer of real (non-zero-padded)
// leaves is being hashed.
func FillToContentsFast(nodes []Node, depth int, fast FastHasher) (Node, error) {
	capacity := uint64(1) << uint(depth)
	if fast == nil || depth == 0 || uint64(len(nodes)) != capacity {
		return FillToContents(nodes, depth)
	}
	layer := make([]Node, len(nodes))
	copy(layer, nodes)
	roots := make([][32]byte, len(layer))
	for i, n := range layer {
		roots[i] = n.MerkleRoot(DefaultHashFn)
	}
	for len(layer) > 1 {
		parents, err := HashLayer(fast, roots)
		if err != nil {
			return nil, err
		}
		next := make([]Node, len(layer)/2)
		for i := range next {
			p := NewPair(layer[2*i], layer[2*i+1])
			p.primeRoot(parents[i])
			next[i] = p
		}
		layer, roots = next, parents
	}
	return layer[0], nil
}
