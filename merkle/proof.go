// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"fmt"
	"sort"
)

// Proof is a single-leaf Merkle proof: the claimed leaf value at Index,
// plus the ordered sibling hashes needed to recompute the root.
type Proof struct {
	Index  Gindex
	Leaf   [32]byte
	Hashes [][32]byte
}

// Prove builds a single-leaf proof for gindex target against the tree
// rooted at n.
func Prove(n Node, h HashFn, target Gindex) (*Proof, error) {
	path, err := siblingPath(n, target)
	if err != nil {
		return nil, err
	}
	leafNode, err := n.Getter(target)
	if err != nil {
		return nil, err
	}
	hashes := make([][32]byte, len(path))
	for i, s := range path {
		hashes[len(path)-1-i] = s.MerkleRoot(h)
	}
	return &Proof{Index: target, Leaf: leafNode.MerkleRoot(h), Hashes: hashes}, nil
}

// siblingPath returns, root-to-leaf, the sibling subtree at each level of
// the descent to target.
func siblingPath(n Node, target Gindex) ([]Node, error) {
	if target < RootGindex {
		return nil, ErrNavigation
	}
	var siblings []Node
	cur := n
	g := target
	for g != RootGindex {
		pair, ok := cur.(*Pair)
		if !ok {
			return nil, ErrNavigation
		}
		anchor := g.anchor()
		pivot := anchor >> 1
		nextGindex := g ^ anchor | pivot
		if g < (g | pivot) {
			siblings = append(siblings, pair.right)
			cur = pair.left
		} else {
			siblings = append(siblings, pair.left)
			cur = pair.right
		}
		g = nextGindex
	}
	return siblings, nil
}

// Verify recomputes the root implied by a proof and compares it to root.
func Verify(root [32]byte, h HashFn, p *Proof) bool {
	computed := p.Leaf
	g := p.Index
	for _, sibling := range p.Hashes {
		if g&1 == 0 {
			computed = h(computed, sibling)
		} else {
			computed = h(sibling, computed)
		}
		g >>= 1
	}
	return computed == root && g == RootGindex
}

// requiredIndices returns the minimal, root-to-leaf-ordered set of
// generalized indices whose Merkle roots are needed to verify every
// gindex in indices, excluding the indices themselves and their ancestors
// that are already implied.
func requiredIndices(indices []Gindex) []Gindex {
	set := map[Gindex]bool{}
	for _, idx := range indices {
		set[idx] = true
	}
	frontier := append([]Gindex{}, indices...)
	required := map[Gindex]bool{}
	for len(frontier) > 0 {
		next := map[Gindex]bool{}
		for _, g := range frontier {
			if g == RootGindex {
				continue
			}
			sibling := g ^ 1
			parent := g >> 1
			if !set[sibling] {
				required[sibling] = true
			}
			if !set[parent] {
				next[parent] = true
			}
			set[parent] = true
		}
		frontier = frontier[:0]
		for g := range next {
			frontier = append(frontier, g)
		}
	}
	out := make([]Gindex, 0, len(required))
	for g := range required {
		// a sibling that turned out to be an ancestor of another index is
		// computed during verification, not supplied.
		if !set[g] {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Multiproof is an efficient Merkle proof for several leaves that share
// intermediate hashes.
type Multiproof struct {
	Indices []Gindex
	Leaves  [][32]byte
	Hashes  [][32]byte
}

// ProveMulti builds a multiproof for the given generalized indices against
// the tree rooted at n.
func ProveMulti(n Node, h HashFn, indices []Gindex) (*Multiproof, error) {
	req := requiredIndices(indices)
	mp := &Multiproof{
		Indices: indices,
		Leaves:  make([][32]byte, len(indices)),
		Hashes:  make([][32]byte, len(req)),
	}
	for i, g := range indices {
		node, err := n.Getter(g)
		if err != nil {
			return nil, fmt.Errorf("merkle: proving index %d: %w", g, err)
		}
		mp.Leaves[i] = node.MerkleRoot(h)
	}
	for i, g := range req {
		node, err := n.Getter(g)
		if err != nil {
			return nil, fmt.Errorf("merkle: proving required index %d: %w", g, err)
		}
		mp.Hashes[i] = node.MerkleRoot(h)
	}
	return mp, nil
}

// VerifyMultiproof recomputes the root implied by mp's leaves and
// auxiliary hashes and compares it to root. leaves and indices must share
// the ordering they had when mp was produced (Leaves[i] is the value at
// Indices[i]); Hashes are matched back up against the same requiredIndices
// set ProveMulti derived, so no ordering convention is imposed on Hashes
// itself beyond "same order as requiredIndices(mp.Indices)".
func VerifyMultiproof(root [32]byte, h HashFn, mp *Multiproof) (bool, error) {
	if len(mp.Indices) == 0 {
		return false, fmt.Errorf("merkle: verify multiproof: no indices")
	}
	if len(mp.Leaves) != len(mp.Indices) {
		return false, fmt.Errorf("merkle: verify multiproof: %d leaves, %d indices", len(mp.Leaves), len(mp.Indices))
	}
	req := requiredIndices(mp.Indices)
	if len(req) != len(mp.Hashes) {
		return false, fmt.Errorf("merkle: verify multiproof: %d hashes, %d required indices", len(mp.Hashes), len(req))
	}

	db := make(map[Gindex][32]byte, len(mp.Indices)+len(req))
	known := make([]Gindex, 0, len(mp.Indices)+len(req))
	for i, g := range mp.Indices {
		db[g] = mp.Leaves[i]
		known = append(known, g)
	}
	for i, g := range req {
		db[g] = mp.Hashes[i]
		known = append(known, g)
	}

	sort.Slice(known, func(i, j int) bool { return known[i] > known[j] })

	var aux []Gindex
	pos, posAux := 0, 0
	for posAux < len(aux) || pos < len(known) {
		var g Gindex
		switch {
		case posAux >= len(aux):
			g = known[pos]
			pos++
		case pos >= len(known):
			g = aux[posAux]
			posAux++
		case aux[posAux] < known[pos]:
			g = known[pos]
			pos++
		default:
			g = aux[posAux]
			posAux++
		}
		if g == RootGindex {
			break
		}
		parent := g >> 1
		if _, ok := db[parent]; ok {
			continue
		}
		left, hasLeft := db[parent<<1]
		right, hasRight := db[parent<<1|1]
		if !hasLeft || !hasRight {
			return false, fmt.Errorf("merkle: verify multiproof: missing node %d or %d", parent<<1, parent<<1|1)
		}
		db[parent] = h(left, right)
		aux = append(aux, parent)
	}

	computed, ok := db[RootGindex]
	if !ok {
		return false, fmt.Errorf("merkle: verify multiproof: root not reached")
	}
	return computed == root, nil
}
