// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// VectorType is the Type for a fixed-length homogeneous sequence. N is a
// runtime field rather than a Go type parameter: Go has no const generics,
// and spec.md's own design notes call for exactly this shape ("where N is
// not known statically ... use a runtime schema object implementing the
// same trait"); applying it uniformly, rather than only for the dynamic
// case, keeps one code path for both.
type VectorType struct {
	Elem Type
	N    uint64
}

// NewVectorType constructs the Type for Vector[elem, n].
func NewVectorType(elem Type, n uint64) *VectorType {
	return &VectorType{Elem: elem, N: n}
}

func (t *VectorType) TypeName() string {
	return fmt.Sprintf("Vector[%s, %d]", t.Elem.TypeName(), t.N)
}

func (t *VectorType) treeDepth() int { return perChunkElemDepth(t.Elem, t.N) }

func (t *VectorType) IsFixedSize() bool { return t.Elem.IsFixedSize() }

func (t *VectorType) FixedSize() uint64 {
	return t.Elem.FixedSize() * t.N
}

func (t *VectorType) MinSize() uint64 {
	if t.Elem.IsFixedSize() {
		return t.FixedSize()
	}
	return t.N * (offsetByteLength + t.Elem.MinSize())
}

func (t *VectorType) MaxSize() uint64 {
	if t.Elem.IsFixedSize() {
		return t.FixedSize()
	}
	return t.N * (offsetByteLength + t.Elem.MaxSize())
}

func (t *VectorType) DefaultNode() merkle.Node {
	return merkle.FillToDepth(t.Elem.DefaultNode(), t.treeDepth())
}

// CoerceView accepts a View already produced against this VectorType;
// vectors have no native-Go literal form, so anything else is rejected.
func (t *VectorType) CoerceView(x any) (View, error) {
	if v, ok := x.(*VectorView); ok && v.typ.TypeName() == t.TypeName() {
		return v, nil
	}
	return nil, fmt.Errorf("view: %s coerce %T: %w", t.TypeName(), x, ErrInvalidValue)
}

func (t *VectorType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	return &VectorView{typ: t, Backed: Backed{backing: n, hook: hook}}, nil
}

func (t *VectorType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope < t.MinSize() || scope > t.MaxSize() {
		return nil, fmt.Errorf("view: %s scope %d out of range: %w", t.TypeName(), scope, ErrDecode)
	}
	types := make([]Type, t.N)
	for i := range types {
		types[i] = t.Elem
	}
	elems, err := decodeSequence(buf[:scope], types)
	if err != nil {
		return nil, err
	}
	return t.fromElements(elems)
}

func (t *VectorType) fromElements(elems []View) (*VectorView, error) {
	if uint64(len(elems)) != t.N {
		return nil, fmt.Errorf("view: %s expects %d elements, got %d: %w", t.TypeName(), t.N, len(elems), ErrInvalidValue)
	}
	if bt, ok := isPacked(t.Elem); ok {
		perChunk := bt.PackedPerChunk()
		nChunks := (len(elems) + perChunk - 1) / perChunk
		chunks := make([]merkle.Node, nChunks)
		for c := 0; c < nChunks; c++ {
			var chunk [32]byte
			for j := 0; j < perChunk && c*perChunk+j < len(elems); j++ {
				var err error
				chunk, err = bt.EncodeInto(chunk, j, elems[c*perChunk+j])
				if err != nil {
					return nil, err
				}
			}
			chunks[c] = merkle.NewLeaf(chunk)
		}
		root, err := merkle.FillToContentsFast(chunks, t.treeDepth(), merkle.GoHashTree)
		if err != nil {
			return nil, err
		}
		return &VectorView{typ: t, Backed: Backed{backing: root}}, nil
	}
	nodes := make([]merkle.Node, len(elems))
	for i, e := range elems {
		nodes[i] = e.Backing()
	}
	root, err := merkle.FillToContentsFast(nodes, t.treeDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	return &VectorView{typ: t, Backed: Backed{backing: root}}, nil
}

// VectorView is the value representation of VectorType.
type VectorView struct {
	Backed
	typ *VectorType
}

// NewVectorView builds a Vector view from exactly N element views.
func NewVectorView(t *VectorType, elems []View) (*VectorView, error) {
	return t.fromElements(elems)
}

func (v *VectorView) Type() Type { return v.typ }

func (v *VectorView) Len() uint64 { return v.typ.N }

// Get returns the i-th element (0-based), with a hook bound so that
// mutating it propagates back through this vector's backing.
func (v *VectorView) Get(i uint64) (View, error) {
	if i >= v.typ.N {
		return nil, fmt.Errorf("view: %s get(%d): %w", v.typ.TypeName(), i, ErrIndexOutOfRange)
	}
	hook := func(newChild merkle.Node) error {
		newRoot, err := setElement(v.backing, v.typ.Elem, v.typ.treeDepth(), i, elementViewOf(newChild))
		if err != nil {
			return err
		}
		return v.SetBacking(newRoot)
	}
	return getElement(v.backing, v.typ.Elem, v.typ.treeDepth(), i, hook)
}

// Set replaces the i-th element with val.
func (v *VectorView) Set(i uint64, val View) error {
	if i >= v.typ.N {
		return fmt.Errorf("view: %s set(%d): %w", v.typ.TypeName(), i, ErrIndexOutOfRange)
	}
	newRoot, err := setElement(v.backing, v.typ.Elem, v.typ.treeDepth(), i, val)
	if err != nil {
		return err
	}
	return v.SetBacking(newRoot)
}

func (v *VectorView) Serialize(buf []byte) ([]byte, error) {
	elems := make([]View, v.typ.N)
	for i := uint64(0); i < v.typ.N; i++ {
		e, err := getElement(v.backing, v.typ.Elem, v.typ.treeDepth(), i, nil)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	b, err := encodeSequence(elems)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

// elementViewOf wraps a raw backing node as an opaque View whose only used
// method is Backing(), for the narrow case of re-threading a composite
// child's new node back through setElement without re-decoding it. It
// never supports being mutated further itself; it exists only as an
// adapter between the hook's merkle.Node and setElement's View parameter.
type backingOnlyView struct{ n merkle.Node }

func (b backingOnlyView) Type() Type                              { return nil }
func (b backingOnlyView) Backing() merkle.Node                    { return b.n }
func (b backingOnlyView) HashTreeRoot(h merkle.HashFn) [32]byte    { return b.n.MerkleRoot(h) }
func (b backingOnlyView) Serialize(buf []byte) ([]byte, error)     { return buf, fmt.Errorf("view: %w", ErrUnsupported) }

func elementViewOf(n merkle.Node) View { return backingOnlyView{n: n} }
