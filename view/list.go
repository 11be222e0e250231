// SPDX-License-Identifier: Apache-2.0

package view

import (
	"encoding/binary"
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// ListType is the Type for a variable-length homogeneous sequence bounded
// by limit N. Its backing is Pair(contents, length_leaf): a length mix-in
// sits at the right of the top pair, exactly as spec.md §4.I describes.
type ListType struct {
	Elem  Type
	Limit uint64
}

// NewListType constructs the Type for List[elem, limit].
func NewListType(elem Type, limit uint64) *ListType {
	return &ListType{Elem: elem, Limit: limit}
}

func (t *ListType) TypeName() string {
	return fmt.Sprintf("List[%s, %d]", t.Elem.TypeName(), t.Limit)
}

func (t *ListType) contentsDepth() int { return perChunkElemDepth(t.Elem, t.Limit) }
func (t *ListType) treeDepth() int     { return t.contentsDepth() + 1 }

func (t *ListType) IsFixedSize() bool { return false }
func (t *ListType) FixedSize() uint64 { panic("view: ListType has no fixed size") }

func (t *ListType) MinSize() uint64 { return 0 }

func (t *ListType) MaxSize() uint64 {
	if t.Elem.IsFixedSize() {
		return t.Elem.FixedSize() * t.Limit
	}
	return t.Limit * (offsetByteLength + t.Elem.MaxSize())
}

func (t *ListType) DefaultNode() merkle.Node {
	contents := merkle.FillToDepth(t.Elem.DefaultNode(), t.contentsDepth())
	return merkle.NewPair(contents, lengthLeaf(0))
}

func lengthLeaf(n uint64) merkle.Node {
	var v [32]byte
	binary.LittleEndian.PutUint64(v[:8], n)
	return merkle.NewLeaf(v)
}

func readLength(n merkle.Node) (uint64, error) {
	leaf, ok := n.(*merkle.Leaf)
	if !ok {
		return 0, fmt.Errorf("view: length mix-in is not a leaf: %w", ErrInvalidValue)
	}
	v := leaf.Value()
	return binary.LittleEndian.Uint64(v[:8]), nil
}

// CoerceView accepts a View already produced against this ListType; lists
// have no native-Go literal form, so anything else is rejected.
func (t *ListType) CoerceView(x any) (View, error) {
	if v, ok := x.(*ListView); ok && v.typ.TypeName() == t.TypeName() {
		return v, nil
	}
	return nil, fmt.Errorf("view: %s coerce %T: %w", t.TypeName(), x, ErrInvalidValue)
}

func (t *ListType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	pair, ok := n.(*merkle.Pair)
	if !ok {
		return nil, fmt.Errorf("view: %s backing is not Pair(contents, length): %w", t.TypeName(), ErrInvalidValue)
	}
	return &ListView{typ: t, Backed: Backed{backing: n, hook: hook}, contents: pair.Left()}, nil
}

func (t *ListType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope < t.MinSize() || scope > t.MaxSize() {
		return nil, fmt.Errorf("view: %s scope %d out of range: %w", t.TypeName(), scope, ErrDecode)
	}
	buf = buf[:scope]
	var count uint64
	var types []Type
	if t.Elem.IsFixedSize() {
		elemSize := t.Elem.FixedSize()
		if elemSize == 0 {
			if scope != 0 {
				return nil, fmt.Errorf("view: %s zero-size element with nonzero scope: %w", t.TypeName(), ErrDecode)
			}
			count = 0
		} else {
			if scope%elemSize != 0 {
				return nil, fmt.Errorf("view: %s scope %d not a multiple of element size %d: %w", t.TypeName(), scope, elemSize, ErrDecode)
			}
			count = scope / elemSize
		}
	} else {
		if scope == 0 {
			count = 0
		} else {
			if scope < offsetByteLength {
				return nil, fmt.Errorf("view: %s scope too small for offsets: %w", t.TypeName(), ErrDecode)
			}
			first := binary.LittleEndian.Uint32(buf[:4])
			if first%offsetByteLength != 0 {
				return nil, fmt.Errorf("view: %s first offset not a multiple of %d: %w", t.TypeName(), offsetByteLength, ErrDecode)
			}
			count = uint64(first) / offsetByteLength
		}
	}
	if count > t.Limit {
		return nil, fmt.Errorf("view: %s decoded count %d exceeds limit %d: %w", t.TypeName(), count, t.Limit, ErrDecode)
	}
	types = make([]Type, count)
	for i := range types {
		types[i] = t.Elem
	}
	elems, err := decodeSequence(buf, types)
	if err != nil {
		return nil, err
	}
	return t.fromElements(elems)
}

func (t *ListType) fromElements(elems []View) (*ListView, error) {
	if uint64(len(elems)) > t.Limit {
		return nil, fmt.Errorf("view: %s got %d elements, limit %d: %w", t.TypeName(), len(elems), t.Limit, ErrInvalidValue)
	}
	var contents merkle.Node
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
		var err error
		contents, err = merkle.FillToContentsFast(chunks, t.contentsDepth(), merkle.GoHashTree)
		if err != nil {
			return nil, err
		}
	} else {
		nodes := make([]merkle.Node, len(elems))
		for i, e := range elems {
			nodes[i] = e.Backing()
		}
		var err error
		contents, err = merkle.FillToContentsFast(nodes, t.contentsDepth(), merkle.GoHashTree)
		if err != nil {
			return nil, err
		}
	}
	root := merkle.NewPair(contents, lengthLeaf(uint64(len(elems))))
	return &ListView{typ: t, Backed: Backed{backing: root}, contents: contents}, nil
}

// ListView is the value representation of ListType.
type ListView struct {
	Backed
	typ      *ListType
	contents merkle.Node
}

// NewListView builds a List view from initial elements (length <= limit).
func NewListView(t *ListType, elems []View) (*ListView, error) {
	return t.fromElements(elems)
}

func (v *ListView) Type() Type { return v.typ }

// Len reads the length mix-in.
func (v *ListView) Len() (uint64, error) {
	pair := v.backing.(*merkle.Pair)
	return readLength(pair.Right())
}

func (v *ListView) rebind(newContents merkle.Node, newLength uint64) error {
	v.contents = newContents
	return v.SetBacking(merkle.NewPair(newContents, lengthLeaf(newLength)))
}

// Get returns the i-th element, i < Len().
func (v *ListView) Get(i uint64) (View, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	if i >= n {
		return nil, fmt.Errorf("view: %s get(%d) len %d: %w", v.typ.TypeName(), i, n, ErrIndexOutOfRange)
	}
	hook := func(newChild merkle.Node) error {
		newContents, err := setElement(v.contents, v.typ.Elem, v.typ.contentsDepth(), i, elementViewOf(newChild))
		if err != nil {
			return err
		}
		return v.rebind(newContents, n)
	}
	return getElement(v.contents, v.typ.Elem, v.typ.contentsDepth(), i, hook)
}

// Set replaces the i-th element, i < Len().
func (v *ListView) Set(i uint64, val View) error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if i >= n {
		return fmt.Errorf("view: %s set(%d) len %d: %w", v.typ.TypeName(), i, n, ErrIndexOutOfRange)
	}
	newContents, err := setElement(v.contents, v.typ.Elem, v.typ.contentsDepth(), i, val)
	if err != nil {
		return err
	}
	return v.rebind(newContents, n)
}

// Append adds val at the end, growing Len() by one. It fails with ErrFull
// once Len() == Limit.
func (v *ListView) Append(val View) error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if n >= v.typ.Limit {
		return fmt.Errorf("view: %s append at limit %d: %w", v.typ.TypeName(), v.typ.Limit, ErrFull)
	}
	val, err = v.typ.Elem.CoerceView(val)
	if err != nil {
		return err
	}
	depth := v.typ.contentsDepth()
	if bt, ok := isPacked(v.typ.Elem); ok {
		perChunk := uint64(bt.PackedPerChunk())
		chunkIdx := n / perChunk
		g := merkle.ToGindex(chunkIdx, depth)
		var chunk [32]byte
		if n%perChunk != 0 {
			node, err := v.contents.Getter(g)
			if err == nil {
				if leaf, ok := node.(*merkle.Leaf); ok {
					chunk = leaf.Value()
				}
			}
		}
		chunk, err = bt.EncodeInto(chunk, int(n%perChunk), val)
		if err != nil {
			return err
		}
		newContents, err := merkle.Set(v.contents, g, merkle.NewLeaf(chunk), true)
		if err != nil {
			return err
		}
		return v.rebind(newContents, n+1)
	}
	g := merkle.ToGindex(n, depth)
	newContents, err := merkle.Set(v.contents, g, val.Backing(), true)
	if err != nil {
		return err
	}
	return v.rebind(newContents, n+1)
}

// Pop removes the last element, shrinking Len() by one. Per spec.md §4.I,
// after zeroing the vacated slot it walks up while the freed gindex is
// left-aligned (even) and not yet at the contents root, collapsing the
// now-all-zero tail into a single Leaf so that the resulting tree is
// bit-identical to one built fresh at the smaller length.
func (v *ListView) Pop() error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("view: %s pop: %w", v.typ.TypeName(), ErrEmpty)
	}
	depth := v.typ.contentsDepth()
	last := n - 1
	var target merkle.Gindex
	var newContents merkle.Node
	if bt, ok := isPacked(v.typ.Elem); ok {
		perChunk := uint64(bt.PackedPerChunk())
		chunkIdx := last / perChunk
		target = merkle.ToGindex(chunkIdx, depth)
		node, err := v.contents.Getter(target)
		if err != nil {
			return fmt.Errorf("view: %s pop: %w", v.typ.TypeName(), ErrNavigation)
		}
		leaf, ok := node.(*merkle.Leaf)
		if !ok {
			return fmt.Errorf("view: %s pop: %w", v.typ.TypeName(), ErrInvalidValue)
		}
		chunk := leaf.Value()
		off := int(last%perChunk) * bt.ByteLength()
		for i := 0; i < bt.ByteLength(); i++ {
			chunk[off+i] = 0
		}
		// only collapse the whole chunk once every packed slot in it is
		// vacated; otherwise the chunk itself still holds live data.
		if last%perChunk != 0 {
			newContents, err = merkle.Set(v.contents, target, merkle.NewLeaf(chunk), false)
			if err != nil {
				return err
			}
			return v.rebind(newContents, last)
		}
		newContents, err = merkle.Set(v.contents, target, merkle.NewLeaf(chunk), false)
		if err != nil {
			return err
		}
	} else {
		target = merkle.ToGindex(last, depth)
		newContents, err = merkle.Set(v.contents, target, v.typ.Elem.DefaultNode(), false)
		if err != nil {
			return err
		}
	}
	g := target
	for g&1 == 0 && g != merkle.RootGindex {
		fn, err := newContents.SummarizeInto(g)
		if err != nil {
			break
		}
		newContents = fn()
		g >>= 1
	}
	return v.rebind(newContents, last)
}

func (v *ListView) Serialize(buf []byte) ([]byte, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	elems := make([]View, n)
	depth := v.typ.contentsDepth()
	for i := uint64(0); i < n; i++ {
		e, err := getElement(v.contents, v.typ.Elem, depth, i, nil)
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
