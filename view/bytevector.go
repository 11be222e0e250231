// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// ByteVectorType is the Type for a fixed-length immutable byte string.
// N <= 32 backs directly onto a single zero-padded Leaf; larger N chunks
// the bytes and builds a tree via FillToContents.
type ByteVectorType struct {
	N uint64
}

// NewByteVectorType constructs the Type for ByteVector[n].
func NewByteVectorType(n uint64) *ByteVectorType { return &ByteVectorType{N: n} }

func (t *ByteVectorType) TypeName() string  { return fmt.Sprintf("ByteVector[%d]", t.N) }
func (t *ByteVectorType) IsFixedSize() bool { return true }
func (t *ByteVectorType) FixedSize() uint64 { return t.N }
func (t *ByteVectorType) MinSize() uint64   { return t.N }
func (t *ByteVectorType) MaxSize() uint64   { return t.N }

func (t *ByteVectorType) treeDepth() int { return merkle.GetDepth((t.N + 31) / 32) }

func (t *ByteVectorType) DefaultNode() merkle.Node {
	if t.N <= 32 {
		return merkle.NewLeaf([32]byte{})
	}
	return merkle.FillToDepth(merkle.ZeroNode(0), t.treeDepth())
}

// CoerceView accepts a ByteVectorView already of this type or a raw byte
// slice of exactly N bytes.
func (t *ByteVectorType) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case *ByteVectorView:
		if v.typ.TypeName() != t.TypeName() {
			return nil, fmt.Errorf("view: %s coerce: wrong byte vector type: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case []byte:
		return t.fromBytes(v)
	default:
		return nil, fmt.Errorf("view: %s coerce %T: %w", t.TypeName(), x, ErrInvalidValue)
	}
}

func (t *ByteVectorType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	return &ByteVectorView{typ: t, Backed: Backed{backing: n, hook: hook}}, nil
}

func (t *ByteVectorType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope != t.N || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: %s scope %d: %w", t.TypeName(), scope, ErrDecode)
	}
	return t.fromBytes(buf[:scope])
}

func (t *ByteVectorType) fromBytes(raw []byte) (*ByteVectorView, error) {
	if uint64(len(raw)) != t.N {
		return nil, fmt.Errorf("view: %s wrong length %d: %w", t.TypeName(), len(raw), ErrInvalidValue)
	}
	if t.N <= 32 {
		var chunk [32]byte
		copy(chunk[:], raw)
		return &ByteVectorView{typ: t, Backed: Backed{backing: merkle.NewLeaf(chunk)}, value: append([]byte(nil), raw...)}, nil
	}
	nChunks := int((t.N + 31) / 32)
	chunks := make([]merkle.Node, nChunks)
	for c := 0; c < nChunks; c++ {
		var chunk [32]byte
		start := c * 32
		end := start + 32
		if end > len(raw) {
			end = len(raw)
		}
		copy(chunk[:], raw[start:end])
		chunks[c] = merkle.NewLeaf(chunk)
	}
	root, err := merkle.FillToContentsFast(chunks, t.treeDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	return &ByteVectorView{typ: t, Backed: Backed{backing: root}, value: append([]byte(nil), raw...)}, nil
}

// ByteVectorView is the value representation of ByteVectorType.
type ByteVectorView struct {
	Backed
	typ   *ByteVectorType
	value []byte
}

func (v *ByteVectorView) Type() Type { return v.typ }

// Bytes returns the logical N-byte value.
func (v *ByteVectorView) Bytes() []byte {
	if v.value != nil {
		return append([]byte(nil), v.value...)
	}
	out := make([]byte, v.typ.N)
	nChunks := int((v.typ.N + 31) / 32)
	for c := 0; c < nChunks; c++ {
		g := merkle.ToGindex(uint64(c), v.typ.treeDepth())
		node, err := v.backing.Getter(g)
		if err != nil {
			continue
		}
		leaf, ok := node.(*merkle.Leaf)
		if !ok {
			continue
		}
		val := leaf.Value()
		start := c * 32
		end := start + 32
		if end > len(out) {
			end = len(out)
		}
		copy(out[start:end], val[:end-start])
	}
	return out
}

func (v *ByteVectorView) Serialize(buf []byte) ([]byte, error) {
	return append(buf, v.Bytes()...), nil
}
