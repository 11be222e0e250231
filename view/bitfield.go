// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// bitChunkDepth and bit addressing: bit i lives in chunk i>>8, byte
// (i&0xff)>>3, bit i&7 of that byte, least-significant-bit first.

func bitChunkIndex(i uint64) uint64 { return i >> 8 }
func bitByteOffset(i uint64) int    { return int((i & 0xff) >> 3) }
func bitMask(i uint64) byte         { return 1 << uint(i&7) }

// BitvectorType is the Type for a fixed-length bitfield.
type BitvectorType struct {
	N uint64
}

// NewBitvectorType constructs the Type for Bitvector[n].
func NewBitvectorType(n uint64) *BitvectorType { return &BitvectorType{N: n} }

func (t *BitvectorType) TypeName() string  { return fmt.Sprintf("Bitvector[%d]", t.N) }
func (t *BitvectorType) treeDepth() int    { return merkle.GetDepth((t.N + 255) / 256) }
func (t *BitvectorType) IsFixedSize() bool { return true }
func (t *BitvectorType) byteLen() uint64   { return (t.N + 7) / 8 }
func (t *BitvectorType) FixedSize() uint64 { return t.byteLen() }
func (t *BitvectorType) MinSize() uint64   { return t.byteLen() }
func (t *BitvectorType) MaxSize() uint64   { return t.byteLen() }

func (t *BitvectorType) DefaultNode() merkle.Node {
	return merkle.FillToDepth(merkle.ZeroNode(0), t.treeDepth())
}

// CoerceView accepts a BitvectorView of this type or a raw byte slice of
// exactly byteLen() bytes.
func (t *BitvectorType) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case *BitvectorView:
		if v.typ.TypeName() != t.TypeName() {
			return nil, fmt.Errorf("view: %s coerce: wrong bitvector type: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case []byte:
		want := t.byteLen()
		if uint64(len(v)) != want {
			return nil, fmt.Errorf("view: %s coerce: %d bytes, want %d: %w", t.TypeName(), len(v), want, ErrInvalidValue)
		}
		return t.fromBytes(v)
	default:
		return nil, fmt.Errorf("view: %s coerce %T: %w", t.TypeName(), x, ErrInvalidValue)
	}
}

func (t *BitvectorType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	return &BitvectorView{typ: t, Backed: Backed{backing: n, hook: hook}}, nil
}

func (t *BitvectorType) Deserialize(buf []byte, scope uint64) (View, error) {
	want := t.byteLen()
	if scope != want || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: %s scope %d, want %d: %w", t.TypeName(), scope, want, ErrDecode)
	}
	raw := buf[:scope]
	// trailing bits beyond N within the final byte must be zero.
	if t.N%8 != 0 {
		lastByte := raw[len(raw)-1]
		if lastByte&^((1<<uint(t.N%8))-1) != 0 {
			return nil, fmt.Errorf("view: %s trailing bits set: %w", t.TypeName(), ErrDecode)
		}
	}
	return t.fromBytes(raw)
}

func (t *BitvectorType) fromBytes(raw []byte) (*BitvectorView, error) {
	nChunks := int((t.N + 255) / 256)
	if nChunks == 0 {
		nChunks = 1
	}
	chunks := make([]merkle.Node, nChunks)
	for c := 0; c < nChunks; c++ {
		var chunk [32]byte
		start := c * 32
		end := start + 32
		if end > len(raw) {
			end = len(raw)
		}
		if start < len(raw) {
			copy(chunk[:], raw[start:end])
		}
		chunks[c] = merkle.NewLeaf(chunk)
	}
	root, err := merkle.FillToContentsFast(chunks, t.treeDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	return &BitvectorView{typ: t, Backed: Backed{backing: root}}, nil
}

// BitvectorView is the value representation of BitvectorType.
type BitvectorView struct {
	Backed
	typ *BitvectorType
}

func (v *BitvectorView) Type() Type { return v.typ }
func (v *BitvectorView) Len() uint64 { return v.typ.N }

func (v *BitvectorView) Get(i uint64) (bool, error) {
	if i >= v.typ.N {
		return false, fmt.Errorf("view: %s get(%d): %w", v.typ.TypeName(), i, ErrIndexOutOfRange)
	}
	g := merkle.ToGindex(bitChunkIndex(i), v.typ.treeDepth())
	node, err := v.backing.Getter(g)
	if err != nil {
		return false, fmt.Errorf("view: %s get(%d): %w", v.typ.TypeName(), i, ErrNavigation)
	}
	leaf, ok := node.(*merkle.Leaf)
	if !ok {
		return false, fmt.Errorf("view: %s get(%d): %w", v.typ.TypeName(), i, ErrInvalidValue)
	}
	val := leaf.Value()
	return val[bitByteOffset(i)]&bitMask(i) != 0, nil
}

func (v *BitvectorView) Set(i uint64, bit bool) error {
	if i >= v.typ.N {
		return fmt.Errorf("view: %s set(%d): %w", v.typ.TypeName(), i, ErrIndexOutOfRange)
	}
	g := merkle.ToGindex(bitChunkIndex(i), v.typ.treeDepth())
	node, err := v.backing.Getter(g)
	if err != nil {
		return fmt.Errorf("view: %s set(%d): %w", v.typ.TypeName(), i, ErrNavigation)
	}
	leaf, ok := node.(*merkle.Leaf)
	if !ok {
		return fmt.Errorf("view: %s set(%d): %w", v.typ.TypeName(), i, ErrInvalidValue)
	}
	val := leaf.Value()
	if bit {
		val[bitByteOffset(i)] |= bitMask(i)
	} else {
		val[bitByteOffset(i)] &^= bitMask(i)
	}
	newRoot, err := merkle.Set(v.backing, g, merkle.NewLeaf(val), false)
	if err != nil {
		return err
	}
	return v.SetBacking(newRoot)
}

func (v *BitvectorView) Serialize(buf []byte) ([]byte, error) {
	out := make([]byte, v.typ.byteLen())
	for i := uint64(0); i < v.typ.N; i++ {
		bit, err := v.Get(i)
		if err != nil {
			return nil, err
		}
		if bit {
			out[bitByteOffset(i)] |= bitMask(i)
		}
	}
	return append(buf, out...), nil
}

// BitlistType is the Type for a variable-length bitfield bounded by Limit,
// serialized with a trailing delimiting bit per spec.md §4.J/§6.
type BitlistType struct {
	Limit uint64
}

// NewBitlistType constructs the Type for Bitlist[limit].
func NewBitlistType(limit uint64) *BitlistType { return &BitlistType{Limit: limit} }

func (t *BitlistType) TypeName() string { return fmt.Sprintf("Bitlist[%d]", t.Limit) }
func (t *BitlistType) contentsDepth() int { return merkle.GetDepth((t.Limit + 255) / 256) }
func (t *BitlistType) treeDepth() int     { return t.contentsDepth() + 1 }
func (t *BitlistType) IsFixedSize() bool  { return false }
func (t *BitlistType) FixedSize() uint64  { panic("view: BitlistType has no fixed size") }
func (t *BitlistType) MinSize() uint64    { return 1 }
func (t *BitlistType) MaxSize() uint64    { return (t.Limit / 8) + 1 }

func (t *BitlistType) DefaultNode() merkle.Node {
	contents := merkle.FillToDepth(merkle.ZeroNode(0), t.contentsDepth())
	return merkle.NewPair(contents, lengthLeaf(0))
}

// CoerceView accepts a BitlistView of this type or a raw []bool of bits,
// at most Limit long.
func (t *BitlistType) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case *BitlistView:
		if v.typ.TypeName() != t.TypeName() {
			return nil, fmt.Errorf("view: %s coerce: wrong bitlist type: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case []bool:
		return t.fromBits(v)
	default:
		return nil, fmt.Errorf("view: %s coerce %T: %w", t.TypeName(), x, ErrInvalidValue)
	}
}

func (t *BitlistType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	pair, ok := n.(*merkle.Pair)
	if !ok {
		return nil, fmt.Errorf("view: %s backing is not Pair(contents, length): %w", t.TypeName(), ErrInvalidValue)
	}
	return &BitlistView{typ: t, Backed: Backed{backing: n, hook: hook}, contents: pair.Left()}, nil
}

// Deserialize implements the delimiting-bit convention: the last byte of
// buf is non-zero, and its highest set bit marks the logical length.
func (t *BitlistType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope < 1 || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: %s scope %d: %w", t.TypeName(), scope, ErrDecode)
	}
	raw := buf[:scope]
	last := raw[len(raw)-1]
	if last == 0 {
		return nil, fmt.Errorf("view: %s missing delimiting bit: %w", t.TypeName(), ErrDecode)
	}
	length := 8*(scope-1) + uint64(bitLength(last)) - 1
	if length > t.Limit {
		return nil, fmt.Errorf("view: %s length %d exceeds limit %d: %w", t.TypeName(), length, t.Limit, ErrDecode)
	}
	bits := make([]bool, length)
	for i := uint64(0); i < length; i++ {
		byteIdx := i >> 3
		bits[i] = raw[byteIdx]&(1<<uint(i&7)) != 0
	}
	return t.fromBits(bits)
}

func bitLength(b byte) int {
	n := 0
	for b != 0 {
		n++
		b >>= 1
	}
	return n
}

func (t *BitlistType) fromBits(bits []bool) (*BitlistView, error) {
	if uint64(len(bits)) > t.Limit {
		return nil, fmt.Errorf("view: %s got %d bits, limit %d: %w", t.TypeName(), len(bits), t.Limit, ErrInvalidValue)
	}
	nChunks := int((uint64(len(bits)) + 255) / 256)
	if nChunks == 0 {
		nChunks = 1
	}
	chunks := make([]merkle.Node, nChunks)
	for i, bit := range bits {
		if !bit {
			continue
		}
		c := i / 256
		if chunks[c] == nil {
			chunks[c] = merkle.NewLeaf([32]byte{})
		}
	}
	leafBytes := make([][32]byte, nChunks)
	for i, bit := range bits {
		if bit {
			c := i / 256
			off := (i % 256) / 8
			leafBytes[c][off] |= 1 << uint(i%8)
		}
	}
	for c := range chunks {
		chunks[c] = merkle.NewLeaf(leafBytes[c])
	}
	contents, err := merkle.FillToContentsFast(chunks, t.contentsDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	root := merkle.NewPair(contents, lengthLeaf(uint64(len(bits))))
	return &BitlistView{typ: t, Backed: Backed{backing: root}, contents: contents}, nil
}

// BitlistView is the value representation of BitlistType.
type BitlistView struct {
	Backed
	typ      *BitlistType
	contents merkle.Node
}

func (v *BitlistView) Type() Type { return v.typ }

func (v *BitlistView) Len() (uint64, error) {
	pair := v.backing.(*merkle.Pair)
	return readLength(pair.Right())
}

func (v *BitlistView) rebind(newContents merkle.Node, newLength uint64) error {
	v.contents = newContents
	return v.SetBacking(merkle.NewPair(newContents, lengthLeaf(newLength)))
}

func (v *BitlistView) bitGindex(i uint64) merkle.Gindex {
	return merkle.ToGindex(bitChunkIndex(i), v.typ.contentsDepth())
}

func (v *BitlistView) Get(i uint64) (bool, error) {
	n, err := v.Len()
	if err != nil {
		return false, err
	}
	if i >= n {
		return false, fmt.Errorf("view: %s get(%d) len %d: %w", v.typ.TypeName(), i, n, ErrIndexOutOfRange)
	}
	node, err := v.contents.Getter(v.bitGindex(i))
	if err != nil {
		return false, fmt.Errorf("view: %s get(%d): %w", v.typ.TypeName(), i, ErrNavigation)
	}
	leaf, ok := node.(*merkle.Leaf)
	if !ok {
		return false, fmt.Errorf("view: %s get(%d): %w", v.typ.TypeName(), i, ErrInvalidValue)
	}
	val := leaf.Value()
	return val[bitByteOffset(i)]&bitMask(i) != 0, nil
}

func (v *BitlistView) setBit(i uint64, bit bool) (merkle.Node, error) {
	g := v.bitGindex(i)
	node, err := v.contents.Getter(g)
	if err != nil {
		return nil, fmt.Errorf("view: %s bit(%d): %w", v.typ.TypeName(), i, ErrNavigation)
	}
	leaf, ok := node.(*merkle.Leaf)
	if !ok {
		return nil, fmt.Errorf("view: %s bit(%d): %w", v.typ.TypeName(), i, ErrInvalidValue)
	}
	val := leaf.Value()
	if bit {
		val[bitByteOffset(i)] |= bitMask(i)
	} else {
		val[bitByteOffset(i)] &^= bitMask(i)
	}
	return merkle.Set(v.contents, g, merkle.NewLeaf(val), false)
}

func (v *BitlistView) Set(i uint64, bit bool) error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if i >= n {
		return fmt.Errorf("view: %s set(%d) len %d: %w", v.typ.TypeName(), i, n, ErrIndexOutOfRange)
	}
	newContents, err := v.setBit(i, bit)
	if err != nil {
		return err
	}
	return v.rebind(newContents, n)
}

// Append adds a bit at the end, mirroring List.Append.
func (v *BitlistView) Append(bit bool) error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if n >= v.typ.Limit {
		return fmt.Errorf("view: %s append at limit %d: %w", v.typ.TypeName(), v.typ.Limit, ErrFull)
	}
	g := v.bitGindex(n)
	var chunk [32]byte
	if bitChunkIndex(n)*256 != n || n != 0 {
		if node, err := v.contents.Getter(g); err == nil {
			if leaf, ok := node.(*merkle.Leaf); ok {
				chunk = leaf.Value()
			}
		}
	}
	if bit {
		chunk[bitByteOffset(n)] |= bitMask(n)
	}
	newContents, err := merkle.Set(v.contents, g, merkle.NewLeaf(chunk), true)
	if err != nil {
		return err
	}
	return v.rebind(newContents, n+1)
}

// Pop removes the last bit, mirroring List.Pop's summarize-on-left-
// alignment rule.
func (v *BitlistView) Pop() error {
	n, err := v.Len()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("view: %s pop: %w", v.typ.TypeName(), ErrEmpty)
	}
	last := n - 1
	newContents, err := v.setBit(last, false)
	if err != nil {
		return err
	}
	// only collapse once the last chunk holds no live bits, as List.Pop does.
	if last%256 != 0 {
		return v.rebind(newContents, last)
	}
	g := v.bitGindex(last)
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

func (v *BitlistView) Serialize(buf []byte) ([]byte, error) {
	n, err := v.Len()
	if err != nil {
		return nil, err
	}
	nBytes := n/8 + 1
	out := make([]byte, nBytes)
	for i := uint64(0); i < n; i++ {
		bit, err := v.Get(i)
		if err != nil {
			return nil, err
		}
		if bit {
			out[i>>3] |= 1 << uint(i&7)
		}
	}
	out[n/8] |= 1 << uint(n%8)
	return append(buf, out...), nil
}
