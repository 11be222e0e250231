// SPDX-License-Identifier: Apache-2.0

package view

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/go-ssz/view/merkle"
	"github.com/holiman/uint256"
)

// booleanType is the Type for the single-byte boolean basic view.
type booleanType struct{}

// BooleanType is the sole instance of the boolean SSZ type.
var BooleanType Type = booleanType{}

func (booleanType) TypeName() string      { return "boolean" }
func (booleanType) IsFixedSize() bool     { return true }
func (booleanType) FixedSize() uint64     { return 1 }
func (booleanType) MinSize() uint64       { return 1 }
func (booleanType) MaxSize() uint64       { return 1 }
func (booleanType) ByteLength() int       { return 1 }
func (booleanType) PackedPerChunk() int   { return 32 }
func (booleanType) DefaultNode() merkle.Node {
	return merkle.NewLeaf([32]byte{})
}

// CoerceView accepts a BooleanView or a plain bool.
func (t booleanType) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case BooleanView:
		return v, nil
	case bool:
		return BooleanView(v), nil
	default:
		return nil, fmt.Errorf("view: boolean coerce %T: %w", x, ErrInvalidValue)
	}
}

func (t booleanType) ViewFromBacking(n merkle.Node, _ Hook) (View, error) {
	leaf, ok := n.(*merkle.Leaf)
	if !ok {
		return nil, fmt.Errorf("view: boolean backing: %w", ErrInvalidValue)
	}
	v := leaf.Value()
	return decodeBooleanByte(v[0])
}

func (t booleanType) DecodeFromChunk(chunk [32]byte, i int) (View, error) {
	return decodeBooleanByte(chunk[i])
}

func decodeBooleanByte(b byte) (BooleanView, error) {
	switch b {
	case 0:
		return BooleanView(false), nil
	case 1:
		return BooleanView(true), nil
	default:
		return false, fmt.Errorf("view: boolean byte %#x: %w", b, ErrInvalidValue)
	}
}

func (t booleanType) EncodeInto(chunk [32]byte, i int, v View) ([32]byte, error) {
	b, ok := v.(BooleanView)
	if !ok {
		return chunk, fmt.Errorf("view: expected BooleanView: %w", ErrInvalidValue)
	}
	if b {
		chunk[i] = 1
	} else {
		chunk[i] = 0
	}
	return chunk, nil
}

func (t booleanType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope != 1 || len(buf) < 1 {
		return nil, fmt.Errorf("view: boolean scope %d: %w", scope, ErrDecode)
	}
	return decodeBooleanByte(buf[0])
}

// BooleanView is the value representation of the boolean SSZ type. No
// arithmetic methods are defined on it.
type BooleanView bool

func (v BooleanView) Type() Type { return BooleanType }

func (v BooleanView) Backing() merkle.Node {
	var leaf [32]byte
	if v {
		leaf[0] = 1
	}
	return merkle.NewLeaf(leaf)
}

func (v BooleanView) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}

func (v BooleanView) Serialize(buf []byte) ([]byte, error) {
	if v {
		return append(buf, 1), nil
	}
	return append(buf, 0), nil
}

// uintType is the Type shared by uint8/16/32/64: fixed byteLen bytes,
// little-endian, packed 32/byteLen per chunk.
type uintType struct {
	byteLen int
}

var (
	// Uint8Type, Uint16Type, Uint32Type, Uint64Type are the native-width
	// unsigned integer SSZ types.
	Uint8Type  Type = uintType{1}
	Uint16Type Type = uintType{2}
	Uint32Type Type = uintType{4}
	Uint64Type Type = uintType{8}
)

func (t uintType) TypeName() string    { return fmt.Sprintf("uint%d", t.byteLen*8) }
func (t uintType) IsFixedSize() bool   { return true }
func (t uintType) FixedSize() uint64   { return uint64(t.byteLen) }
func (t uintType) MinSize() uint64     { return uint64(t.byteLen) }
func (t uintType) MaxSize() uint64     { return uint64(t.byteLen) }
func (t uintType) ByteLength() int     { return t.byteLen }
func (t uintType) PackedPerChunk() int { return 32 / t.byteLen }

func (t uintType) DefaultNode() merkle.Node {
	return merkle.NewLeaf([32]byte{})
}

// coerceNonNegativeUint reports the numeric value of x if it is a
// non-negative value of one of Go's built-in integer kinds, per spec.md
// §4.F's "a non-negative integer fitting in the type".
func coerceNonNegativeUint(x any) (uint64, bool) {
	switch v := x.(type) {
	case int:
		return nonNegative(int64(v))
	case int8:
		return nonNegative(int64(v))
	case int16:
		return nonNegative(int64(v))
	case int32:
		return nonNegative(int64(v))
	case int64:
		return nonNegative(v)
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	default:
		return 0, false
	}
}

func nonNegative(v int64) (uint64, bool) {
	if v < 0 {
		return 0, false
	}
	return uint64(v), true
}

func uintToLEBytes(n uint64, byteLen int) []byte {
	b := make([]byte, byteLen)
	for i := 0; i < byteLen; i++ {
		b[i] = byte(n >> uint(8*i))
	}
	return b
}

// CoerceView accepts another uintXView of the same byte length, raw
// little-endian bytes of exactly t.byteLen, or a non-negative native
// integer that fits in t.byteLen bytes.
func (t uintType) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case Uint8View:
		if t.byteLen != 1 {
			return nil, fmt.Errorf("view: %s coerce: width mismatch: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case Uint16View:
		if t.byteLen != 2 {
			return nil, fmt.Errorf("view: %s coerce: width mismatch: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case Uint32View:
		if t.byteLen != 4 {
			return nil, fmt.Errorf("view: %s coerce: width mismatch: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case Uint64View:
		if t.byteLen != 8 {
			return nil, fmt.Errorf("view: %s coerce: width mismatch: %w", t.TypeName(), ErrInvalidValue)
		}
		return v, nil
	case []byte:
		if len(v) != t.byteLen {
			return nil, fmt.Errorf("view: %s coerce: %d bytes, want %d: %w", t.TypeName(), len(v), t.byteLen, ErrInvalidValue)
		}
		return t.decodeBytes(v)
	default:
		n, ok := coerceNonNegativeUint(x)
		if !ok {
			return nil, fmt.Errorf("view: %s coerce %T: %w", t.TypeName(), x, ErrInvalidValue)
		}
		if t.byteLen < 8 && n >= uint64(1)<<uint(t.byteLen*8) {
			return nil, fmt.Errorf("view: %s coerce: %d out of range: %w", t.TypeName(), n, ErrInvalidValue)
		}
		return t.decodeBytes(uintToLEBytes(n, t.byteLen))
	}
}

func (t uintType) ViewFromBacking(n merkle.Node, _ Hook) (View, error) {
	leaf, ok := n.(*merkle.Leaf)
	if !ok {
		return nil, fmt.Errorf("view: %s backing: %w", t.TypeName(), ErrInvalidValue)
	}
	v := leaf.Value()
	return t.decodeBytes(v[:t.byteLen])
}

func (t uintType) DecodeFromChunk(chunk [32]byte, i int) (View, error) {
	off := i * t.byteLen
	return t.decodeBytes(chunk[off : off+t.byteLen])
}

func (t uintType) decodeBytes(b []byte) (View, error) {
	switch t.byteLen {
	case 1:
		return Uint8View(b[0]), nil
	case 2:
		return Uint16View(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return Uint32View(binary.LittleEndian.Uint32(b)), nil
	case 8:
		return Uint64View(binary.LittleEndian.Uint64(b)), nil
	default:
		return nil, fmt.Errorf("view: unsupported uint width %d: %w", t.byteLen*8, ErrInvalidValue)
	}
}

func (t uintType) EncodeInto(chunk [32]byte, i int, v View) ([32]byte, error) {
	buf, err := v.Serialize(nil)
	if err != nil {
		return chunk, err
	}
	if len(buf) != t.byteLen {
		return chunk, fmt.Errorf("view: %s width mismatch: %w", t.TypeName(), ErrInvalidValue)
	}
	off := i * t.byteLen
	copy(chunk[off:off+t.byteLen], buf)
	return chunk, nil
}

func (t uintType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope != uint64(t.byteLen) || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: %s scope %d: %w", t.TypeName(), scope, ErrDecode)
	}
	return t.decodeBytes(buf[:t.byteLen])
}

func leafFromLE(b []byte) merkle.Node {
	var v [32]byte
	copy(v[:], b)
	return merkle.NewLeaf(v)
}

// Uint8View, Uint16View, Uint32View, Uint64View are the native-width
// unsigned integer views. Arithmetic overflows and underflows return
// ErrInvalidValue rather than wrapping.

type Uint8View uint8

func (v Uint8View) Type() Type              { return Uint8Type }
func (v Uint8View) Backing() merkle.Node    { return leafFromLE([]byte{byte(v)}) }
func (v Uint8View) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}
func (v Uint8View) Serialize(buf []byte) ([]byte, error) { return append(buf, byte(v)), nil }

func (v Uint8View) Add(w Uint8View) (Uint8View, error) {
	r := v + w
	if r < v {
		return 0, fmt.Errorf("view: uint8 add overflow: %w", ErrInvalidValue)
	}
	return r, nil
}
func (v Uint8View) Sub(w Uint8View) (Uint8View, error) {
	if w > v {
		return 0, fmt.Errorf("view: uint8 sub underflow: %w", ErrInvalidValue)
	}
	return v - w, nil
}
func (v Uint8View) Mul(w Uint8View) (Uint8View, error) {
	if v != 0 && uint16(v)*uint16(w) > 0xff {
		return 0, fmt.Errorf("view: uint8 mul overflow: %w", ErrInvalidValue)
	}
	return v * w, nil
}
func (v Uint8View) FloorDiv(w Uint8View) (Uint8View, error) {
	if w == 0 {
		return 0, fmt.Errorf("view: uint8 div by zero: %w", ErrInvalidValue)
	}
	return v / w, nil
}
func (v Uint8View) TrueDiv(Uint8View) (Uint8View, error) {
	return 0, fmt.Errorf("view: uint8 true division: %w", ErrUnsupported)
}

type Uint16View uint16

func (v Uint16View) Type() Type           { return Uint16Type }
func (v Uint16View) Backing() merkle.Node { return leafFromLE(leBytes(uint64(v), 2)) }
func (v Uint16View) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}
func (v Uint16View) Serialize(buf []byte) ([]byte, error) {
	return append(buf, leBytes(uint64(v), 2)...), nil
}
func (v Uint16View) Add(w Uint16View) (Uint16View, error) {
	r := v + w
	if r < v {
		return 0, fmt.Errorf("view: uint16 add overflow: %w", ErrInvalidValue)
	}
	return r, nil
}
func (v Uint16View) Sub(w Uint16View) (Uint16View, error) {
	if w > v {
		return 0, fmt.Errorf("view: uint16 sub underflow: %w", ErrInvalidValue)
	}
	return v - w, nil
}
func (v Uint16View) Mul(w Uint16View) (Uint16View, error) {
	if v != 0 && uint32(v)*uint32(w) > 0xffff {
		return 0, fmt.Errorf("view: uint16 mul overflow: %w", ErrInvalidValue)
	}
	return v * w, nil
}
func (v Uint16View) FloorDiv(w Uint16View) (Uint16View, error) {
	if w == 0 {
		return 0, fmt.Errorf("view: uint16 div by zero: %w", ErrInvalidValue)
	}
	return v / w, nil
}

type Uint32View uint32

func (v Uint32View) Type() Type           { return Uint32Type }
func (v Uint32View) Backing() merkle.Node { return leafFromLE(leBytes(uint64(v), 4)) }
func (v Uint32View) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}
func (v Uint32View) Serialize(buf []byte) ([]byte, error) {
	return append(buf, leBytes(uint64(v), 4)...), nil
}
func (v Uint32View) Add(w Uint32View) (Uint32View, error) {
	r := v + w
	if r < v {
		return 0, fmt.Errorf("view: uint32 add overflow: %w", ErrInvalidValue)
	}
	return r, nil
}
func (v Uint32View) Sub(w Uint32View) (Uint32View, error) {
	if w > v {
		return 0, fmt.Errorf("view: uint32 sub underflow: %w", ErrInvalidValue)
	}
	return v - w, nil
}
func (v Uint32View) Mul(w Uint32View) (Uint32View, error) {
	if v != 0 && uint64(v)*uint64(w) > 0xffffffff {
		return 0, fmt.Errorf("view: uint32 mul overflow: %w", ErrInvalidValue)
	}
	return v * w, nil
}
func (v Uint32View) FloorDiv(w Uint32View) (Uint32View, error) {
	if w == 0 {
		return 0, fmt.Errorf("view: uint32 div by zero: %w", ErrInvalidValue)
	}
	return v / w, nil
}

type Uint64View uint64

func (v Uint64View) Type() Type           { return Uint64Type }
func (v Uint64View) Backing() merkle.Node { return leafFromLE(leBytes(uint64(v), 8)) }
func (v Uint64View) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}
func (v Uint64View) Serialize(buf []byte) ([]byte, error) {
	return append(buf, leBytes(uint64(v), 8)...), nil
}
func (v Uint64View) Add(w Uint64View) (Uint64View, error) {
	r := v + w
	if r < v {
		return 0, fmt.Errorf("view: uint64 add overflow: %w", ErrInvalidValue)
	}
	return r, nil
}
func (v Uint64View) Sub(w Uint64View) (Uint64View, error) {
	if w > v {
		return 0, fmt.Errorf("view: uint64 sub underflow: %w", ErrInvalidValue)
	}
	return v - w, nil
}
func (v Uint64View) Mul(w Uint64View) (Uint64View, error) {
	if v == 0 || w == 0 {
		return 0, nil
	}
	r := v * w
	if r/v != w {
		return 0, fmt.Errorf("view: uint64 mul overflow: %w", ErrInvalidValue)
	}
	return r, nil
}
func (v Uint64View) FloorDiv(w Uint64View) (Uint64View, error) {
	if w == 0 {
		return 0, fmt.Errorf("view: uint64 div by zero: %w", ErrInvalidValue)
	}
	return v / w, nil
}

func leBytes(v uint64, n int) []byte {
	b := make([]byte, n)
	switch n {
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	}
	return b
}

// uint128Type and uint256Type are wide integers whose packing is 2 and 1
// per chunk respectively.
type uint128Type struct{}
type uint256Type struct{}

// Uint128Type and Uint256Type are the wide-integer SSZ basic types.
var (
	Uint128Type Type = uint128Type{}
	Uint256Type Type = uint256Type{}
)

func (uint128Type) TypeName() string    { return "uint128" }
func (uint128Type) IsFixedSize() bool   { return true }
func (uint128Type) FixedSize() uint64   { return 16 }
func (uint128Type) MinSize() uint64     { return 16 }
func (uint128Type) MaxSize() uint64     { return 16 }
func (uint128Type) ByteLength() int     { return 16 }
func (uint128Type) PackedPerChunk() int { return 2 }
func (uint128Type) DefaultNode() merkle.Node {
	return merkle.NewLeaf([32]byte{})
}

// coerceBigInt reports x as a *big.Int if x is a native Go integer kind or
// already a *big.Int/big.Int, for the wide uint types' coerce_view.
func coerceBigInt(x any) (*big.Int, bool) {
	switch v := x.(type) {
	case *big.Int:
		return v, true
	case big.Int:
		return &v, true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case int:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case int32:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	default:
		return nil, false
	}
}

// CoerceView accepts a Uint128View, 16 little-endian bytes, or a
// non-negative integer (native or *big.Int) fitting in 128 bits.
func (t uint128Type) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case Uint128View:
		return v, nil
	case []byte:
		if len(v) != 16 {
			return nil, fmt.Errorf("view: uint128 coerce: %d bytes, want 16: %w", len(v), ErrInvalidValue)
		}
		return decodeUint128(v), nil
	default:
		n, ok := coerceBigInt(x)
		if !ok {
			return nil, fmt.Errorf("view: uint128 coerce %T: %w", x, ErrInvalidValue)
		}
		return uint128FromBigInt(n)
	}
}

func (t uint128Type) ViewFromBacking(n merkle.Node, _ Hook) (View, error) {
	leaf, ok := n.(*merkle.Leaf)
	if !ok {
		return nil, fmt.Errorf("view: uint128 backing: %w", ErrInvalidValue)
	}
	v := leaf.Value()
	return decodeUint128(v[:16]), nil
}

func (t uint128Type) DecodeFromChunk(chunk [32]byte, i int) (View, error) {
	off := i * 16
	return decodeUint128(chunk[off : off+16]), nil
}

func (t uint128Type) EncodeInto(chunk [32]byte, i int, v View) ([32]byte, error) {
	u, ok := v.(Uint128View)
	if !ok {
		return chunk, fmt.Errorf("view: expected Uint128View: %w", ErrInvalidValue)
	}
	off := i * 16
	copy(chunk[off:off+16], u[:])
	return chunk, nil
}

func (t uint128Type) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope != 16 || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: uint128 scope %d: %w", scope, ErrDecode)
	}
	return decodeUint128(buf[:16]), nil
}

func decodeUint128(b []byte) Uint128View {
	var v Uint128View
	copy(v[:], b)
	return v
}

// Uint128View stores its value as 16 little-endian bytes, the same wire
// representation it serializes to; arithmetic goes through math/big since
// no third-party package in this ecosystem offers a dedicated 128-bit
// integer type (see DESIGN.md).
type Uint128View [16]byte

func (v Uint128View) Type() Type { return Uint128Type }
func (v Uint128View) Backing() merkle.Node {
	var chunk [32]byte
	copy(chunk[:16], v[:])
	return merkle.NewLeaf(chunk)
}
func (v Uint128View) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}
func (v Uint128View) Serialize(buf []byte) ([]byte, error) {
	return append(buf, v[:]...), nil
}

func (v Uint128View) bigInt() *big.Int {
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[i] = v[15-i]
	}
	return new(big.Int).SetBytes(be)
}

var uint128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func uint128FromBigInt(x *big.Int) (Uint128View, error) {
	if x.Sign() < 0 || x.Cmp(uint128Max) > 0 {
		return Uint128View{}, fmt.Errorf("view: uint128 out of range: %w", ErrInvalidValue)
	}
	be := x.FillBytes(make([]byte, 16))
	var out Uint128View
	for i := 0; i < 16; i++ {
		out[i] = be[15-i]
	}
	return out, nil
}

func (v Uint128View) Add(w Uint128View) (Uint128View, error) {
	return uint128FromBigInt(new(big.Int).Add(v.bigInt(), w.bigInt()))
}
func (v Uint128View) Sub(w Uint128View) (Uint128View, error) {
	return uint128FromBigInt(new(big.Int).Sub(v.bigInt(), w.bigInt()))
}
func (v Uint128View) Mul(w Uint128View) (Uint128View, error) {
	return uint128FromBigInt(new(big.Int).Mul(v.bigInt(), w.bigInt()))
}
func (v Uint128View) FloorDiv(w Uint128View) (Uint128View, error) {
	if w.bigInt().Sign() == 0 {
		return Uint128View{}, fmt.Errorf("view: uint128 div by zero: %w", ErrInvalidValue)
	}
	return uint128FromBigInt(new(big.Int).Div(v.bigInt(), w.bigInt()))
}

func (uint256Type) TypeName() string    { return "uint256" }
func (uint256Type) IsFixedSize() bool   { return true }
func (uint256Type) FixedSize() uint64   { return 32 }
func (uint256Type) MinSize() uint64     { return 32 }
func (uint256Type) MaxSize() uint64     { return 32 }
func (uint256Type) ByteLength() int     { return 32 }
func (uint256Type) PackedPerChunk() int { return 1 }
func (uint256Type) DefaultNode() merkle.Node {
	return merkle.NewLeaf([32]byte{})
}

// CoerceView accepts a Uint256View, 32 little-endian bytes, or a
// non-negative integer (native or *big.Int) fitting in 256 bits.
func (t uint256Type) CoerceView(x any) (View, error) {
	switch v := x.(type) {
	case Uint256View:
		return v, nil
	case []byte:
		if len(v) != 32 {
			return nil, fmt.Errorf("view: uint256 coerce: %d bytes, want 32: %w", len(v), ErrInvalidValue)
		}
		return decodeUint256(v), nil
	default:
		n, ok := coerceBigInt(x)
		if !ok {
			return nil, fmt.Errorf("view: uint256 coerce %T: %w", x, ErrInvalidValue)
		}
		if n.Sign() < 0 || n.BitLen() > 256 {
			return nil, fmt.Errorf("view: uint256 coerce: out of range: %w", ErrInvalidValue)
		}
		var u uint256.Int
		u.SetFromBig(n)
		return Uint256View{v: u}, nil
	}
}

func (t uint256Type) ViewFromBacking(n merkle.Node, _ Hook) (View, error) {
	leaf, ok := n.(*merkle.Leaf)
	if !ok {
		return nil, fmt.Errorf("view: uint256 backing: %w", ErrInvalidValue)
	}
	v := leaf.Value()
	return decodeUint256(v[:]), nil
}

func (t uint256Type) DecodeFromChunk(chunk [32]byte, i int) (View, error) {
	if i != 0 {
		return nil, fmt.Errorf("view: uint256 packed index %d: %w", i, ErrInvalidValue)
	}
	return decodeUint256(chunk[:]), nil
}

func (t uint256Type) EncodeInto(chunk [32]byte, i int, v View) ([32]byte, error) {
	if i != 0 {
		return chunk, fmt.Errorf("view: uint256 packed index %d: %w", i, ErrInvalidValue)
	}
	u, ok := v.(Uint256View)
	if !ok {
		return chunk, fmt.Errorf("view: expected Uint256View: %w", ErrInvalidValue)
	}
	b := u.v.Bytes32()
	for i, j := 0, 31; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b, nil
}

func (t uint256Type) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope != 32 || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: uint256 scope %d: %w", scope, ErrDecode)
	}
	return decodeUint256(buf[:32]), nil
}

func decodeUint256(b []byte) Uint256View {
	var be [32]byte
	for i := 0; i < 32; i++ {
		be[i] = b[31-i]
	}
	return Uint256View{v: *new(uint256.Int).SetBytes(be[:])}
}

// Uint256View wraps github.com/holiman/uint256's Int as the backing
// representation for 256-bit arithmetic, rather than hand-rolling it over
// four uint64 words.
type Uint256View struct {
	v uint256.Int
}

// NewUint256FromUint64 constructs a Uint256View from a native uint64.
func NewUint256FromUint64(x uint64) Uint256View {
	return Uint256View{v: *uint256.NewInt(x)}
}

func (v Uint256View) Type() Type { return Uint256Type }
func (v Uint256View) Backing() merkle.Node {
	b := v.v.Bytes32()
	// Bytes32 is big-endian; the leaf holds the little-endian value.
	for i, j := 0, 31; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return merkle.NewLeaf(b)
}
func (v Uint256View) HashTreeRoot(h merkle.HashFn) [32]byte {
	return v.Backing().MerkleRoot(h)
}
func (v Uint256View) Serialize(buf []byte) ([]byte, error) {
	b := v.v.Bytes32()
	// uint256.Int.Bytes32 is big-endian; SSZ wants little-endian.
	for i, j := 0, 31; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return append(buf, b[:]...), nil
}

func (v Uint256View) Add(w Uint256View) (Uint256View, error) {
	var out uint256.Int
	if out.AddOverflow(&v.v, &w.v) {
		return Uint256View{}, fmt.Errorf("view: uint256 add overflow: %w", ErrInvalidValue)
	}
	return Uint256View{v: out}, nil
}
func (v Uint256View) Sub(w Uint256View) (Uint256View, error) {
	if w.v.Gt(&v.v) {
		return Uint256View{}, fmt.Errorf("view: uint256 sub underflow: %w", ErrInvalidValue)
	}
	var out uint256.Int
	out.Sub(&v.v, &w.v)
	return Uint256View{v: out}, nil
}
func (v Uint256View) Mul(w Uint256View) (Uint256View, error) {
	var out uint256.Int
	if out.MulOverflow(&v.v, &w.v) {
		return Uint256View{}, fmt.Errorf("view: uint256 mul overflow: %w", ErrInvalidValue)
	}
	return Uint256View{v: out}, nil
}
func (v Uint256View) FloorDiv(w Uint256View) (Uint256View, error) {
	if w.v.IsZero() {
		return Uint256View{}, fmt.Errorf("view: uint256 div by zero: %w", ErrInvalidValue)
	}
	var out uint256.Int
	out.Div(&v.v, &w.v)
	return Uint256View{v: out}, nil
}
