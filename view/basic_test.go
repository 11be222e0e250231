// SPDX-License-Identifier: Apache-2.0

package view_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/go-ssz/view/view"
)

func TestUint8ArithmeticOverflowPaths(t *testing.T) {
	if _, err := view.Uint8View(250).Add(view.Uint8View(10)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("add overflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := view.Uint8View(1).Sub(view.Uint8View(2)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("sub underflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := view.Uint8View(200).Mul(view.Uint8View(2)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("mul overflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := view.Uint8View(10).FloorDiv(view.Uint8View(0)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("div by zero err = %v, want ErrInvalidValue", err)
	}
	if _, err := view.Uint8View(1).TrueDiv(view.Uint8View(1)); !errors.Is(err, view.ErrUnsupported) {
		t.Fatalf("true div err = %v, want ErrUnsupported", err)
	}
}

func TestUint64ArithmeticOverflowPaths(t *testing.T) {
	max := view.Uint64View(^uint64(0))
	if _, err := max.Add(view.Uint64View(1)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("add overflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := view.Uint64View(0).Sub(view.Uint64View(1)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("sub underflow err = %v, want ErrInvalidValue", err)
	}
	if r, err := view.Uint64View(3).Mul(view.Uint64View(4)); err != nil || r != 12 {
		t.Fatalf("mul = %v, %v; want 12", r, err)
	}
	if _, err := max.Mul(view.Uint64View(2)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("mul overflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := view.Uint64View(5).FloorDiv(view.Uint64View(0)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("div by zero err = %v, want ErrInvalidValue", err)
	}
}

func TestUint128And256ArithmeticEdges(t *testing.T) {
	var max128 view.Uint128View
	for i := range max128 {
		max128[i] = 0xff
	}
	if _, err := max128.Add(view.Uint128View{0: 1}); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("uint128 add overflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := (view.Uint128View{}).Sub(view.Uint128View{0: 1}); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("uint128 sub underflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := max128.FloorDiv(view.Uint128View{}); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("uint128 div by zero err = %v, want ErrInvalidValue", err)
	}

	zero256 := view.NewUint256FromUint64(0)
	if _, err := zero256.Sub(view.NewUint256FromUint64(1)); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("uint256 sub underflow err = %v, want ErrInvalidValue", err)
	}
	if _, err := zero256.FloorDiv(zero256); !errors.Is(err, view.ErrInvalidValue) {
		t.Fatalf("uint256 div by zero err = %v, want ErrInvalidValue", err)
	}
}

func TestUintCoerceViewAcceptsLiteralsAndRejectsOutOfRange(t *testing.T) {
	v, err := view.Uint16Type.CoerceView(300)
	if err != nil {
		t.Fatalf("coerce int: %v", err)
	}
	if v.(view.Uint16View) != 300 {
		t.Fatalf("coerced value = %v, want 300", v)
	}
	if _, err := view.Uint8Type.CoerceView(256); err == nil {
		t.Fatal("expected error coercing an out-of-range int into uint8")
	}
	if _, err := view.Uint8Type.CoerceView(-1); err == nil {
		t.Fatal("expected error coercing a negative int")
	}
	if _, err := view.Uint32Type.CoerceView([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error coercing wrong-width bytes")
	}
	if _, err := view.Uint64Type.CoerceView(view.Uint32View(5)); err == nil {
		t.Fatal("expected error coercing a mismatched-width view")
	}
	if _, err := view.Uint64Type.CoerceView("nope"); err == nil {
		t.Fatal("expected error coercing an unsupported type")
	}
}

func TestBooleanCoerceView(t *testing.T) {
	v, err := view.BooleanType.CoerceView(true)
	if err != nil || v.(view.BooleanView) != true {
		t.Fatalf("coerce bool = %v, %v", v, err)
	}
	if _, err := view.BooleanType.CoerceView(1); err == nil {
		t.Fatal("expected error coercing an int as boolean")
	}
}

func TestUint256CoerceViewAcceptsBigIntAndRejectsOutOfRange(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 255)
	v, err := view.Uint256Type.CoerceView(n)
	if err != nil {
		t.Fatalf("coerce big.Int: %v", err)
	}
	buf, err := v.(view.Uint256View).Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if buf[31] != 0x80 {
		t.Fatalf("serialized MSB = %#x, want 0x80", buf[31])
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := view.Uint256Type.CoerceView(tooBig); err == nil {
		t.Fatal("expected error coercing a 257-bit value")
	}
	if _, err := view.Uint256Type.CoerceView(-1); err == nil {
		t.Fatal("expected error coercing a negative int")
	}
}
