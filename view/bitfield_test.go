// SPDX-License-Identifier: Apache-2.0

package view_test

import (
	"bytes"
	"testing"

	"github.com/go-ssz/view/merkle"
	"github.com/go-ssz/view/view"
)

func TestBitvectorFromBytesGetSet(t *testing.T) {
	bt := view.NewBitvectorType(12)
	raw := []byte{0xff, 0x0f} // 12 bits, all set, trailing nibble zeroed
	bv, err := bt.Deserialize(raw, 2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v := bv.(*view.BitvectorView)
	for i := uint64(0); i < 12; i++ {
		got, err := v.Get(i)
		if err != nil || !got {
			t.Fatalf("bit %d = %v, %v; want true", i, got, err)
		}
	}
	if err := v.Set(0, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := v.Get(0)
	if err != nil || got {
		t.Fatalf("bit 0 after clear = %v, %v; want false", got, err)
	}
}

func TestBitvectorDeserializeRejectsWrongLengthAndTrailingBits(t *testing.T) {
	bt := view.NewBitvectorType(12)
	if _, err := bt.Deserialize([]byte{0xff}, 1); err == nil {
		t.Fatal("expected error for wrong scope")
	}
	if _, err := bt.Deserialize([]byte{0xff, 0xff}, 2); err == nil {
		t.Fatal("expected error for set trailing bits beyond N")
	}
}

func TestBitvectorCoerceView(t *testing.T) {
	bt := view.NewBitvectorType(8)
	v, err := bt.CoerceView([]byte{0xaa})
	if err != nil {
		t.Fatalf("coerce bytes: %v", err)
	}
	if _, ok := v.(*view.BitvectorView); !ok {
		t.Fatalf("coerce bytes produced %T, want *BitvectorView", v)
	}
	if _, err := bt.CoerceView([]byte{0xaa, 0xbb}); err == nil {
		t.Fatal("expected error coercing wrong-length bytes")
	}
	if _, err := bt.CoerceView(42); err == nil {
		t.Fatal("expected error coercing an int")
	}

	other := view.NewBitvectorType(16)
	if _, err := bt.CoerceView(mustBitvector(t, other)); err == nil {
		t.Fatal("expected error coercing a different bitvector type")
	}
}

func mustBitvector(t *testing.T, bt *view.BitvectorType) *view.BitvectorView {
	t.Helper()
	v, err := bt.ViewFromBacking(bt.DefaultNode(), nil)
	if err != nil {
		t.Fatalf("default bitvector: %v", err)
	}
	return v.(*view.BitvectorView)
}

func TestBitlistCoerceView(t *testing.T) {
	bt := view.NewBitlistType(8)
	v, err := bt.CoerceView([]bool{true, false, true})
	if err != nil {
		t.Fatalf("coerce bools: %v", err)
	}
	lv := v.(*view.BitlistView)
	n, err := lv.Len()
	if err != nil || n != 3 {
		t.Fatalf("len = %d, %v; want 3", n, err)
	}
	if _, err := bt.CoerceView([]bool{true, true, true, true, true, true, true, true, true}); err == nil {
		t.Fatal("expected error coercing bits beyond limit")
	}
	if _, err := bt.CoerceView("nope"); err == nil {
		t.Fatal("expected error coercing a string")
	}
}

func TestBitlistPopCollapsesToBulkEquivalent(t *testing.T) {
	bt := view.NewBitlistType(64)
	lv, err := bt.CoerceView([]bool{true, true, false, true, true, false})
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	bl := lv.(*view.BitlistView)
	if err := bl.Append(true); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := bl.Pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	bulk, err := bt.CoerceView([]bool{true, true, false, true, true, false})
	if err != nil {
		t.Fatalf("bulk coerce: %v", err)
	}
	if bl.HashTreeRoot(merkle.DefaultHashFn) != bulk.(*view.BitlistView).HashTreeRoot(merkle.DefaultHashFn) {
		t.Fatal("append-then-pop root does not match bulk-built root")
	}
}

func TestBitlistSerializeEmpty(t *testing.T) {
	bt := view.NewBitlistType(8)
	lv, err := bt.CoerceView([]bool{})
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	buf, err := lv.Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(buf, []byte{0x01}) {
		t.Fatalf("serialize empty bitlist = %x, want 01", buf)
	}
}
