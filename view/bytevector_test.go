// SPDX-License-Identifier: Apache-2.0

package view_test

import (
	"bytes"
	"testing"

	"github.com/go-ssz/view/view"
)

func TestByteVectorRoundTripSmall(t *testing.T) {
	bt := view.NewByteVectorType(4)
	raw := []byte{1, 2, 3, 4}
	bv, err := bt.Deserialize(raw, 4)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v := bv.(*view.ByteVectorView)
	if !bytes.Equal(v.Bytes(), raw) {
		t.Fatalf("Bytes() = %x, want %x", v.Bytes(), raw)
	}
	out, err := v.Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("serialize = %x, want %x", out, raw)
	}
}

func TestByteVectorRoundTripMultiChunk(t *testing.T) {
	bt := view.NewByteVectorType(48)
	raw := make([]byte, 48)
	for i := range raw {
		raw[i] = byte(i)
	}
	bv, err := bt.Deserialize(raw, 48)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v := bv.(*view.ByteVectorView)
	if !bytes.Equal(v.Bytes(), raw) {
		t.Fatalf("Bytes() = %x, want %x", v.Bytes(), raw)
	}
}

func TestByteVectorDeserializeRejectsWrongLength(t *testing.T) {
	bt := view.NewByteVectorType(4)
	if _, err := bt.Deserialize([]byte{1, 2, 3}, 3); err == nil {
		t.Fatal("expected error for wrong scope")
	}
}

func TestByteVectorCoerceView(t *testing.T) {
	bt := view.NewByteVectorType(4)
	v, err := bt.CoerceView([]byte{9, 8, 7, 6})
	if err != nil {
		t.Fatalf("coerce bytes: %v", err)
	}
	if _, ok := v.(*view.ByteVectorView); !ok {
		t.Fatalf("coerce bytes produced %T", v)
	}
	if _, err := bt.CoerceView([]byte{1, 2}); err == nil {
		t.Fatal("expected error for wrong-length bytes")
	}
	if _, err := bt.CoerceView(7); err == nil {
		t.Fatal("expected error coercing an int")
	}

	other := view.NewByteVectorType(8)
	otherView, err := other.Deserialize(make([]byte, 8), 8)
	if err != nil {
		t.Fatalf("other decode: %v", err)
	}
	if _, err := bt.CoerceView(otherView); err == nil {
		t.Fatal("expected error coercing a different byte vector type")
	}
}
