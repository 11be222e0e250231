// SPDX-License-Identifier: Apache-2.0

package view_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/go-ssz/view/merkle"
	"github.com/go-ssz/view/view"
)

func TestEmptyListRoot(t *testing.T) {
	lt := view.NewListType(view.Uint64Type, 4)
	lv, err := view.NewListView(lt, nil)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	got := lv.HashTreeRoot(merkle.DefaultHashFn)
	want, _ := hex.DecodeString("f5a5fd42d16a20302798ef6ed309979b43003d2320d9f0e8ea9831a92759fb4b")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("empty List[uint64,4] root = %x, want %x", got, want)
	}
}

func TestVectorOfUintsSingleChunk(t *testing.T) {
	vt := view.NewVectorType(view.Uint64Type, 4)
	elems := []view.View{view.Uint64View(1), view.Uint64View(2), view.Uint64View(3), view.Uint64View(4)}
	vv, err := view.NewVectorView(vt, elems)
	if err != nil {
		t.Fatalf("new vector: %v", err)
	}
	buf, err := vv.Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("serialize = %x, want %x", buf, want)
	}
	var leaf [32]byte
	copy(leaf[:], buf)
	wantRoot := merkle.NewLeaf(leaf).MerkleRoot(merkle.DefaultHashFn)
	if vv.HashTreeRoot(merkle.DefaultHashFn) != wantRoot {
		t.Fatal("root does not equal the single packed chunk")
	}
}

func TestBitlistRoundTrip(t *testing.T) {
	bt := view.NewBitlistType(16)
	bits := []bool{true, false, true, true, false, false, false, true}
	lv, err := newBitlistFromBits(bt, bits)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	buf, err := lv.Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.Equal(buf, []byte{0x8d, 0x01}) {
		t.Fatalf("serialize = %x, want 8d 01", buf)
	}
	decoded, err := bt.Deserialize(buf, uint64(len(buf)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dl := decoded.(*view.BitlistView)
	n, err := dl.Len()
	if err != nil || n != 8 {
		t.Fatalf("decoded length = %d, %v; want 8", n, err)
	}
	for i, want := range bits {
		got, err := dl.Get(uint64(i))
		if err != nil || got != want {
			t.Fatalf("bit %d = %v, %v; want %v", i, got, err, want)
		}
	}
}

// newBitlistFromBits builds a Bitlist view by appending one bit at a time:
// Bitlist has no bulk constructor, exercising the real append path instead.
func newBitlistFromBits(t *view.BitlistType, bits []bool) (*view.BitlistView, error) {
	root, err := t.ViewFromBacking(t.DefaultNode(), nil)
	if err != nil {
		return nil, err
	}
	lv := root.(*view.BitlistView)
	for _, b := range bits {
		if err := lv.Append(b); err != nil {
			return nil, err
		}
	}
	return lv, nil
}

func TestListAppendPopMatchesBulkConstruction(t *testing.T) {
	lt := view.NewListType(view.Uint8Type, 1024)

	appended, err := view.NewListView(lt, nil)
	if err != nil {
		t.Fatalf("new empty list: %v", err)
	}
	for i := 0; i < 300; i++ {
		if err := appended.Append(view.Uint8View(42)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := appended.Pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	gotRoot := appended.HashTreeRoot(merkle.DefaultHashFn)

	bulk, err := bulkUint8List(lt, 299)
	if err != nil {
		t.Fatalf("build 299: %v", err)
	}
	wantRoot := bulk.HashTreeRoot(merkle.DefaultHashFn)

	if gotRoot != wantRoot {
		t.Fatalf("append-then-pop root %x != bulk-built root %x", gotRoot, wantRoot)
	}
}

func bulkUint8List(lt *view.ListType, n int) (*view.ListView, error) {
	elems := make([]view.View, n)
	for i := range elems {
		elems[i] = view.Uint8View(42)
	}
	return view.NewListView(lt, elems)
}

func TestContainerWithNestedDynamicField(t *testing.T) {
	inner := view.NewListType(view.Uint16Type, 4)
	ct := view.NewContainerType("Foo", []view.Field{
		{Name: "a", Type: view.Uint32Type},
		{Name: "b", Type: inner},
	})
	bList, err := view.NewListView(inner, []view.View{view.Uint16View(1), view.Uint16View(2), view.Uint16View(3)})
	if err != nil {
		t.Fatalf("build list: %v", err)
	}
	cv, err := view.NewContainerView(ct, []view.View{view.Uint32View(0x0a0b0c0d), bList})
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	buf, err := cv.Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := []byte{0x0d, 0x0c, 0x0b, 0x0a, 0x08, 0x00, 0x00, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00}
	if !bytes.Equal(buf, want) {
		t.Fatalf("serialize = %x, want %x", buf, want)
	}
	decoded, err := ct.Deserialize(buf, uint64(len(buf)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dc := decoded.(*view.ContainerView)
	af, err := dc.Field("a")
	if err != nil || af.(view.Uint32View) != 0x0a0b0c0d {
		t.Fatalf("decoded field a = %v, %v", af, err)
	}
}

func TestUnionDefaultAndChange(t *testing.T) {
	ut, err := view.NewUnionType([]view.Type{nil, view.Uint32Type, view.Uint64Type})
	if err != nil {
		t.Fatalf("new union type: %v", err)
	}
	uv, err := ut.ViewFromBacking(ut.DefaultNode(), nil)
	if err != nil {
		t.Fatalf("default view: %v", err)
	}
	u := uv.(*view.UnionView)
	if u.Selector() != 0 {
		t.Fatalf("default selector = %d, want 0", u.Selector())
	}
	if err := u.Change(2, view.Uint64View(0xdeadbeef)); err != nil {
		t.Fatalf("change: %v", err)
	}
	buf, err := u.Serialize(nil)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := []byte{2, 0xef, 0xbe, 0xad, 0xde, 0, 0, 0, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("serialize = %x, want %x", buf, want)
	}
}

func TestHookPropagatesThroughContainerField(t *testing.T) {
	vt := view.NewVectorType(view.Uint64Type, 4)
	ct := view.NewContainerType("Holder", []view.Field{{Name: "a", Type: vt}})
	defaultVec, err := vt.ViewFromBacking(vt.DefaultNode(), nil)
	if err != nil {
		t.Fatalf("default vector: %v", err)
	}
	cv, err := view.NewContainerView(ct, []view.View{defaultVec})
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	before := cv.HashTreeRoot(merkle.DefaultHashFn)

	field, err := cv.Field("a")
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	w := field.(*view.VectorView)
	if err := w.Set(1, view.Uint64View(99)); err != nil {
		t.Fatalf("set: %v", err)
	}

	again, err := cv.Field("a")
	if err != nil {
		t.Fatalf("field again: %v", err)
	}
	got, err := again.(*view.VectorView).Get(1)
	if err != nil || got.(view.Uint64View) != 99 {
		t.Fatalf("container.a.get(1) = %v, %v; want 99", got, err)
	}
	after := cv.HashTreeRoot(merkle.DefaultHashFn)
	if after == before {
		t.Fatal("container root did not change after child mutation")
	}
}
