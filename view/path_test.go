// SPDX-License-Identifier: Apache-2.0

package view_test

import (
	"testing"

	"github.com/go-ssz/view/view"
)

func TestPathGindexContainerField(t *testing.T) {
	inner := view.NewContainerType("Inner", []view.Field{
		{Name: "x", Type: view.Uint64Type},
		{Name: "y", Type: view.Uint64Type},
	})
	outer := view.NewContainerType("Outer", []view.Field{
		{Name: "a", Type: view.Uint32Type},
		{Name: "inner", Type: inner},
	})

	g, err := view.NewPath(outer).Field("inner").Field("y").Gindex()
	if err != nil {
		t.Fatalf("gindex: %v", err)
	}

	innerView, err := inner.ViewFromBacking(inner.DefaultNode(), nil)
	if err != nil {
		t.Fatalf("inner default: %v", err)
	}
	iv := innerView.(*view.ContainerView)
	if err := iv.SetField("y", view.Uint64View(77)); err != nil {
		t.Fatalf("set inner.y: %v", err)
	}
	outerView, err := view.NewContainerView(outer, []view.View{view.Uint32View(1), iv})
	if err != nil {
		t.Fatalf("new outer: %v", err)
	}

	node, err := outerView.Backing().Getter(g)
	if err != nil {
		t.Fatalf("navigate by gindex: %v", err)
	}
	got, err := view.Uint64Type.ViewFromBacking(node, nil)
	if err != nil {
		t.Fatalf("decode at gindex: %v", err)
	}
	if got.(view.Uint64View) != 77 {
		t.Fatalf("value at path = %v, want 77", got)
	}
}

func TestPathNavigateViewMatchesGindex(t *testing.T) {
	// Path.Gindex rejects steps into packed basic elements, so the list holds
	// single-field containers; each one's backing is its uint32 leaf.
	wrap := view.NewContainerType("Wrap", []view.Field{{Name: "x", Type: view.Uint32Type}})
	elems := make([]view.View, 3)
	for i, x := range []view.Uint32View{10, 20, 30} {
		cv, err := view.NewContainerView(wrap, []view.View{x})
		if err != nil {
			t.Fatalf("new element: %v", err)
		}
		elems[i] = cv
	}
	lt := view.NewListType(wrap, 8)
	lv, err := view.NewListView(lt, elems)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}

	p := view.NewPath(lt).Index(1)
	navigated, err := p.NavigateView(lv)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	x, err := navigated.(*view.ContainerView).Field("x")
	if err != nil || x.(view.Uint32View) != 20 {
		t.Fatalf("navigated value = %v, %v; want 20", x, err)
	}

	g, err := p.Gindex()
	if err != nil {
		t.Fatalf("gindex: %v", err)
	}
	node, err := lv.Backing().Getter(g)
	if err != nil {
		t.Fatalf("getter by gindex: %v", err)
	}
	decoded, err := view.Uint32Type.ViewFromBacking(node, nil)
	if err != nil {
		t.Fatalf("decode by gindex: %v", err)
	}
	if decoded.(view.Uint32View) != 20 {
		t.Fatalf("gindex-decoded value = %v, want 20", decoded)
	}
}

func TestPathLenAndSelector(t *testing.T) {
	lt := view.NewListType(view.Uint8Type, 16)
	lv, err := view.NewListView(lt, []view.View{view.Uint8View(1), view.Uint8View(2)})
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	lenView, err := view.NewPath(lt).Len().NavigateView(lv)
	if err != nil {
		t.Fatalf("navigate len: %v", err)
	}
	if lenView.(view.Uint256View) != view.NewUint256FromUint64(2) {
		t.Fatalf("path len = %v, want 2", lenView)
	}

	ut, err := view.NewUnionType([]view.Type{nil, view.Uint32Type})
	if err != nil {
		t.Fatalf("new union type: %v", err)
	}
	uv, err := ut.ViewFromBacking(ut.DefaultNode(), nil)
	if err != nil {
		t.Fatalf("default union: %v", err)
	}
	u := uv.(*view.UnionView)
	if err := u.Change(1, view.Uint32View(5)); err != nil {
		t.Fatalf("change: %v", err)
	}
	selView, err := view.NewPath(ut).Selector().NavigateView(u)
	if err != nil {
		t.Fatalf("navigate selector: %v", err)
	}
	if selView.(view.Uint256View) != view.NewUint256FromUint64(1) {
		t.Fatalf("path selector = %v, want 1", selView)
	}
}

func TestPathRejectsUnknownField(t *testing.T) {
	ct := view.NewContainerType("Foo", []view.Field{{Name: "a", Type: view.Uint8Type}})
	if _, err := view.NewPath(ct).Field("missing").Gindex(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}
