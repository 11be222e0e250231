// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// Field names one named, typed slot of a ContainerType, in declaration
// order. Declaration order is the sole source of field indices: there is
// no reflection over a Go struct here, matching spec.md §4.I's "Fields
// are declared in source-defined order."
type Field struct {
	Name string
	Type Type
}

// ContainerType is the Type for a heterogeneous, fixed-arity record.
type ContainerType struct {
	Name   string
	Fields []Field

	index map[string]int
}

// NewContainerType constructs a ContainerType with the given name and
// fields, in declaration order.
func NewContainerType(name string, fields []Field) *ContainerType {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &ContainerType{Name: name, Fields: fields, index: idx}
}

func (t *ContainerType) TypeName() string { return t.Name }

func (t *ContainerType) treeDepth() int { return merkle.GetDepth(uint64(len(t.Fields))) }

func (t *ContainerType) FieldIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *ContainerType) IsFixedSize() bool {
	for _, f := range t.Fields {
		if !f.Type.IsFixedSize() {
			return false
		}
	}
	return true
}

func (t *ContainerType) FixedSize() uint64 {
	var sum uint64
	for _, f := range t.Fields {
		sum += f.Type.FixedSize()
	}
	return sum
}

func (t *ContainerType) MinSize() uint64 {
	var sum uint64
	for _, f := range t.Fields {
		if f.Type.IsFixedSize() {
			sum += f.Type.FixedSize()
		} else {
			sum += offsetByteLength + f.Type.MinSize()
		}
	}
	return sum
}

func (t *ContainerType) MaxSize() uint64 {
	var sum uint64
	for _, f := range t.Fields {
		if f.Type.IsFixedSize() {
			sum += f.Type.FixedSize()
		} else {
			sum += offsetByteLength + f.Type.MaxSize()
		}
	}
	return sum
}

func (t *ContainerType) DefaultNode() merkle.Node {
	nodes := make([]merkle.Node, len(t.Fields))
	for i, f := range t.Fields {
		nodes[i] = f.Type.DefaultNode()
	}
	root, err := merkle.FillToContents(nodes, t.treeDepth())
	if err != nil {
		panic(fmt.Sprintf("view: %s default node: %v", t.Name, err))
	}
	return root
}

// CoerceView accepts a View already produced against this ContainerType;
// containers have no native-Go literal form, so anything else is rejected.
func (t *ContainerType) CoerceView(x any) (View, error) {
	if v, ok := x.(*ContainerView); ok && v.typ.TypeName() == t.TypeName() {
		return v, nil
	}
	return nil, fmt.Errorf("view: %s coerce %T: %w", t.Name, x, ErrInvalidValue)
}

func (t *ContainerType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	return &ContainerView{typ: t, Backed: Backed{backing: n, hook: hook}}, nil
}

func (t *ContainerType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope < t.MinSize() || scope > t.MaxSize() {
		return nil, fmt.Errorf("view: %s scope %d out of range: %w", t.Name, scope, ErrDecode)
	}
	types := make([]Type, len(t.Fields))
	for i, f := range t.Fields {
		types[i] = f.Type
	}
	elems, err := decodeSequence(buf[:scope], types)
	if err != nil {
		return nil, err
	}
	return t.fromElements(elems)
}

func (t *ContainerType) fromElements(elems []View) (*ContainerView, error) {
	if len(elems) != len(t.Fields) {
		return nil, fmt.Errorf("view: %s expects %d fields, got %d: %w", t.Name, len(t.Fields), len(elems), ErrInvalidValue)
	}
	nodes := make([]merkle.Node, len(elems))
	for i, e := range elems {
		nodes[i] = e.Backing()
	}
	root, err := merkle.FillToContentsFast(nodes, t.treeDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	return &ContainerView{typ: t, Backed: Backed{backing: root}}, nil
}

// ContainerView is the value representation of ContainerType.
type ContainerView struct {
	Backed
	typ *ContainerType
}

// NewContainerView builds a Container view with one value per declared
// field, in declaration order.
func NewContainerView(t *ContainerType, fieldValues []View) (*ContainerView, error) {
	return t.fromElements(fieldValues)
}

func (v *ContainerView) Type() Type { return v.typ }

// Field reads the field named name.
func (v *ContainerView) Field(name string) (View, error) {
	i, ok := v.typ.FieldIndex(name)
	if !ok {
		return nil, fmt.Errorf("view: %s has no field %q: %w", v.typ.Name, name, ErrInvalidValue)
	}
	return v.FieldAt(i)
}

// FieldAt reads the i-th field by declaration order.
func (v *ContainerView) FieldAt(i int) (View, error) {
	if i < 0 || i >= len(v.typ.Fields) {
		return nil, fmt.Errorf("view: %s field %d: %w", v.typ.Name, i, ErrIndexOutOfRange)
	}
	depth := v.typ.treeDepth()
	hook := func(newChild merkle.Node) error {
		newRoot, err := merkle.Set(v.backing, merkle.ToGindex(uint64(i), depth), newChild, false)
		if err != nil {
			return err
		}
		return v.SetBacking(newRoot)
	}
	g := merkle.ToGindex(uint64(i), depth)
	node, err := v.backing.Getter(g)
	if err != nil {
		return nil, fmt.Errorf("view: %s field %d: %w", v.typ.Name, i, ErrNavigation)
	}
	return v.typ.Fields[i].Type.ViewFromBacking(node, hook)
}

// SetField replaces the field named name.
func (v *ContainerView) SetField(name string, val View) error {
	i, ok := v.typ.FieldIndex(name)
	if !ok {
		return fmt.Errorf("view: %s has no field %q: %w", v.typ.Name, name, ErrInvalidValue)
	}
	return v.SetFieldAt(i, val)
}

// SetFieldAt replaces the i-th field by declaration order.
func (v *ContainerView) SetFieldAt(i int, val View) error {
	if i < 0 || i >= len(v.typ.Fields) {
		return fmt.Errorf("view: %s field %d: %w", v.typ.Name, i, ErrIndexOutOfRange)
	}
	val, err := v.typ.Fields[i].Type.CoerceView(val)
	if err != nil {
		return err
	}
	depth := v.typ.treeDepth()
	newRoot, err := merkle.Set(v.backing, merkle.ToGindex(uint64(i), depth), val.Backing(), false)
	if err != nil {
		return err
	}
	return v.SetBacking(newRoot)
}

func (v *ContainerView) Serialize(buf []byte) ([]byte, error) {
	elems := make([]View, len(v.typ.Fields))
	for i := range v.typ.Fields {
		e, err := v.FieldAt(i)
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
