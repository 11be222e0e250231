// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// StableContainerType is the Type for a forward/backward-compatible record
// of declared fields up to a fixed capacity N. Backing is
// Pair(fields_subtree, active_bits), where active_bits is a Bitvector[N]
// mix-in: field i is present iff active_bits.get(i) == 1, and an inactive
// field's slot holds a zero-leaf placeholder regardless of its declared
// type.
type StableContainerType struct {
	Name   string
	N      uint64
	Fields []Field // len(Fields) <= N

	index  map[string]int
	bits   *BitvectorType
}

// NewStableContainerType constructs a StableContainerType with capacity n
// and the given declared fields (len(fields) must not exceed n).
func NewStableContainerType(name string, n uint64, fields []Field) (*StableContainerType, error) {
	if uint64(len(fields)) > n {
		return nil, fmt.Errorf("view: %s declares %d fields, capacity %d: %w", name, len(fields), n, ErrInvalidValue)
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &StableContainerType{Name: name, N: n, Fields: fields, index: idx, bits: NewBitvectorType(n)}, nil
}

func (t *StableContainerType) TypeName() string { return t.Name }
func (t *StableContainerType) fieldsDepth() int  { return merkle.GetDepth(t.N) }

func (t *StableContainerType) FieldIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *StableContainerType) IsFixedSize() bool { return false }
func (t *StableContainerType) FixedSize() uint64 { panic("view: StableContainerType has no fixed size") }

func (t *StableContainerType) MinSize() uint64 { return t.bits.MinSize() }

func (t *StableContainerType) MaxSize() uint64 {
	sum := t.bits.MaxSize()
	for _, f := range t.Fields {
		if f.Type.IsFixedSize() {
			sum += f.Type.FixedSize()
		} else {
			sum += offsetByteLength + f.Type.MaxSize()
		}
	}
	return sum
}

func (t *StableContainerType) DefaultNode() merkle.Node {
	nodes := make([]merkle.Node, t.N)
	for i := range nodes {
		nodes[i] = merkle.NewLeaf([32]byte{})
	}
	fields, err := merkle.FillToContents(nodes, t.fieldsDepth())
	if err != nil {
		panic(fmt.Sprintf("view: %s default node: %v", t.Name, err))
	}
	return merkle.NewPair(fields, t.bits.DefaultNode())
}

// CoerceView accepts a StableContainerView already produced against this
// type (or, for a VariantType receiver, against the same underlying
// StableContainerType); there is no native-Go literal form for a whole
// container.
func (t *StableContainerType) CoerceView(x any) (View, error) {
	if v, ok := x.(*StableContainerView); ok && v.typ.TypeName() == t.TypeName() {
		return v, nil
	}
	return nil, fmt.Errorf("view: %s coerce %T: %w", t.Name, x, ErrInvalidValue)
}

func (t *StableContainerType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	pair, ok := n.(*merkle.Pair)
	if !ok {
		return nil, fmt.Errorf("view: %s backing is not Pair(fields, active_bits): %w", t.Name, ErrInvalidValue)
	}
	return &StableContainerView{typ: t, Backed: Backed{backing: n, hook: hook}}, nil
}

// Deserialize decodes the active-bits bitvector, rejects any active bit at
// an index >= the declared field count, then decodes the active fields
// with the standard fixed/offset discipline applied to only those fields.
func (t *StableContainerType) Deserialize(buf []byte, scope uint64) (View, error) {
	bitsLen := t.bits.byteLen()
	if scope < bitsLen {
		return nil, fmt.Errorf("view: %s scope %d smaller than active-bits %d: %w", t.Name, scope, bitsLen, ErrDecode)
	}
	bitsView, err := t.bits.Deserialize(buf[:bitsLen], bitsLen)
	if err != nil {
		return nil, err
	}
	active := bitsView.(*BitvectorView)
	for i := uint64(len(t.Fields)); i < t.N; i++ {
		bit, err := active.Get(i)
		if err != nil {
			return nil, err
		}
		if bit {
			return nil, fmt.Errorf("view: %s active bit %d beyond declared fields: %w", t.Name, i, ErrDecode)
		}
	}
	var activeTypes []Type
	var activeIdx []int
	for i, f := range t.Fields {
		bit, err := active.Get(uint64(i))
		if err != nil {
			return nil, err
		}
		if bit {
			activeTypes = append(activeTypes, f.Type)
			activeIdx = append(activeIdx, i)
		}
	}
	rest := buf[bitsLen:scope]
	elems, err := decodeSequence(rest, activeTypes)
	if err != nil {
		return nil, err
	}
	nodes := make([]merkle.Node, t.N)
	for i := range nodes {
		nodes[i] = merkle.NewLeaf([32]byte{})
	}
	for k, i := range activeIdx {
		nodes[i] = elems[k].Backing()
	}
	fields, err := merkle.FillToContentsFast(nodes, t.fieldsDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	root := merkle.NewPair(fields, active.Backing())
	return &StableContainerView{typ: t, Backed: Backed{backing: root}}, nil
}

// StableContainerView is the value representation of StableContainerType.
type StableContainerView struct {
	Backed
	typ *StableContainerType
}

// NewStableContainerView builds a view with values, a slice parallel to
// typ.Fields; a nil entry marks that field inactive.
func NewStableContainerView(t *StableContainerType, values []View) (*StableContainerView, error) {
	if len(values) != len(t.Fields) {
		return nil, fmt.Errorf("view: %s expects %d field slots, got %d: %w", t.Name, len(t.Fields), len(values), ErrInvalidValue)
	}
	nodes := make([]merkle.Node, t.N)
	for i := range nodes {
		nodes[i] = merkle.NewLeaf([32]byte{})
	}
	active, err := t.bits.fromBytes(make([]byte, t.bits.byteLen()))
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		nodes[i] = v.Backing()
		if err := active.Set(uint64(i), true); err != nil {
			return nil, err
		}
	}
	fields, err := merkle.FillToContentsFast(nodes, t.fieldsDepth(), merkle.GoHashTree)
	if err != nil {
		return nil, err
	}
	root := merkle.NewPair(fields, active.Backing())
	return &StableContainerView{typ: t, Backed: Backed{backing: root}}, nil
}

func (v *StableContainerView) Type() Type { return v.typ }

func (v *StableContainerView) isActive(i int) (bool, error) {
	pair := v.backing.(*merkle.Pair)
	active, err := v.typ.bits.ViewFromBacking(pair.Right(), nil)
	if err != nil {
		return false, err
	}
	return active.(*BitvectorView).Get(uint64(i))
}

// Field reads the field named name. ok is false if the field is declared
// but currently inactive.
func (v *StableContainerView) Field(name string) (val View, ok bool, err error) {
	i, found := v.typ.FieldIndex(name)
	if !found {
		return nil, false, fmt.Errorf("view: %s has no field %q: %w", v.typ.Name, name, ErrInvalidValue)
	}
	return v.FieldAt(i)
}

// FieldAt reads the i-th declared field.
func (v *StableContainerView) FieldAt(i int) (val View, ok bool, err error) {
	if i < 0 || i >= len(v.typ.Fields) {
		return nil, false, fmt.Errorf("view: %s field %d: %w", v.typ.Name, i, ErrIndexOutOfRange)
	}
	active, err := v.isActive(i)
	if err != nil {
		return nil, false, err
	}
	if !active {
		return nil, false, nil
	}
	pair := v.backing.(*merkle.Pair)
	depth := v.typ.fieldsDepth()
	hook := func(newChild merkle.Node) error {
		newFields, err := merkle.Set(pair.Left(), merkle.ToGindex(uint64(i), depth), newChild, false)
		if err != nil {
			return err
		}
		return v.SetBacking(merkle.NewPair(newFields, pair.Right()))
	}
	node, err := pair.Left().Getter(merkle.ToGindex(uint64(i), depth))
	if err != nil {
		return nil, false, fmt.Errorf("view: %s field %d: %w", v.typ.Name, i, ErrNavigation)
	}
	fv, err := v.typ.Fields[i].Type.ViewFromBacking(node, hook)
	if err != nil {
		return nil, false, err
	}
	return fv, true, nil
}

// SetField activates (or clears, if val is nil) the field named name.
func (v *StableContainerView) SetField(name string, val View) error {
	i, ok := v.typ.FieldIndex(name)
	if !ok {
		return fmt.Errorf("view: %s has no field %q: %w", v.typ.Name, name, ErrInvalidValue)
	}
	return v.SetFieldAt(i, val)
}

// SetFieldAt activates (or clears, if val is nil) the i-th declared field.
func (v *StableContainerView) SetFieldAt(i int, val View) error {
	if i < 0 || i >= len(v.typ.Fields) {
		return fmt.Errorf("view: %s field %d: %w", v.typ.Name, i, ErrIndexOutOfRange)
	}
	pair := v.backing.(*merkle.Pair)
	active, err := v.typ.bits.ViewFromBacking(pair.Right(), nil)
	if err != nil {
		return err
	}
	bv := active.(*BitvectorView)
	var childNode merkle.Node
	if val == nil {
		childNode = merkle.NewLeaf([32]byte{})
		if err := bv.Set(uint64(i), false); err != nil {
			return err
		}
	} else {
		val, err = v.typ.Fields[i].Type.CoerceView(val)
		if err != nil {
			return err
		}
		childNode = val.Backing()
		if err := bv.Set(uint64(i), true); err != nil {
			return err
		}
	}
	depth := v.typ.fieldsDepth()
	newFields, err := merkle.Set(pair.Left(), merkle.ToGindex(uint64(i), depth), childNode, false)
	if err != nil {
		return err
	}
	return v.SetBacking(merkle.NewPair(newFields, bv.Backing()))
}

func (v *StableContainerView) Serialize(buf []byte) ([]byte, error) {
	pair := v.backing.(*merkle.Pair)
	activeView, err := v.typ.bits.ViewFromBacking(pair.Right(), nil)
	if err != nil {
		return nil, err
	}
	buf, err = activeView.Serialize(buf)
	if err != nil {
		return nil, err
	}
	var elems []View
	for i := range v.typ.Fields {
		fv, ok, err := v.FieldAt(i)
		if err != nil {
			return nil, err
		}
		if ok {
			elems = append(elems, fv)
		}
	}
	b, err := encodeSequence(elems)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

// VariantType wraps a StableContainerType and adds the rule that every
// non-optional field (named in Required) must be present on construction.
type VariantType struct {
	*StableContainerType
	Required []string
}

// NewVariantType constructs a Variant over base, requiring the named
// fields to always be active.
func NewVariantType(base *StableContainerType, required []string) *VariantType {
	return &VariantType{StableContainerType: base, Required: required}
}

// CheckRequired validates that every required field is active in v.
func (t *VariantType) CheckRequired(v *StableContainerView) error {
	for _, name := range t.Required {
		i, ok := t.FieldIndex(name)
		if !ok {
			return fmt.Errorf("view: %s required field %q undeclared: %w", t.Name, name, ErrInvalidValue)
		}
		_, active, err := v.FieldAt(i)
		if err != nil {
			return err
		}
		if !active {
			return fmt.Errorf("view: %s missing required field %q: %w", t.Name, name, ErrInvalidValue)
		}
	}
	return nil
}

// Deserialize decodes like the embedded StableContainerType, then enforces
// that every required field came back active. A Variant is valid standalone
// (OneOf is an optional discriminator layered on top, per spec.md), so this
// check cannot live only behind OneOf.Resolve.
func (t *VariantType) Deserialize(buf []byte, scope uint64) (View, error) {
	v, err := t.StableContainerType.Deserialize(buf, scope)
	if err != nil {
		return nil, err
	}
	sc := v.(*StableContainerView)
	if err := t.CheckRequired(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// NewVariantView builds a Variant's view from one value per declared field
// (nil marks an inactive slot) and enforces CheckRequired before returning,
// the construction-time counterpart to Deserialize's post-decode check.
func NewVariantView(t *VariantType, values []View) (*StableContainerView, error) {
	v, err := NewStableContainerView(t.StableContainerType, values)
	if err != nil {
		return nil, err
	}
	if err := t.CheckRequired(v); err != nil {
		return nil, err
	}
	return v, nil
}

// OneOf wraps a StableContainerType with a caller-supplied discriminator
// that picks a concrete Variant at decode time.
type OneOf struct {
	Base          *StableContainerType
	SelectVariant func(v *StableContainerView) (*VariantType, error)
}

// NewOneOf constructs a OneOf discriminator over base.
func NewOneOf(base *StableContainerType, selectVariant func(v *StableContainerView) (*VariantType, error)) *OneOf {
	return &OneOf{Base: base, SelectVariant: selectVariant}
}

// Resolve decodes buf against Base, then resolves and validates the
// concrete Variant via SelectVariant.
func (o *OneOf) Resolve(buf []byte, scope uint64) (*StableContainerView, *VariantType, error) {
	raw, err := o.Base.Deserialize(buf, scope)
	if err != nil {
		return nil, nil, err
	}
	sc := raw.(*StableContainerView)
	variant, err := o.SelectVariant(sc)
	if err != nil {
		return nil, nil, err
	}
	if err := variant.CheckRequired(sc); err != nil {
		return nil, nil, err
	}
	return sc, variant, nil
}
