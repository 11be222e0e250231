// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// maxUnionOptions bounds the option list at 128, per spec.md §4.L: the
// selector is one wire byte.
const maxUnionOptions = 128

// UnionType is the Type for a tagged choice among an ordered list of
// options. Option 0 MAY be the "none" type (represented as nil in
// Options); no other option may be nil. This mirrors the teacher's
// Variant/Data shape (a selector plus an opaque payload) but backs the
// selector and payload onto the shared node algebra instead of a Go
// interface{} field, so Union gets hash_tree_root and the hook chain for
// free like every other composite view.
type UnionType struct {
	Options []Type // Options[0] == nil means option 0 is "none"
}

// NewUnionType constructs a UnionType. Pass nil as options[0] to allow the
// "none" variant.
func NewUnionType(options []Type) (*UnionType, error) {
	if len(options) == 0 || len(options) > maxUnionOptions {
		return nil, fmt.Errorf("view: union must have 1..%d options: %w", maxUnionOptions, ErrInvalidValue)
	}
	for i, o := range options {
		if i != 0 && o == nil {
			return nil, fmt.Errorf("view: only option 0 may be none: %w", ErrInvalidValue)
		}
	}
	return &UnionType{Options: options}, nil
}

func (t *UnionType) TypeName() string { return "Union" }

func (t *UnionType) IsFixedSize() bool { return false }
func (t *UnionType) FixedSize() uint64 { panic("view: UnionType has no fixed size") }

func (t *UnionType) MinSize() uint64 {
	min := ^uint64(0)
	for _, o := range t.Options {
		sz := uint64(1)
		if o != nil {
			sz += o.MinSize()
		}
		if sz < min {
			min = sz
		}
	}
	return min
}

func (t *UnionType) MaxSize() uint64 {
	var max uint64
	for _, o := range t.Options {
		sz := uint64(1)
		if o != nil {
			sz += o.MaxSize()
		}
		if sz > max {
			max = sz
		}
	}
	return max
}

func (t *UnionType) DefaultNode() merkle.Node {
	var value merkle.Node
	if t.Options[0] != nil {
		value = t.Options[0].DefaultNode()
	} else {
		value = merkle.NewLeaf([32]byte{})
	}
	return merkle.NewPair(value, lengthLeaf(0))
}

// CoerceView accepts a View already produced against this UnionType;
// unions have no native-Go literal form, so anything else is rejected.
func (t *UnionType) CoerceView(x any) (View, error) {
	if v, ok := x.(*UnionView); ok && v.typ == t {
		return v, nil
	}
	return nil, fmt.Errorf("view: union coerce %T: %w", x, ErrInvalidValue)
}

func (t *UnionType) ViewFromBacking(n merkle.Node, hook Hook) (View, error) {
	pair, ok := n.(*merkle.Pair)
	if !ok {
		return nil, fmt.Errorf("view: union backing is not Pair(value, selector): %w", ErrInvalidValue)
	}
	selector, err := readLength(pair.Right())
	if err != nil {
		return nil, err
	}
	if selector >= uint64(len(t.Options)) {
		return nil, fmt.Errorf("view: union selector %d out of range: %w", selector, ErrInvalidValue)
	}
	return &UnionView{typ: t, Backed: Backed{backing: n, hook: hook}, selector: uint8(selector)}, nil
}

func (t *UnionType) Deserialize(buf []byte, scope uint64) (View, error) {
	if scope < 1 || uint64(len(buf)) < scope {
		return nil, fmt.Errorf("view: union scope %d: %w", scope, ErrDecode)
	}
	selector := buf[0]
	if uint64(selector) >= uint64(len(t.Options)) {
		return nil, fmt.Errorf("view: union selector %d out of range: %w", selector, ErrDecode)
	}
	opt := t.Options[selector]
	payload := buf[1:scope]
	if opt == nil {
		if len(payload) != 0 {
			return nil, fmt.Errorf("view: none-union has payload: %w", ErrDecode)
		}
		return t.change(selector, merkle.NewLeaf([32]byte{}))
	}
	sz := uint64(len(payload))
	if sz < opt.MinSize() || sz > opt.MaxSize() {
		return nil, fmt.Errorf("view: union payload size %d out of [%d,%d]: %w", sz, opt.MinSize(), opt.MaxSize(), ErrDecode)
	}
	val, err := opt.Deserialize(payload, sz)
	if err != nil {
		return nil, err
	}
	return t.change(selector, val.Backing())
}

func (t *UnionType) change(selector uint8, valueBacking merkle.Node) (*UnionView, error) {
	root := merkle.NewPair(valueBacking, lengthLeaf(uint64(selector)))
	return &UnionView{typ: t, Backed: Backed{backing: root}, selector: selector}, nil
}

// UnionView is the value representation of UnionType.
type UnionView struct {
	Backed
	typ      *UnionType
	selector uint8
}

func (v *UnionView) Type() Type { return v.typ }

// Selector returns the currently active option index.
func (v *UnionView) Selector() uint8 { return v.selector }

// Value returns the currently active option's view, or nil if the
// selector is the "none" variant.
func (v *UnionView) Value() (View, error) {
	opt := v.typ.Options[v.selector]
	if opt == nil {
		return nil, nil
	}
	pair := v.backing.(*merkle.Pair)
	hook := func(newChild merkle.Node) error {
		return v.SetBacking(merkle.NewPair(newChild, lengthLeaf(uint64(v.selector))))
	}
	return opt.ViewFromBacking(pair.Left(), hook)
}

// Change switches the active option and value, enforcing option-range and
// none/non-none consistency per spec.md §4.L.
func (v *UnionView) Change(selector uint8, value View) error {
	if int(selector) >= len(v.typ.Options) {
		return fmt.Errorf("view: union selector %d out of range: %w", selector, ErrInvalidValue)
	}
	opt := v.typ.Options[selector]
	if opt == nil {
		if value != nil {
			return fmt.Errorf("view: none option given a value: %w", ErrInvalidValue)
		}
		v.selector = selector
		return v.SetBacking(merkle.NewPair(merkle.NewLeaf([32]byte{}), lengthLeaf(uint64(selector))))
	}
	if value == nil {
		return fmt.Errorf("view: non-none option given no value: %w", ErrInvalidValue)
	}
	value, err := opt.CoerceView(value)
	if err != nil {
		return err
	}
	v.selector = selector
	return v.SetBacking(merkle.NewPair(value.Backing(), lengthLeaf(uint64(selector))))
}

func (v *UnionView) Serialize(buf []byte) ([]byte, error) {
	buf = append(buf, v.selector)
	val, err := v.Value()
	if err != nil {
		return nil, err
	}
	if val == nil {
		return buf, nil
	}
	return val.Serialize(buf)
}
