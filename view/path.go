// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"

	"github.com/go-ssz/view/merkle"
)

// pathStep is one element of a Path: a field name (Container /
// StableContainer), an integer index (Vector / List / Bitvector /
// Bitlist / ByteVector), or one of the two literal markers "__len__" /
// "__selector__".
type pathStep struct {
	name    string
	index   uint64
	hasIdx  bool
	literal string
}

// Path is a pure, value-only description of a position inside a type,
// composable without ever touching a concrete view. Path.Gindex is a
// function of type metadata alone, matching spec.md §4.N; Path.Append lets
// a caller build up a path incrementally, e.g.
// NewPath(containerType).Field("body").Field("attestations").Index(3).
type Path struct {
	root  Type
	steps []pathStep
}

// NewPath starts a Path rooted at t.
func NewPath(t Type) Path { return Path{root: t} }

// Append appends a single step to the path.
func (p Path) Append(step string) Path {
	return Path{root: p.root, steps: append(append([]pathStep{}, p.steps...), pathStep{name: step})}
}

// Field is an alias for Append with clearer call-site intent at
// Container/StableContainer positions.
func (p Path) Field(name string) Path { return p.Append(name) }

// Index appends an integer-index step (for Vector / List / Bitvector /
// Bitlist / ByteVector).
func (p Path) Index(i uint64) Path {
	return Path{root: p.root, steps: append(append([]pathStep{}, p.steps...), pathStep{index: i, hasIdx: true})}
}

// Len appends the "__len__" marker, addressing a List/Bitlist's length
// mix-in as a uint256.
func (p Path) Len() Path {
	return Path{root: p.root, steps: append(append([]pathStep{}, p.steps...), pathStep{literal: "__len__"})}
}

// Selector appends the "__selector__" marker, addressing a Union's
// selector mix-in.
func (p Path) Selector() Path {
	return Path{root: p.root, steps: append(append([]pathStep{}, p.steps...), pathStep{literal: "__selector__"})}
}

// Gindex computes the generalized index this path addresses, relative to
// the root type's own tree, by composing each step's local gindex via the
// standard `g_parent*2^depth_child + g_child_within_parent` rule, without
// requiring any concrete value.
func (p Path) Gindex() (merkle.Gindex, error) {
	g := merkle.RootGindex
	cur := p.root
	for _, s := range p.steps {
		localG, next, err := stepGindex(cur, s)
		if err != nil {
			return 0, err
		}
		depth := localG.Depth()
		g = merkle.Gindex(uint64(g)<<uint(depth) | (uint64(localG) &^ (uint64(1) << uint(depth))))
		cur = next
	}
	return g, nil
}

func stepGindex(t Type, s pathStep) (merkle.Gindex, Type, error) {
	switch tt := t.(type) {
	case *ContainerType:
		i, ok := tt.FieldIndex(s.name)
		if !ok {
			return 0, nil, fmt.Errorf("view: %s has no field %q: %w", tt.Name, s.name, ErrInvalidValue)
		}
		return merkle.ToGindex(uint64(i), tt.treeDepth()), tt.Fields[i].Type, nil
	case *StableContainerType:
		i, ok := tt.FieldIndex(s.name)
		if !ok {
			return 0, nil, fmt.Errorf("view: %s has no field %q: %w", tt.Name, s.name, ErrInvalidValue)
		}
		// within Pair(fields, active_bits): fields is the left child (2).
		inner := merkle.ToGindex(uint64(i), tt.fieldsDepth())
		return composeGindex(merkle.LeftGindex, inner), tt.Fields[i].Type, nil
	case *VectorType:
		if !s.hasIdx {
			return 0, nil, fmt.Errorf("view: %s step is not an index: %w", tt.TypeName(), ErrInvalidValue)
		}
		if _, packed := isPacked(tt.Elem); packed {
			return 0, nil, fmt.Errorf("view: %s path into packed element: %w", tt.TypeName(), ErrUnsupported)
		}
		return merkle.ToGindex(s.index, tt.treeDepth()), tt.Elem, nil
	case *ListType:
		if s.literal == "__len__" {
			return merkle.RightGindex, Uint256Type, nil
		}
		if !s.hasIdx {
			return 0, nil, fmt.Errorf("view: %s step is not an index: %w", tt.TypeName(), ErrInvalidValue)
		}
		if _, packed := isPacked(tt.Elem); packed {
			return 0, nil, fmt.Errorf("view: %s path into packed element: %w", tt.TypeName(), ErrUnsupported)
		}
		inner := merkle.ToGindex(s.index, tt.contentsDepth())
		return composeGindex(merkle.LeftGindex, inner), tt.Elem, nil
	case *BitlistType:
		if s.literal == "__len__" {
			return merkle.RightGindex, Uint256Type, nil
		}
		return 0, nil, fmt.Errorf("view: %s bit-level paths unsupported: %w", tt.TypeName(), ErrUnsupported)
	case *UnionType:
		if s.literal == "__selector__" {
			return merkle.RightGindex, Uint256Type, nil
		}
		return 0, nil, fmt.Errorf("view: union path without __selector__: %w", ErrInvalidValue)
	default:
		return 0, nil, fmt.Errorf("view: path navigation unsupported for %s: %w", t.TypeName(), ErrUnsupported)
	}
}

// composeGindex combines a parent-relative gindex (1, 2 or 3, typically
// merkle.LeftGindex for a Pair's left child) with a gindex inside that
// child, the same `g*2^depth + rel` rule Gindex uses between steps.
func composeGindex(parent, child merkle.Gindex) merkle.Gindex {
	depth := child.Depth()
	return merkle.Gindex(uint64(parent)<<uint(depth) | (uint64(child) &^ (uint64(1) << uint(depth))))
}

// NavigateView evaluates the path against a concrete root view, walking
// field-by-field (rather than jumping straight to the computed gindex) so
// that each intermediate view's hook chain stays wired for mutation.
func (p Path) NavigateView(root View) (View, error) {
	cur := root
	for _, s := range p.steps {
		next, err := navigateStep(cur, s)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func navigateStep(v View, s pathStep) (View, error) {
	switch cv := v.(type) {
	case *ContainerView:
		return cv.Field(s.name)
	case *StableContainerView:
		val, ok, err := cv.Field(s.name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("view: field %q inactive: %w", s.name, ErrInvalidValue)
		}
		return val, nil
	case *VectorView:
		return cv.Get(s.index)
	case *ListView:
		if s.literal == "__len__" {
			n, err := cv.Len()
			if err != nil {
				return nil, err
			}
			return NewUint256FromUint64(n), nil
		}
		return cv.Get(s.index)
	case *UnionView:
		if s.literal == "__selector__" {
			return NewUint256FromUint64(uint64(cv.Selector())), nil
		}
		return nil, fmt.Errorf("view: union path without __selector__: %w", ErrInvalidValue)
	default:
		return nil, fmt.Errorf("view: path navigation unsupported for %T: %w", v, ErrUnsupported)
	}
}
