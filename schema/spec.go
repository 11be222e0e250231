// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/go-ssz/view/view"
)

// FieldSpec names one field of a container-shaped TypeSpec, in declaration
// order.
type FieldSpec struct {
	Name string    `yaml:"name"`
	Type *TypeSpec `yaml:"type"`
}

// TypeSpec is the YAML-deserializable description of a view.Type. Kind
// selects the shape; the remaining fields are interpreted according to it.
// N and Limit may each be a decimal literal or a Presets key, resolved by
// Build — this is the whole of the "runtime schema object" spec.md's design
// notes describe for the case N is not known until a preset loads.
type TypeSpec struct {
	Kind string `yaml:"kind"`

	// Scalar container name (Kind == "container" / "stablecontainer").
	Name string `yaml:"name,omitempty"`

	// Vector / List / Bitvector / Bitlist / ByteVector.
	Elem  *TypeSpec `yaml:"elem,omitempty"`
	N     string    `yaml:"n,omitempty"`
	Limit string    `yaml:"limit,omitempty"`

	// Container / StableContainer.
	Fields []FieldSpec `yaml:"fields,omitempty"`

	// StableContainer capacity (distinct from Fields' length).
	Capacity string `yaml:"capacity,omitempty"`

	// Union.
	Options []*TypeSpec `yaml:"options,omitempty"` // a nil entry (kind "none") marks the none option
}

// Build resolves s against presets into a concrete view.Type, recursing
// into Elem/Fields/Options as the Kind requires.
func (s *TypeSpec) Build(presets Presets) (view.Type, error) {
	return s.build(presets, nil)
}

// BuildWithOptions is Build with verbose tracing of each resolved kind and
// bound, for diagnosing a preset document that produced an unexpected type.
func (s *TypeSpec) BuildWithOptions(presets Presets, opts ...Option) (view.Type, error) {
	return s.build(presets, resolveOptions(opts))
}

func (s *TypeSpec) build(presets Presets, o *Options) (view.Type, error) {
	if s == nil {
		return nil, nil
	}
	o.logf("schema: building kind=%q n=%q limit=%q", s.Kind, s.N, s.Limit)
	switch s.Kind {
	case "none":
		return nil, nil
	case "bool", "boolean":
		return view.BooleanType, nil
	case "uint8":
		return view.Uint8Type, nil
	case "uint16":
		return view.Uint16Type, nil
	case "uint32":
		return view.Uint32Type, nil
	case "uint64":
		return view.Uint64Type, nil
	case "uint128":
		return view.Uint128Type, nil
	case "uint256":
		return view.Uint256Type, nil
	case "vector":
		elem, n, err := s.buildElemAndBound(presets, o, s.N)
		if err != nil {
			return nil, err
		}
		return view.NewVectorType(elem, n), nil
	case "list":
		elem, limit, err := s.buildElemAndBound(presets, o, s.Limit)
		if err != nil {
			return nil, err
		}
		return view.NewListType(elem, limit), nil
	case "bitvector":
		n, err := presets.ResolveBound(s.N)
		if err != nil {
			return nil, fmt.Errorf("schema: bitvector: %w", err)
		}
		return view.NewBitvectorType(n), nil
	case "bitlist":
		limit, err := presets.ResolveBound(s.Limit)
		if err != nil {
			return nil, fmt.Errorf("schema: bitlist: %w", err)
		}
		return view.NewBitlistType(limit), nil
	case "bytevector":
		n, err := presets.ResolveBound(s.N)
		if err != nil {
			return nil, fmt.Errorf("schema: bytevector: %w", err)
		}
		return view.NewByteVectorType(n), nil
	case "container":
		fields, err := buildFields(presets, o, s.Fields)
		if err != nil {
			return nil, fmt.Errorf("schema: container %q: %w", s.Name, err)
		}
		return view.NewContainerType(s.Name, fields), nil
	case "stablecontainer":
		fields, err := buildFields(presets, o, s.Fields)
		if err != nil {
			return nil, fmt.Errorf("schema: stablecontainer %q: %w", s.Name, err)
		}
		capacity, err := presets.ResolveBound(s.Capacity)
		if err != nil {
			return nil, fmt.Errorf("schema: stablecontainer %q capacity: %w", s.Name, err)
		}
		sc, err := view.NewStableContainerType(s.Name, capacity, fields)
		if err != nil {
			return nil, err
		}
		return sc, nil
	case "union":
		options := make([]view.Type, len(s.Options))
		for i, opt := range s.Options {
			t, err := opt.build(presets, o)
			if err != nil {
				return nil, fmt.Errorf("schema: union option %d: %w", i, err)
			}
			options[i] = t
		}
		ut, err := view.NewUnionType(options)
		if err != nil {
			return nil, err
		}
		return ut, nil
	default:
		return nil, fmt.Errorf("schema: unknown kind %q", s.Kind)
	}
}

func (s *TypeSpec) buildElemAndBound(presets Presets, o *Options, bound string) (view.Type, uint64, error) {
	elem, err := s.Elem.build(presets, o)
	if err != nil {
		return nil, 0, fmt.Errorf("elem: %w", err)
	}
	n, err := presets.ResolveBound(bound)
	if err != nil {
		return nil, 0, err
	}
	return elem, n, nil
}

func buildFields(presets Presets, o *Options, specs []FieldSpec) ([]view.Field, error) {
	fields := make([]view.Field, len(specs))
	for i, f := range specs {
		t, err := f.Type.build(presets, o)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields[i] = view.Field{Name: f.Name, Type: t}
	}
	return fields, nil
}

// ParseTypeSpec decodes a single YAML document into a TypeSpec, ready for
// Build. Callers embedding spec documents with //go:embed, matching the
// teacher's spectests/init.go pattern, typically call this once at package
// init and cache the result.
func ParseTypeSpec(data []byte) (*TypeSpec, error) {
	var s TypeSpec
	if err := yamlUnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse type spec: %w", err)
	}
	return &s, nil
}
