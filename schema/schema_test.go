// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"strings"
	"testing"

	"github.com/go-ssz/view/schema"
	"github.com/go-ssz/view/view"
)

const presetYAML = `
SLOTS_PER_HISTORICAL_ROOT: 8192
VALIDATOR_REGISTRY_LIMIT: "1099511627776"
MAX_ATTESTATIONS: 128
`

func TestLoadPresetsMixedIntAndStringValues(t *testing.T) {
	presets, err := schema.LoadPresets(strings.NewReader(presetYAML))
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	if v, ok := presets.Resolve("SLOTS_PER_HISTORICAL_ROOT"); !ok || v != 8192 {
		t.Fatalf("SLOTS_PER_HISTORICAL_ROOT = %d, %v; want 8192", v, ok)
	}
	if v, ok := presets.Resolve("VALIDATOR_REGISTRY_LIMIT"); !ok || v != 1099511627776 {
		t.Fatalf("VALIDATOR_REGISTRY_LIMIT = %d, %v; want 1099511627776", v, ok)
	}
}

func TestResolveBoundLiteralOrPreset(t *testing.T) {
	presets, err := schema.LoadPresets(strings.NewReader(presetYAML))
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	if n, err := presets.ResolveBound("4"); err != nil || n != 4 {
		t.Fatalf("literal bound = %d, %v; want 4", n, err)
	}
	if n, err := presets.ResolveBound("MAX_ATTESTATIONS"); err != nil || n != 128 {
		t.Fatalf("named bound = %d, %v; want 128", n, err)
	}
	if _, err := presets.ResolveBound("UNKNOWN_CONSTANT"); err == nil {
		t.Fatal("expected error for unresolved bound")
	}
}

func TestBuildVectorOfRootsFromPreset(t *testing.T) {
	presets, err := schema.LoadPresets(strings.NewReader(presetYAML))
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	spec := &schema.TypeSpec{
		Kind:  "vector",
		Elem:  &schema.TypeSpec{Kind: "bytevector", N: "32"},
		N:     "SLOTS_PER_HISTORICAL_ROOT",
	}
	typ, err := spec.Build(presets)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	vt, ok := typ.(*view.VectorType)
	if !ok {
		t.Fatalf("got %T, want *view.VectorType", typ)
	}
	if vt.N != 8192 {
		t.Fatalf("vector N = %d, want 8192", vt.N)
	}
}

func TestBuildContainerWithFields(t *testing.T) {
	presets := schema.Presets{}
	spec := &schema.TypeSpec{
		Kind: "container",
		Name: "Checkpoint",
		Fields: []schema.FieldSpec{
			{Name: "epoch", Type: &schema.TypeSpec{Kind: "uint64"}},
			{Name: "root", Type: &schema.TypeSpec{Kind: "bytevector", N: "32"}},
		},
	}
	typ, err := spec.Build(presets)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ct, ok := typ.(*view.ContainerType)
	if !ok {
		t.Fatalf("got %T, want *view.ContainerType", typ)
	}
	if len(ct.Fields) != 2 || ct.Fields[0].Name != "epoch" || ct.Fields[1].Name != "root" {
		t.Fatalf("unexpected fields: %+v", ct.Fields)
	}
}

func TestBuildUnionWithNoneOption(t *testing.T) {
	presets := schema.Presets{}
	spec := &schema.TypeSpec{
		Kind: "union",
		Options: []*schema.TypeSpec{
			{Kind: "none"},
			{Kind: "uint32"},
		},
	}
	typ, err := spec.Build(presets)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ut, ok := typ.(*view.UnionType)
	if !ok {
		t.Fatalf("got %T, want *view.UnionType", typ)
	}
	if ut.Options[0] != nil {
		t.Fatal("option 0 should be none (nil)")
	}
	if ut.Options[1] != view.Uint32Type {
		t.Fatalf("option 1 = %v, want Uint32Type", ut.Options[1])
	}
}

func TestBuildRejectsUnresolvedBound(t *testing.T) {
	presets := schema.Presets{}
	spec := &schema.TypeSpec{Kind: "list", Elem: &schema.TypeSpec{Kind: "uint64"}, Limit: "UNDECLARED"}
	if _, err := spec.Build(presets); err == nil {
		t.Fatal("expected error building with an undeclared preset bound")
	}
}
