// SPDX-License-Identifier: Apache-2.0

// Package schema builds view.Type values from YAML preset documents, for
// the case spec.md's design notes call out directly: a caller that only
// knows a Vector/List/Bitvector/Bitlist bound N at config-load time, not at
// compile time. It deliberately does not evaluate arbitrary expressions
// over those presets (see DESIGN.md for why govaluate was dropped) — a
// TypeSpec names either a literal bound or a single preset key.
package schema

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Presets is a flat name -> value table loaded from a consensus-spec-style
// YAML document (e.g. "SLOTS_PER_HISTORICAL_ROOT: 8192"). Values may be
// written as YAML integers or as quoted strings, matching how mainnet/
// minimal preset files in the wild mix both styles.
type Presets map[string]uint64

// LoadPresets parses a YAML mapping of preset names to integers.
func LoadPresets(r io.Reader) (Presets, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("schema: decode presets: %w", err)
	}
	out := make(Presets, len(raw))
	for name, v := range raw {
		n, err := coerceUint(v)
		if err != nil {
			return nil, fmt.Errorf("schema: preset %q: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

func coerceUint(v any) (uint64, error) {
	switch x := v.(type) {
	case int:
		return uint64(x), nil
	case int64:
		return uint64(x), nil
	case uint64:
		return x, nil
	case string:
		return strconv.ParseUint(x, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported preset value %v (%T)", v, v)
	}
}

// Resolve looks up name, returning ok=false if it is undeclared.
func (p Presets) Resolve(name string) (uint64, bool) {
	v, ok := p[name]
	return v, ok
}

// ResolveBound parses s as either a decimal literal or a preset name; a
// TypeSpec field such as N or Limit may be either, letting the same
// document mix fixed bounds ("4") with spec-driven ones
// ("SLOTS_PER_HISTORICAL_ROOT").
func (p Presets) ResolveBound(s string) (uint64, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	if n, ok := p.Resolve(s); ok {
		return n, nil
	}
	return 0, fmt.Errorf("schema: unresolved bound %q", s)
}
