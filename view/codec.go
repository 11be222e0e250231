// SPDX-License-Identifier: Apache-2.0

package view

import (
	"encoding/binary"
	"fmt"
)

// offsetByteLength is OFFSET_BYTE_LENGTH from the wire format: every
// variable-size element contributes a 4-byte little-endian offset to the
// fixed region instead of its value.
const offsetByteLength = 4

// encodeSequence implements the fixed/offset SSZ discipline shared by
// Vector, List and Container: fixed-size elements are written inline in
// order; variable-size elements contribute a 4-byte offset (measured from
// the start of the sequence) to the fixed region and their payload to a
// trailing dynamic region.
func encodeSequence(elems []View) ([]byte, error) {
	fixedLen := 0
	for _, e := range elems {
		if e.Type().IsFixedSize() {
			fixedLen += int(e.Type().FixedSize())
		} else {
			fixedLen += offsetByteLength
		}
	}
	var fixed, dyn []byte
	for _, e := range elems {
		if e.Type().IsFixedSize() {
			b, err := e.Serialize(nil)
			if err != nil {
				return nil, err
			}
			fixed = append(fixed, b...)
			continue
		}
		offset := fixedLen + len(dyn)
		var off [4]byte
		binary.LittleEndian.PutUint32(off[:], uint32(offset))
		fixed = append(fixed, off[:]...)
		b, err := e.Serialize(nil)
		if err != nil {
			return nil, err
		}
		dyn = append(dyn, b...)
	}
	return append(fixed, dyn...), nil
}

// decodeSequence is the inverse of encodeSequence: types names the exact
// per-position element type (the same Type repeated, for a homogeneous
// Vector/List, or the declared per-field types of a Container).
func decodeSequence(buf []byte, types []Type) ([]View, error) {
	n := len(types)
	views := make([]View, n)
	var offsets []int
	var dynIdx []int
	pos := 0
	for i, t := range types {
		if t.IsFixedSize() {
			sz := int(t.FixedSize())
			if pos+sz > len(buf) {
				return nil, fmt.Errorf("view: decode element %d: %w", i, ErrDecode)
			}
			v, err := t.Deserialize(buf[pos:pos+sz], uint64(sz))
			if err != nil {
				return nil, err
			}
			views[i] = v
			pos += sz
			continue
		}
		if pos+offsetByteLength > len(buf) {
			return nil, fmt.Errorf("view: decode offset %d: %w", i, ErrDecode)
		}
		off := int(binary.LittleEndian.Uint32(buf[pos : pos+offsetByteLength]))
		offsets = append(offsets, off)
		dynIdx = append(dynIdx, i)
		pos += offsetByteLength
	}
	fixedEnd := pos
	if len(offsets) > 0 {
		if offsets[0] != fixedEnd {
			return nil, fmt.Errorf("view: first offset %d != fixed region end %d: %w", offsets[0], fixedEnd, ErrDecode)
		}
		for i := 1; i < len(offsets); i++ {
			if offsets[i] < offsets[i-1] {
				return nil, fmt.Errorf("view: offsets not monotonic: %w", ErrDecode)
			}
		}
		if offsets[len(offsets)-1] > len(buf) {
			return nil, fmt.Errorf("view: offset beyond scope: %w", ErrDecode)
		}
	} else if fixedEnd != len(buf) {
		return nil, fmt.Errorf("view: excess bytes: %w", ErrDecode)
	}
	for k, idx := range dynIdx {
		start := offsets[k]
		end := len(buf)
		if k+1 < len(offsets) {
			end = offsets[k+1]
		}
		if start > end || end > len(buf) {
			return nil, fmt.Errorf("view: decode element %d: %w", idx, ErrDecode)
		}
		t := types[idx]
		sz := uint64(end - start)
		if sz < t.MinSize() || sz > t.MaxSize() {
			return nil, fmt.Errorf("view: element %d size %d out of [%d,%d]: %w", idx, sz, t.MinSize(), t.MaxSize(), ErrDecode)
		}
		v, err := t.Deserialize(buf[start:end], sz)
		if err != nil {
			return nil, err
		}
		views[idx] = v
	}
	return views, nil
}
