// SPDX-License-Identifier: Apache-2.0

// Package view implements the typed, mutable value layer on top of the
// persistent Merkle tree substrate in package merkle: a catalogue of SSZ
// types, hash_tree_root with structural sharing, mutation through a hook
// chain, and a bit-exact binary codec driven by the same type metadata.
package view

import "errors"

// Sentinel error kinds, one per failure category named by the wire format
// and tree-navigation rules this package implements.
var (
	// ErrNavigation surfaces a merkle.ErrNavigation encountered while
	// walking a view's backing tree.
	ErrNavigation = errors.New("view: tree navigation error")
	// ErrIndexOutOfRange is returned by get/set(i) when i < 0 or i >= length.
	ErrIndexOutOfRange = errors.New("view: index out of range")
	// ErrInvalidValue covers out-of-range basic values, wrong-width uint
	// coercions, non-0/1 booleans, wrong-length byte vectors, and
	// Union/StableContainer type mismatches.
	ErrInvalidValue = errors.New("view: invalid value")
	// ErrFull is returned by append on a List/Bitlist already at its limit.
	ErrFull = errors.New("view: list at capacity")
	// ErrEmpty is returned by pop on an empty List/Bitlist.
	ErrEmpty = errors.New("view: list is empty")
	// ErrDecode covers scope bounds violations, bad offsets, a missing
	// delimiting bit, out-of-range active-field indices, and excess bytes.
	ErrDecode = errors.New("view: decode error")
	// ErrUnsupported is returned for operations the type never supports,
	// e.g. true division on uints (Uint8View.TrueDiv), or Path steps into
	// packed basic elements, bitlist bits, or types Path cannot address.
	ErrUnsupported = errors.New("view: unsupported operation")
)
