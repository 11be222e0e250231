// SPDX-License-Identifier: Apache-2.0

// Package merkle implements the persistent binary Merkle tree substrate
// that the typed view layer is built on: an immutable node algebra
// addressed by generalized index, zero-hash interning, sub-tree builders
// and a basic proof system.
package merkle

import (
	"crypto/sha256"
	"sync"
)

// HashFn combines two 32-byte roots into their parent root. It is the one
// externally injected collaborator the rest of this package depends on.
type HashFn func(left, right [32]byte) [32]byte

// DefaultHashFn hashes SHA-256 over the 64-byte concatenation of left and
// right, exactly as required by the SSZ merkleization rules.
func DefaultHashFn(left, right [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}

// FastHasher batch-hashes a contiguous run of sibling pairs at once.
// dst must have room for len(src)/64 32-byte digests; src's length must be
// a non-zero multiple of 64 bytes (two 32-byte chunks per pair).
//
// This is the hook third-party accelerated hashers (e.g.
// github.com/prysmaticlabs/gohashtree, wrapped as GoHashTree) plug into;
// see HashLayer and FillToContentsFast.
type FastHasher func(dst []byte, src []byte) error

const maxZeroHashDepth = 100

var (
	zeroHashOnce  sync.Once
	zeroHashes    [maxZeroHashDepth + 1][32]byte
	zeroHashIndex map[[32]byte]int
)

func initZeroHashes() {
	zeroHashOnce.Do(func() {
		zeroHashIndex = make(map[[32]byte]int, maxZeroHashDepth+1)
		zeroHashIndex[zeroHashes[0]] = 0
		for i := 0; i < maxZeroHashDepth; i++ {
			zeroHashes[i+1] = DefaultHashFn(zeroHashes[i], zeroHashes[i])
			zeroHashIndex[zeroHashes[i+1]] = i + 1
		}
	})
}

// ZeroHash returns the Merkle root of the all-zero subtree of the given
// depth (0 = a single 32-byte zero leaf). Depths beyond maxZeroHashDepth
// are computed on demand and not interned further.
func ZeroHash(depth int) [32]byte {
	initZeroHashes()
	if depth <= maxZeroHashDepth {
		return zeroHashes[depth]
	}
	h := zeroHashes[maxZeroHashDepth]
	for i := maxZeroHashDepth; i < depth; i++ {
		h = DefaultHashFn(h, h)
	}
	return h
}

// ZeroHashLevel reports the depth of a given root if it is a known,
// precomputed zero-hash, for proof compression purposes.
func ZeroHashLevel(root [32]byte) (int, bool) {
	initZeroHashes()
	lvl, ok := zeroHashIndex[root]
	return lvl, ok
}
