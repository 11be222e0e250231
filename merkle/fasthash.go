// SPDX-License-Identifier: Apache-2.0

package merkle

import "github.com/prysmaticlabs/gohashtree"

// GoHashTree is a FastHasher backed by gohashtree's SIMD-accelerated
// SHA-256, suitable for hashing many sibling pairs (a full tree layer) in
// one call. Pass it to FillToContentsFast to batch-hash a freshly-built
// chunk tree instead of hashing one sibling pair at a time.
func GoHashTree(dst []byte, src []byte) error {
	return gohashtree.HashByteSlice(dst, src)
}

// HashLayer hashes a contiguous layer of leaves pairwise using fast,
// returning one 32-byte digest per pair. leaves must have an even,
// non-zero length. FillToContentsFast is the sole caller: it feeds one
// full tree layer at a time, where a batched hash is materially faster
// than the one-pair-at-a-time Pair.MerkleRoot recursion.
func HashLayer(fast FastHasher, leaves [][32]byte) ([][32]byte, error) {
	if len(leaves) == 0 {
		return nil, nil
	}
	if len(leaves)%2 != 0 {
		return nil, ErrNavigation
	}
	src := make([]byte, 0, len(leaves)*32)
	for _, l := range leaves {
		src = append(src, l[:]...)
	}
	dst := make([]byte, len(leaves)/2*32)
	if err := fast(dst, src); err != nil {
		return nil, err
	}
	out := make([][32]byte, len(leaves)/2)
	for i := range out {
		copy(out[i][:], dst[i*32:(i+1)*32])
	}
	return out, nil
}
