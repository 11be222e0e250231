// SPDX-License-Identifier: Apache-2.0

package merkle_test

import (
	"testing"

	"github.com/go-ssz/view/merkle"
)

func buildDepth3Tree() merkle.Node {
	leaves := make([]merkle.Node, 8)
	for i := range leaves {
		var v [32]byte
		v[0] = byte(i + 1)
		leaves[i] = merkle.NewLeaf(v)
	}
	root, err := merkle.FillToContents(leaves, 3)
	if err != nil {
		panic(err)
	}
	return root
}

func TestProveVerifySingleLeaf(t *testing.T) {
	root := buildDepth3Tree()
	target := merkle.ToGindex(5, 3)
	p, err := merkle.Prove(root, merkle.DefaultHashFn, target)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	want := root.MerkleRoot(merkle.DefaultHashFn)
	if !merkle.Verify(want, merkle.DefaultHashFn, p) {
		t.Fatal("verify rejected a valid proof")
	}
	p.Leaf[0] ^= 1
	if merkle.Verify(want, merkle.DefaultHashFn, p) {
		t.Fatal("verify accepted a tampered leaf")
	}
}

func TestProveMultiVerifyMultiproof(t *testing.T) {
	root := buildDepth3Tree()
	indices := []merkle.Gindex{
		merkle.ToGindex(1, 3),
		merkle.ToGindex(4, 3),
		merkle.ToGindex(6, 3),
	}
	mp, err := merkle.ProveMulti(root, merkle.DefaultHashFn, indices)
	if err != nil {
		t.Fatalf("prove multi: %v", err)
	}
	want := root.MerkleRoot(merkle.DefaultHashFn)
	ok, err := merkle.VerifyMultiproof(want, merkle.DefaultHashFn, mp)
	if err != nil {
		t.Fatalf("verify multiproof: %v", err)
	}
	if !ok {
		t.Fatal("verify multiproof rejected a valid multiproof")
	}

	tampered := *mp
	tampered.Leaves = append([][32]byte{}, mp.Leaves...)
	tampered.Leaves[0][0] ^= 1
	ok, err = merkle.VerifyMultiproof(want, merkle.DefaultHashFn, &tampered)
	if err != nil {
		t.Fatalf("verify multiproof (tampered): %v", err)
	}
	if ok {
		t.Fatal("verify multiproof accepted a tampered leaf")
	}
}

func TestVerifyMultiproofRejectsMismatchedLengths(t *testing.T) {
	mp := &merkle.Multiproof{
		Indices: []merkle.Gindex{merkle.ToGindex(0, 2)},
		Leaves:  nil,
		Hashes:  nil,
	}
	if _, err := merkle.VerifyMultiproof([32]byte{}, merkle.DefaultHashFn, mp); err == nil {
		t.Fatal("expected error for leaves/indices length mismatch")
	}
}

func TestVerifyMultiproofRejectsEmptyIndices(t *testing.T) {
	mp := &merkle.Multiproof{}
	if _, err := merkle.VerifyMultiproof([32]byte{}, merkle.DefaultHashFn, mp); err == nil {
		t.Fatal("expected error for empty indices")
	}
}
