// Package merkle implements the binary Merkle commitments used across the
// bridge core: content-addressed trees with authentication paths for receipt
// tries and commitment proofs, and SSZ-style branch verification for beacon
// state proofs.
package merkle

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/frostfork/frostbridge/crypto/hash"
	"github.com/frostfork/frostbridge/encoding/bytesutil"
)

// ErrEmptyLeaves is returned when a tree is requested over zero items.
var ErrEmptyLeaves = errors.New("no items provided to generate Merkle tree")

// Side identifies which side of the parent preimage a proof node occupies.
type Side uint8

const (
	// Left means the sibling is the first half of the parent preimage.
	Left Side = iota
	// Right means the sibling is the second half of the parent preimage.
	Right
)

// ProofNode is a single step of an authentication path: a sibling digest and
// the side it takes when concatenated into the parent.
type ProofNode struct {
	Hash [32]byte
	Side Side
}

// Tree is a Merkle commitment over an ordered sequence of items. Level 0
// holds the hashed leaves and the last level holds the single root. An odd
// level's unpaired tail node is promoted to the next level unchanged, never
// hashed with a copy of itself; the counterpart verifier on the bridged chain
// folds proofs under the same rule, so the scheme must not be swapped for the
// usual duplicate-last-leaf construction.
type Tree struct {
	branches      [][][]byte
	originalItems [][]byte // list of provided items before hashing them into leaves.
	hasher        hash.Hasher
}

// NewTree constructs a Merkle tree from a sequence of byte slices, hashing
// each item into its leaf with h.
func NewTree(items [][]byte, h hash.Hasher) (*Tree, error) {
	if len(items) == 0 {
		return nil, ErrEmptyLeaves
	}
	leaves := make([][]byte, len(items))
	for i := range items {
		leaf := h(items[i])
		leaves[i] = leaf[:]
	}
	branches := [][][]byte{leaves}
	for len(branches[len(branches)-1]) > 1 {
		level := branches[len(branches)-1]
		updatedValues := make([][]byte, 0, (len(level)+1)/2)
		for j := 0; j+1 < len(level); j += 2 {
			concat := h(append(level[j], level[j+1]...))
			updatedValues = append(updatedValues, concat[:])
		}
		if len(level)%2 == 1 {
			updatedValues = append(updatedValues, level[len(level)-1])
		}
		branches = append(branches, updatedValues)
	}
	return &Tree{
		branches:      branches,
		originalItems: items,
		hasher:        h,
	}, nil
}

// Root returns the root commitment of the tree.
func (t *Tree) Root() [32]byte {
	return bytesutil.ToBytes32(t.branches[len(t.branches)-1][0])
}

// Items returns the original items passed in when creating the Merkle tree.
func (t *Tree) Items() [][]byte {
	return t.originalItems
}

// Len returns the number of leaves committed to by the tree.
func (t *Tree) Len() int {
	return len(t.originalItems)
}

// MerkleProof computes the authentication path for the given pre-hash item.
// The second return value is false when the item, after hashing, is not
// present in the base level.
func (t *Tree) MerkleProof(item []byte) ([]ProofNode, bool) {
	hashed := t.hasher(item)
	for i, leaf := range t.branches[0] {
		if bytes.Equal(leaf, hashed[:]) {
			proof, err := t.MerkleProofAt(i)
			if err != nil {
				return nil, false
			}
			return proof, true
		}
	}
	return nil, false
}

// MerkleProofAt computes the authentication path for the leaf at the given
// index. Promoted tail nodes contribute no proof node; the index is simply
// remapped to the node's position in the next level.
func (t *Tree) MerkleProofAt(index int) ([]ProofNode, error) {
	if index < 0 {
		return nil, fmt.Errorf("merkle index is negative: %d", index)
	}
	if index >= len(t.branches[0]) {
		return nil, fmt.Errorf("merkle index out of range in tree, max range: %d, received: %d", len(t.branches[0]), index)
	}
	proof := make([]ProofNode, 0, len(t.branches)-1)
	currentIndex := index
	for i := 0; i < len(t.branches)-1; i++ {
		level := t.branches[i]
		if len(level)%2 == 1 && currentIndex == len(level)-1 {
			currentIndex /= 2
			continue
		}
		siblingIdx := currentIndex ^ 1
		side := Left
		if siblingIdx > currentIndex {
			side = Right
		}
		proof = append(proof, ProofNode{
			Hash: bytesutil.ToBytes32(level[siblingIdx]),
			Side: side,
		})
		currentIndex /= 2
	}
	return proof, nil
}

// VerifyProof folds an authentication path over the pre-hash item and reports
// whether the result reproduces root. For each node the running value is
// concatenated on the side opposite the sibling and rehashed.
func VerifyProof(root [32]byte, item []byte, proof []ProofNode, h hash.Hasher) bool {
	node := h(item)
	for _, p := range proof {
		if p.Side == Left {
			node = h(append(p.Hash[:], node[:]...))
		} else {
			node = h(append(node[:], p.Hash[:]...))
		}
	}
	return node == root
}
