package merkle

import (
	"github.com/frostfork/frostbridge/crypto/hash"
)

// VerifyBranch verifies a fixed-depth Merkle branch for the leaf at the given
// subtree index against a root. Branches of this form commit SSZ container
// fields, so the leaf arrives pre-hashed and sides are derived from the index
// bits rather than carried alongside the siblings.
//
// Spec pseudocode definition:
//
//	def is_valid_merkle_branch(leaf: Bytes32, branch: Sequence[Bytes32], depth: uint64, index: uint64, root: Root) -> bool:
//	  value = leaf
//	  for i in range(depth):
//	    if index // (2**i) % 2:
//	      value = hash(branch[i] + value)
//	    else:
//	      value = hash(value + branch[i])
//	  return value == root
func VerifyBranch(leaf [32]byte, branch [][32]byte, depth, index uint64, root [32]byte, h hash.Hasher) bool {
	if uint64(len(branch)) != depth {
		return false
	}
	if depth >= 64 {
		return false // Index bit selection would overflow.
	}
	node := leaf
	for i := uint64(0); i < depth; i++ {
		if (index/(1<<i))%2 != 0 {
			node = h(append(branch[i][:], node[:]...))
		} else {
			node = h(append(node[:], branch[i][:]...))
		}
	}
	return node == root
}
