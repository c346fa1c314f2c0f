package merkle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostfork/frostbridge/container/merkle"
	"github.com/frostfork/frostbridge/crypto/hash"
)

func makeItems(n int) [][]byte {
	items := make([][]byte, n)
	for i := range items {
		items[i] = []byte{byte(i + 1), 0xAA, byte(n)}
	}
	return items
}

func TestNewTree_EmptyItems(t *testing.T) {
	_, err := merkle.NewTree(nil, hash.Keccak256)
	require.ErrorIs(t, err, merkle.ErrEmptyLeaves)
	_, err = merkle.NewTree([][]byte{}, hash.Keccak256)
	require.ErrorIs(t, err, merkle.ErrEmptyLeaves)
}

func TestTree_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 6, 7, 8, 33} {
		items := makeItems(n)
		tree, err := merkle.NewTree(items, hash.Keccak256)
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			proof, err := tree.MerkleProofAt(i)
			require.NoError(t, err)
			assert.Equal(t, true, merkle.VerifyProof(tree.Root(), items[i], proof, hash.Keccak256), "leaves=%d index=%d", n, i)
		}
	}
}

func TestTree_TamperSensitivity(t *testing.T) {
	items := makeItems(6)
	tree, err := merkle.NewTree(items, hash.Keccak256)
	require.NoError(t, err)
	proof, err := tree.MerkleProofAt(2)
	require.NoError(t, err)
	root := tree.Root()
	require.Equal(t, true, merkle.VerifyProof(root, items[2], proof, hash.Keccak256))

	t.Run("flipped root bit", func(t *testing.T) {
		bad := root
		bad[0] ^= 0x01
		assert.Equal(t, false, merkle.VerifyProof(bad, items[2], proof, hash.Keccak256))
	})
	t.Run("flipped leaf bit", func(t *testing.T) {
		leaf := append([]byte{}, items[2]...)
		leaf[0] ^= 0x01
		assert.Equal(t, false, merkle.VerifyProof(root, leaf, proof, hash.Keccak256))
	})
	t.Run("flipped proof node bit", func(t *testing.T) {
		for i := range proof {
			bad := append([]merkle.ProofNode{}, proof...)
			bad[i].Hash[5] ^= 0x80
			assert.Equal(t, false, merkle.VerifyProof(root, items[2], bad, hash.Keccak256), "node %d", i)
		}
	})
	t.Run("flipped side", func(t *testing.T) {
		bad := append([]merkle.ProofNode{}, proof...)
		if bad[0].Side == merkle.Left {
			bad[0].Side = merkle.Right
		} else {
			bad[0].Side = merkle.Left
		}
		assert.Equal(t, false, merkle.VerifyProof(root, items[2], bad, hash.Keccak256))
	})
}

func TestTree_OddTailPromotion(t *testing.T) {
	h := hash.Keccak256
	items := makeItems(3)
	tree, err := merkle.NewTree(items, h)
	require.NoError(t, err)

	a, b, c := h(items[0]), h(items[1]), h(items[2])
	ab := h(append(a[:], b[:]...))
	want := h(append(ab[:], c[:]...))
	assert.Equal(t, want, tree.Root())

	// The unpaired tail is promoted, so its path pairs only at the top level.
	proof, err := tree.MerkleProofAt(2)
	require.NoError(t, err)
	require.Equal(t, 1, len(proof))
	assert.Equal(t, ab, proof[0].Hash)
	assert.Equal(t, merkle.Left, proof[0].Side)
}

func TestTree_FiveLeafShape(t *testing.T) {
	h := hash.Keccak256
	items := makeItems(5)
	tree, err := merkle.NewTree(items, h)
	require.NoError(t, err)

	leaves := make([][32]byte, 5)
	for i := range items {
		leaves[i] = h(items[i])
	}
	p01 := h(append(leaves[0][:], leaves[1][:]...))
	p23 := h(append(leaves[2][:], leaves[3][:]...))
	p0123 := h(append(p01[:], p23[:]...))
	want := h(append(p0123[:], leaves[4][:]...))
	assert.Equal(t, want, tree.Root())

	proof, err := tree.MerkleProofAt(4)
	require.NoError(t, err)
	require.Equal(t, 1, len(proof))
	assert.Equal(t, p0123, proof[0].Hash)
	assert.Equal(t, merkle.Left, proof[0].Side)
}

func TestTree_SingleLeaf(t *testing.T) {
	item := []byte("only")
	tree, err := merkle.NewTree([][]byte{item}, hash.Keccak256)
	require.NoError(t, err)
	assert.Equal(t, hash.Keccak256(item), tree.Root())
	proof, err := tree.MerkleProofAt(0)
	require.NoError(t, err)
	assert.Equal(t, 0, len(proof))
	assert.Equal(t, true, merkle.VerifyProof(tree.Root(), item, proof, hash.Keccak256))
}

func TestTree_MerkleProofByContent(t *testing.T) {
	items := makeItems(4)
	tree, err := merkle.NewTree(items, hash.Keccak256)
	require.NoError(t, err)

	proof, ok := tree.MerkleProof(items[3])
	require.Equal(t, true, ok)
	assert.Equal(t, true, merkle.VerifyProof(tree.Root(), items[3], proof, hash.Keccak256))

	_, ok = tree.MerkleProof([]byte("not in the tree"))
	assert.Equal(t, false, ok)
}

func TestTree_MerkleProofAt_OutOfRange(t *testing.T) {
	tree, err := merkle.NewTree(makeItems(2), hash.Keccak256)
	require.NoError(t, err)
	_, err = tree.MerkleProofAt(-1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
	_, err = tree.MerkleProofAt(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestTree_Accessors(t *testing.T) {
	items := makeItems(7)
	tree, err := merkle.NewTree(items, hash.Keccak256)
	require.NoError(t, err)
	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, items, tree.Items())
}
