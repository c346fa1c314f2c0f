// Package execution caches execution layer blocks and their receipt tries
// for message verification. The cache owns no trust: fetched receipts are
// admitted only when their trie root reproduces the declared receipts root,
// and callers must still compare that root against verified light client
// state.
package execution

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Block is the compact execution block view the cache retains: just enough
// to key the cache, order eviction, and anchor the receipts commitment.
type Block struct {
	Hash         common.Hash
	Number       uint64
	ParentHash   common.Hash
	ReceiptsRoot common.Hash
	Timestamp    uint64
}

// BlockFetcher supplies blocks and receipts by block hash. Implementations
// wrap whatever transport reaches an execution node; the cache treats all
// fetched data as untrusted until the receipts commitment checks out.
type BlockFetcher interface {
	BlockByHash(ctx context.Context, blockHash common.Hash) (*Block, error)
	ReceiptsByBlockHash(ctx context.Context, blockHash common.Hash) (gethtypes.Receipts, error)
}
