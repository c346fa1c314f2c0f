package execution

import (
	"bytes"
	"context"
	"math"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/frostfork/frostbridge/container/merkle"
	"github.com/frostfork/frostbridge/crypto/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockCacheCapacity bounds how many distinct block numbers the cache
// retains before evicting the oldest.
const DefaultBlockCacheCapacity = 5

var (
	// ErrNoFetcher is returned when a cache is constructed without a fetcher.
	ErrNoFetcher = errors.New("no block fetcher configured")
	// ErrReceiptRootMismatch is returned when fetched receipts do not
	// reproduce a block's declared receipts root.
	ErrReceiptRootMismatch = errors.New("receipts do not match declared receipts root")
)

var (
	blockCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_block_cache_hit",
		Help: "The total number of block cache hits.",
	})
	blockCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_block_cache_miss",
		Help: "The total number of block cache misses.",
	})
	blockCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "execution_block_cache_evictions_total",
		Help: "The total number of block numbers evicted from the block cache.",
	})
)

type cacheEntry struct {
	block *Block
	trie  *merkle.Tree
}

// BlockCache holds recently fetched execution blocks together with the
// receipt trie computed from their receipts. Entries are keyed by block hash
// so competing forks at the same height coexist; eviction removes every fork
// of the lowest retained block number at once.
type BlockCache struct {
	capacity int
	fetcher  BlockFetcher
	hasher   hash.Hasher

	mu       sync.RWMutex
	entries  []cacheEntry
	byHash   map[common.Hash]int
	byNumber map[uint64][]int
}

// NewBlockCache creates a cache retaining up to capacity distinct block
// numbers. A nil hasher defaults to Keccak256, the execution chain's
// canonical hash.
func NewBlockCache(capacity int, fetcher BlockFetcher, hasher hash.Hasher) (*BlockCache, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("invalid block cache capacity %d", capacity)
	}
	if fetcher == nil {
		return nil, ErrNoFetcher
	}
	if hasher == nil {
		hasher = hash.Keccak256
	}
	return &BlockCache{
		capacity: capacity,
		fetcher:  fetcher,
		hasher:   hasher,
		byHash:   make(map[common.Hash]int),
		byNumber: make(map[uint64][]int),
	}, nil
}

// Block returns the resident block for the given hash, if cached. It never
// fetches.
func (c *BlockCache) Block(blockHash common.Hash) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byHash[blockHash]
	if !ok {
		return nil, false
	}
	block := *c.entries[idx].block
	return &block, true
}

// ReceiptTrie returns the receipt trie for the given block hash, fetching
// the block and its receipts when not resident. Fetched receipts are only
// admitted when their trie root equals the block's declared receipts root;
// on any failure nothing is cached.
func (c *BlockCache) ReceiptTrie(ctx context.Context, blockHash common.Hash) (*merkle.Tree, error) {
	c.mu.RLock()
	if idx, ok := c.byHash[blockHash]; ok {
		trie := c.entries[idx].trie
		c.mu.RUnlock()
		blockCacheHit.Inc()
		return trie, nil
	}
	c.mu.RUnlock()
	blockCacheMiss.Inc()

	block, receipts, err := c.fetch(ctx, blockHash)
	if err != nil {
		return nil, err
	}
	trie, err := receiptTrie(receipts, block.ReceiptsRoot, c.hasher)
	if err != nil {
		return nil, errors.Wrapf(err, "block %#x", blockHash)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.byHash[blockHash]; ok {
		// Lost a race with a concurrent fill. Keep the resident trie so
		// earlier callers' proofs stay valid against one instance.
		return c.entries[idx].trie, nil
	}
	c.insert(block, trie)
	log.WithFields(logrus.Fields{
		"blockHash":   block.Hash,
		"blockNumber": block.Number,
		"receipts":    trie.Len(),
	}).Debug("Cached execution block receipts")
	return trie, nil
}

// fetch retrieves a block and its receipts concurrently. The first failure
// cancels the sibling fetch.
func (c *BlockCache) fetch(ctx context.Context, blockHash common.Hash) (*Block, gethtypes.Receipts, error) {
	var (
		block    *Block
		receipts gethtypes.Receipts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.fetcher.BlockByHash(gctx, blockHash)
		if err != nil {
			return errors.Wrapf(err, "could not fetch block %#x", blockHash)
		}
		if b == nil {
			return errors.Errorf("fetcher returned nil block %#x", blockHash)
		}
		block = b
		return nil
	})
	g.Go(func() error {
		r, err := c.fetcher.ReceiptsByBlockHash(gctx, blockHash)
		if err != nil {
			return errors.Wrapf(err, "could not fetch receipts for block %#x", blockHash)
		}
		receipts = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return block, receipts, nil
}

// receiptTrie builds the trie over canonical receipt encodings and checks it
// against the declared root.
func receiptTrie(receipts gethtypes.Receipts, declaredRoot common.Hash, h hash.Hasher) (*merkle.Tree, error) {
	leaves := make([][]byte, len(receipts))
	for i, receipt := range receipts {
		encoded, err := receipt.MarshalBinary()
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode receipt %d", i)
		}
		leaves[i] = encoded
	}
	trie, err := merkle.NewTree(leaves, h)
	if err != nil {
		return nil, err
	}
	root := trie.Root()
	if !bytes.Equal(root[:], declaredRoot[:]) {
		return nil, errors.Wrapf(ErrReceiptRootMismatch, "computed %#x, declared %#x", root, declaredRoot)
	}
	return trie, nil
}

// insert assumes the write lock is held and that blockHash is not resident.
func (c *BlockCache) insert(block *Block, trie *merkle.Tree) {
	if _, known := c.byNumber[block.Number]; !known && len(c.byNumber) >= c.capacity {
		c.evictLowest()
	}
	idx := len(c.entries)
	c.entries = append(c.entries, cacheEntry{block: block, trie: trie})
	c.byHash[block.Hash] = idx
	c.byNumber[block.Number] = append(c.byNumber[block.Number], idx)
}

// evictLowest drops every fork of the lowest retained block number.
func (c *BlockCache) evictLowest() {
	lowest := uint64(math.MaxUint64)
	for number := range c.byNumber {
		if number < lowest {
			lowest = number
		}
	}
	indexes := append([]int(nil), c.byNumber[lowest]...)
	// Remove from the back so pending indexes stay valid across swap
	// removals.
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))
	for _, idx := range indexes {
		c.removeAt(idx)
	}
	delete(c.byNumber, lowest)
	blockCacheEvictions.Inc()
	log.WithField("blockNumber", lowest).Debug("Evicted execution block from cache")
}

// removeAt swap-removes the entry at idx and fixes up index references for
// the entry moved into its place.
func (c *BlockCache) removeAt(idx int) {
	removed := c.entries[idx].block
	delete(c.byHash, removed.Hash)

	last := len(c.entries) - 1
	if idx != last {
		moved := c.entries[last]
		c.entries[idx] = moved
		c.byHash[moved.block.Hash] = idx
		siblings := c.byNumber[moved.block.Number]
		for i, v := range siblings {
			if v == last {
				siblings[i] = idx
				break
			}
		}
	}
	c.entries[last] = cacheEntry{}
	c.entries = c.entries[:last]
}
