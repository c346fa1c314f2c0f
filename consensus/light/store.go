// Package light implements the beacon light client at the core of the bridge:
// a store of finalized beacon history that is advanced exclusively by verified
// sync committee updates, plus the execution headers proven to descend from
// that history.
//
// The store is passive. It never fetches anything; relayers feed it a trusted
// checkpoint once and signed updates thereafter, and every mutation is the
// atomic outcome of a full verification pass.
package light

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"

	"github.com/frostfork/frostbridge/config/params"
	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/container/merkle"
	"github.com/frostfork/frostbridge/crypto/hash"
	"github.com/frostfork/frostbridge/encoding/bytesutil"
)

// committeeCacheSize bounds the prepared committee cache. Steady state uses
// two entries (current and next period); the rest absorb re-submissions.
const committeeCacheSize = 4

// Store holds the finalized view of one beacon chain: the latest finalized
// header, a bounded history of finalized states for ancestry proofs, the sync
// committees covering the current and next periods, and the execution headers
// imported under that finalized view.
//
// All three submission paths take the store's write lock for their entire
// read-verify-write span, so a rejected update leaves no partial state behind
// and concurrent readers only ever observe fully applied updates.
type Store struct {
	cfg    *params.BeaconChainConfig
	hasher hash.Hasher

	lock sync.RWMutex

	initialCheckpointRoot common.Hash
	validatorsRoot        common.Hash

	latestFinalizedHeader beacon.Header
	latestFinalizedRoot   common.Hash
	finalizedStates       map[common.Hash]beacon.CompactBeaconState
	finalizedOrder        []common.Hash

	currentCommittee *preparedCommittee
	nextCommittee    *preparedCommittee

	executionHeaders     map[common.Hash]beacon.CompactExecutionHeader
	executionOrder       []common.Hash
	latestExecutionState beacon.ExecutionHeaderState

	committeeCache *lru.Cache
}

// Option modifies a store under construction.
type Option func(*Store) error

// WithHasher sets the hash function used for merkle branch verification.
// Defaults to SHA-256.
func WithHasher(h hash.Hasher) Option {
	return func(s *Store) error {
		s.hasher = h
		return nil
	}
}

// WithCommitteeCacheSize overrides the prepared committee cache size.
func WithCommitteeCacheSize(size int) Option {
	return func(s *Store) error {
		cache, err := lru.New(size)
		if err != nil {
			return err
		}
		s.committeeCache = cache
		return nil
	}
}

// New creates an empty store for the given chain configuration. The store
// rejects all updates until a checkpoint is imported with ForceCheckpoint.
func New(cfg *params.BeaconChainConfig, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("nil beacon chain config")
	}
	cache, err := lru.New(committeeCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Store{
		cfg:              cfg,
		hasher:           hash.CustomSHA256Hasher(),
		finalizedStates:  make(map[common.Hash]beacon.CompactBeaconState),
		executionHeaders: make(map[common.Hash]beacon.CompactExecutionHeader),
		committeeCache:   cache,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Bootstrapped reports whether a checkpoint has been imported.
func (s *Store) Bootstrapped() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.currentCommittee != nil
}

// LatestFinalized returns a copy of the latest finalized beacon header and its
// hash tree root.
func (s *Store) LatestFinalized() (beacon.Header, common.Hash, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.currentCommittee == nil {
		return beacon.Header{}, common.Hash{}, ErrNotBootstrapped
	}
	return copyHeader(s.latestFinalizedHeader), s.latestFinalizedRoot, nil
}

// FinalizedState returns the compact beacon state stored for the given
// finalized block root, if it is still retained.
func (s *Store) FinalizedState(root common.Hash) (beacon.CompactBeaconState, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	state, ok := s.finalizedStates[root]
	if !ok {
		return beacon.CompactBeaconState{}, false
	}
	state.BlockRootsRoot = bytesutil.SafeCopyBytes(state.BlockRootsRoot)
	return state, true
}

// ExecutionHeader returns the compact execution header stored for the given
// execution block hash, if it is still retained.
func (s *Store) ExecutionHeader(blockHash common.Hash) (beacon.CompactExecutionHeader, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	header, ok := s.executionHeaders[blockHash]
	if !ok {
		return beacon.CompactExecutionHeader{}, false
	}
	return copyExecutionHeader(header), true
}

// LatestExecutionState returns the import position of the execution header
// chain: the newest accepted header and the beacon slot it was proven under.
func (s *Store) LatestExecutionState() beacon.ExecutionHeaderState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	state := s.latestExecutionState
	state.BeaconBlockRoot = bytesutil.SafeCopyBytes(state.BeaconBlockRoot)
	state.BlockHash = bytesutil.SafeCopyBytes(state.BlockHash)
	return state
}

// ValidatorsRoot returns the genesis validators root the store verifies
// signatures against.
func (s *Store) ValidatorsRoot() common.Hash {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.validatorsRoot
}

// InitialCheckpointRoot returns the root of the header the store was
// bootstrapped from.
func (s *Store) InitialCheckpointRoot() common.Hash {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.initialCheckpointRoot
}

// NextCommitteeKnown reports whether the committee for the period after the
// latest finalized header is already stored.
func (s *Store) NextCommitteeKnown() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.nextCommittee != nil
}

// CurrentCommitteePeriod returns the sync committee period of the latest
// finalized header, the period the current committee covers.
func (s *Store) CurrentCommitteePeriod() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.cfg.SyncCommitteePeriod(s.latestFinalizedHeader.Slot)
}

// Health reports conditions an operator must act on, evaluated against the
// given wall clock slot. It returns ErrNotBootstrapped before a checkpoint,
// ErrCommitteeExpiry once the chain has moved into a period no known
// committee covers, and ErrExecutionHeaderTooFarBehind when execution header
// import has fallen more than a period behind finality. A nil return means
// the store can keep following the chain.
func (s *Store) Health(currentSlot types.Slot) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.currentCommittee == nil {
		return ErrNotBootstrapped
	}
	if s.nextCommittee == nil &&
		s.cfg.SyncCommitteePeriod(currentSlot) > s.cfg.SyncCommitteePeriod(s.latestFinalizedHeader.Slot) {
		return ErrCommitteeExpiry
	}
	return s.crossCheckExecutionState()
}

// storeFinalizedState records a finalized header together with the block
// roots commitment of its state, advances the latest finalized pointer, and
// prunes the oldest retained states beyond the retention bound.
func (s *Store) storeFinalizedState(root common.Hash, header beacon.Header, blockRootsRoot []byte) {
	s.finalizedStates[root] = beacon.CompactBeaconState{
		Slot:           header.Slot,
		BlockRootsRoot: bytesutil.SafeCopyBytes(blockRootsRoot),
	}
	s.finalizedOrder = append(s.finalizedOrder, root)
	s.latestFinalizedHeader = copyHeader(header)
	s.latestFinalizedRoot = root

	for uint64(len(s.finalizedOrder)) > s.cfg.MaxFinalizedStatesToKeep {
		oldest := s.finalizedOrder[0]
		s.finalizedOrder = s.finalizedOrder[1:]
		delete(s.finalizedStates, oldest)
	}

	latestFinalizedSlot.Set(float64(header.Slot))
	finalityUpdatesImported.Inc()
	log.WithFields(logrus.Fields{
		"slot": header.Slot,
		"root": fmt.Sprintf("%#x", root),
	}).Info("Stored finalized beacon header")
}

// storeExecutionHeader records a verified execution header keyed by its block
// hash, advances the latest execution state, and prunes the oldest retained
// headers beyond the retention bound.
func (s *Store) storeExecutionHeader(blockHash common.Hash, header beacon.CompactExecutionHeader, beaconSlot types.Slot, beaconRoot common.Hash) {
	s.executionHeaders[blockHash] = copyExecutionHeader(header)
	s.executionOrder = append(s.executionOrder, blockHash)
	s.latestExecutionState = beacon.ExecutionHeaderState{
		BeaconBlockRoot: beaconRoot.Bytes(),
		BeaconSlot:      beaconSlot,
		BlockHash:       blockHash.Bytes(),
		BlockNumber:     header.BlockNumber,
	}

	for uint64(len(s.executionOrder)) > s.cfg.MaxExecutionHeadersToKeep {
		oldest := s.executionOrder[0]
		s.executionOrder = s.executionOrder[1:]
		delete(s.executionHeaders, oldest)
	}

	latestExecutionBlock.Set(float64(header.BlockNumber))
	executionHeadersImported.Inc()
	log.WithFields(logrus.Fields{
		"blockNumber": header.BlockNumber,
		"blockHash":   fmt.Sprintf("%#x", blockHash),
		"beaconSlot":  beaconSlot,
	}).Debug("Stored execution header")
}

// verifyBranch checks a merkle branch carried as raw 32 byte nodes.
func (s *Store) verifyBranch(leaf [32]byte, branch [][]byte, depth, index uint64, root []byte) bool {
	nodes := make([][32]byte, len(branch))
	for i, n := range branch {
		nodes[i] = bytesutil.ToBytes32(n)
	}
	return merkle.VerifyBranch(leaf, nodes, depth, index, bytesutil.ToBytes32(root), s.hasher)
}

func copyHeader(h beacon.Header) beacon.Header {
	return beacon.Header{
		Slot:          h.Slot,
		ProposerIndex: h.ProposerIndex,
		ParentRoot:    bytesutil.SafeCopyBytes(h.ParentRoot),
		StateRoot:     bytesutil.SafeCopyBytes(h.StateRoot),
		BodyRoot:      bytesutil.SafeCopyBytes(h.BodyRoot),
	}
}

func copyExecutionHeader(h beacon.CompactExecutionHeader) beacon.CompactExecutionHeader {
	return beacon.CompactExecutionHeader{
		ParentHash:   bytesutil.SafeCopyBytes(h.ParentHash),
		BlockNumber:  h.BlockNumber,
		StateRoot:    bytesutil.SafeCopyBytes(h.StateRoot),
		ReceiptsRoot: bytesutil.SafeCopyBytes(h.ReceiptsRoot),
		BlockHash:    bytesutil.SafeCopyBytes(h.BlockHash),
	}
}
