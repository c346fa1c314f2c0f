package light

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"

	"github.com/frostfork/frostbridge/consensus/beacon"
)

// SubmitExecutionHeader verifies that an execution header belongs to the body
// of a finalized beacon header and, on success, stores its compact form keyed
// by execution block hash.
//
// The beacon header is tied to finalized history one of two ways: an ancestry
// proof against the block roots vector of a retained finalized state, or, when
// no proof is supplied, by being a retained finalized header itself. Execution
// headers must arrive with sequential block numbers.
func (s *Store) SubmitExecutionHeader(update *beacon.ExecutionHeaderUpdate) error {
	if update == nil || update.Header == nil || update.ExecutionHeader == nil {
		return errors.New("nil execution header update")
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.currentCommittee == nil {
		return ErrNotBootstrapped
	}
	// A single finalized header cannot bound an ancestry check, so imports
	// only open up once finality has advanced past the checkpoint.
	if len(s.finalizedOrder) < 2 {
		return ErrInsufficientFinalizedHistory
	}
	if update.Header.Slot > s.latestFinalizedHeader.Slot {
		return ErrHeaderNotFinalized
	}

	executionRoot, err := update.ExecutionHeader.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash execution header")
	}
	if !s.verifyBranch(executionRoot, update.ExecutionBranch, s.cfg.ExecutionHeaderDepth, s.cfg.ExecutionHeaderIndex, update.Header.BodyRoot) {
		return ErrInvalidExecutionProof
	}

	headerRoot, err := update.Header.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash beacon header")
	}
	if proof := update.AncestryProof; proof != nil {
		if err := s.verifyAncestry(headerRoot, update.Header.Slot, proof); err != nil {
			return err
		}
	} else {
		state, ok := s.finalizedStates[common.Hash(headerRoot)]
		if !ok || state.Slot != update.Header.Slot {
			return ErrFinalizedStateNotStored
		}
	}

	if s.latestExecutionState.BlockNumber != 0 && update.ExecutionHeader.BlockNumber != s.latestExecutionState.BlockNumber+1 {
		return ErrSkippedExecutionBlock
	}

	blockHash := common.BytesToHash(update.ExecutionHeader.BlockHash)
	s.storeExecutionHeader(blockHash, *update.ExecutionHeader, update.Header.Slot, common.Hash(headerRoot))
	return nil
}

// verifyAncestry proves a beacon header root sits in the block roots vector
// of a retained finalized state. The leaf index inside the state is the
// block roots field offset plus the slot's position in the vector.
func (s *Store) verifyAncestry(blockRoot [32]byte, blockSlot types.Slot, proof *beacon.AncestryProof) error {
	state, ok := s.finalizedStates[common.BytesToHash(proof.FinalizedBlockRoot)]
	if !ok {
		return ErrFinalizedStateNotStored
	}
	if blockSlot >= state.Slot {
		return ErrHeaderNotFinalized
	}
	slotsPerHistoricalRoot := uint64(s.cfg.SlotsPerHistoricalRoot)
	leafIndex := slotsPerHistoricalRoot + uint64(blockSlot)%slotsPerHistoricalRoot
	if !s.verifyBranch(blockRoot, proof.HeaderBranch, s.cfg.BlockRootAtIndexDepth, leafIndex, state.BlockRootsRoot) {
		return ErrInvalidAncestryProof
	}
	return nil
}
