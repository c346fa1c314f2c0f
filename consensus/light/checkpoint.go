package light

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/encoding/bytesutil"
)

// ForceCheckpoint installs a trusted finalized header and its current sync
// committee as the store's new root of trust. Both the committee and the
// block roots commitment must be proven against the header's state root.
//
// This is the privileged bootstrap path. Calling it on a live store performs
// a hard reset: all retained finalized states and execution headers are
// dropped with the old trust root.
func (s *Store) ForceCheckpoint(cp *beacon.Checkpoint) error {
	if cp == nil || cp.Header == nil || cp.CurrentSyncCommittee == nil {
		return errors.New("nil checkpoint")
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	committeeRoot, err := cp.CurrentSyncCommittee.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash sync committee")
	}
	if !s.verifyBranch(committeeRoot, cp.CurrentSyncCommitteeBranch, s.cfg.CurrentSyncCommitteeDepth, s.cfg.CurrentSyncCommitteeIndex, cp.Header.StateRoot) {
		return ErrInvalidCommitteeProof
	}
	if !s.verifyBranch(bytesutil.ToBytes32(cp.BlockRootsRoot), cp.BlockRootsBranch, s.cfg.BlockRootsDepth, s.cfg.BlockRootsIndex, cp.Header.StateRoot) {
		return ErrInvalidBlockRootsProof
	}
	headerRoot, err := cp.Header.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash checkpoint header")
	}
	prepared, err := s.prepareCommittee(cp.CurrentSyncCommittee)
	if err != nil {
		return errors.Wrap(err, "could not prepare sync committee")
	}

	s.currentCommittee = prepared
	s.nextCommittee = nil
	s.initialCheckpointRoot = common.Hash(headerRoot)
	s.validatorsRoot = common.BytesToHash(cp.ValidatorsRoot)
	s.finalizedStates = make(map[common.Hash]beacon.CompactBeaconState)
	s.finalizedOrder = nil
	s.executionHeaders = make(map[common.Hash]beacon.CompactExecutionHeader)
	s.executionOrder = nil
	s.latestExecutionState = beacon.ExecutionHeaderState{}
	nextCommitteeKnown.Set(0)
	latestExecutionBlock.Set(0)

	s.storeFinalizedState(common.Hash(headerRoot), *cp.Header, cp.BlockRootsRoot)

	log.WithFields(logrus.Fields{
		"slot": cp.Header.Slot,
		"root": fmt.Sprintf("%#x", headerRoot),
	}).Info("Imported checkpoint")
	return nil
}
