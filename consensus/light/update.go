package light

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"

	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/consensus/signing"
	"github.com/frostfork/frostbridge/crypto/bls"
	"github.com/frostfork/frostbridge/encoding/bytesutil"
)

// Submit verifies a sync committee update and, on success, applies it: the
// latest finalized header advances when the update finalizes a newer slot,
// and sync committees are stored or rotated as period boundaries are crossed.
//
// Updates that can no longer move the store, redeliveries of already
// finalized history included, are benign no-ops and return nil. Every
// rejection is one of the package's sentinel errors, possibly wrapped, and
// leaves the store untouched.
func (s *Store) Submit(update *beacon.Update) error {
	if update == nil || update.AttestedHeader == nil || update.FinalizedHeader == nil || update.SyncAggregate == nil {
		return errors.New("nil update")
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.currentCommittee == nil {
		return ErrNotBootstrapped
	}
	// At-least-once delivery redelivers updates for history the store has
	// already finalized. Unless such an update carries the missing next
	// committee it cannot change anything, so it is skipped before any
	// signature work.
	if s.updateIsNoOp(update) {
		log.WithFields(logrus.Fields{
			"attestedSlot":  update.AttestedHeader.Slot,
			"finalizedSlot": s.latestFinalizedHeader.Slot,
		}).Debug("Skipping update for already finalized history")
		return nil
	}
	if err := s.crossCheckExecutionState(); err != nil {
		return err
	}
	finalizedRoot, nextPrepared, err := s.verifyUpdate(update)
	if err != nil {
		return err
	}
	s.applyUpdate(update, finalizedRoot, nextPrepared)
	return nil
}

// updateIsNoOp reports whether an update can neither advance finality nor
// contribute a sync committee the store is missing.
func (s *Store) updateIsNoOp(update *beacon.Update) bool {
	if update.AttestedHeader.Slot > s.latestFinalizedHeader.Slot {
		return false
	}
	hasNextContribution := s.nextCommittee == nil &&
		update.NextSyncCommitteeUpdate != nil &&
		s.cfg.SyncCommitteePeriod(update.AttestedHeader.Slot) == s.cfg.SyncCommitteePeriod(s.latestFinalizedHeader.Slot)
	return !hasNextContribution
}

// crossCheckExecutionState refuses further finality imports when execution
// header imports have fallen more than one sync committee period behind, so
// that ancestry proofs for pending execution headers cannot be pruned out
// from under the relayer.
func (s *Store) crossCheckExecutionState() error {
	if s.latestExecutionState.BeaconSlot == 0 {
		return nil
	}
	maxLatency := types.Slot(s.cfg.SlotsPerSyncCommitteePeriod())
	if s.latestFinalizedHeader.Slot >= s.latestExecutionState.BeaconSlot+maxLatency {
		return ErrExecutionHeaderTooFarBehind
	}
	return nil
}

// verifyUpdate runs every check an update must pass before anything is
// mutated. It returns the finalized header root and the prepared next
// committee (when the update carries one) so apply cannot fail afterwards.
func (s *Store) verifyUpdate(update *beacon.Update) ([32]byte, *preparedCommittee, error) {
	var zero [32]byte
	agg := update.SyncAggregate

	// Participation quorum comes before any expensive work.
	if uint64(len(agg.SyncCommitteeBits)) != s.cfg.SyncCommitteeSize/8 {
		return zero, nil, errors.New("invalid sync committee bits length")
	}
	participants := agg.SyncCommitteeBits.Count()
	if participants*s.cfg.SupermajorityDenominator < s.cfg.SyncCommitteeSize*s.cfg.SupermajorityNumerator {
		return zero, nil, ErrNotSupermajority
	}

	if update.SignatureSlot <= update.AttestedHeader.Slot || update.AttestedHeader.Slot < update.FinalizedHeader.Slot {
		return zero, nil, ErrInvalidUpdateSlot
	}

	storePeriod := s.cfg.SyncCommitteePeriod(s.latestFinalizedHeader.Slot)
	signaturePeriod := s.cfg.SyncCommitteePeriod(update.SignatureSlot)
	if s.nextCommittee != nil {
		if signaturePeriod != storePeriod && signaturePeriod != storePeriod+1 {
			return zero, nil, ErrSkippedCommitteePeriod
		}
	} else if signaturePeriod != storePeriod {
		if signaturePeriod == storePeriod+1 {
			log.WithField("period", storePeriod).Warn("Next sync committee unknown, import a committee update before the period ends")
		}
		return zero, nil, ErrSkippedCommitteePeriod
	}

	finalizedRoot, err := update.FinalizedHeader.HashTreeRoot()
	if err != nil {
		return zero, nil, errors.Wrap(err, "could not hash finalized header")
	}
	if !s.verifyBranch(finalizedRoot, update.FinalityBranch, s.cfg.FinalizedRootDepth, s.cfg.FinalizedRootIndex, update.AttestedHeader.StateRoot) {
		return zero, nil, ErrInvalidFinalityProof
	}

	// The block roots commitment of the finalized state is proven here and
	// retained for later ancestry checks on execution header imports.
	if !s.verifyBranch(bytesutil.ToBytes32(update.BlockRootsRoot), update.BlockRootsBranch, s.cfg.BlockRootsDepth, s.cfg.BlockRootsIndex, update.FinalizedHeader.StateRoot) {
		return zero, nil, ErrInvalidBlockRootsProof
	}

	var nextPrepared *preparedCommittee
	if nu := update.NextSyncCommitteeUpdate; nu != nil {
		if nu.NextSyncCommittee == nil {
			return zero, nil, errors.New("nil next sync committee")
		}
		prepared, err := s.prepareCommittee(nu.NextSyncCommittee)
		if err != nil {
			return zero, nil, errors.Wrap(err, "could not prepare next sync committee")
		}
		attestedPeriod := s.cfg.SyncCommitteePeriod(update.AttestedHeader.Slot)
		if s.nextCommittee != nil && attestedPeriod == storePeriod && prepared.root != s.nextCommittee.root {
			return zero, nil, ErrInvalidCommitteeUpdate
		}
		if s.nextCommittee == nil && s.cfg.SyncCommitteePeriod(update.FinalizedHeader.Slot) != storePeriod {
			return zero, nil, ErrInvalidCommitteeUpdate
		}
		if !s.verifyBranch(prepared.root, nu.NextSyncCommitteeBranch, s.cfg.NextSyncCommitteeDepth, s.cfg.NextSyncCommitteeIndex, update.AttestedHeader.StateRoot) {
			return zero, nil, ErrInvalidCommitteeProof
		}
		nextPrepared = prepared
	}

	committee := s.currentCommittee
	if signaturePeriod != storePeriod {
		committee = s.nextCommittee
	}
	if err := s.verifyAggregate(committee, update); err != nil {
		return zero, nil, err
	}
	return finalizedRoot, nextPrepared, nil
}

// verifyAggregate checks the sync aggregate signature over the attested
// header against the participating subset of the given committee.
func (s *Store) verifyAggregate(committee *preparedCommittee, update *beacon.Update) error {
	agg := update.SyncAggregate
	sig, err := bls.SignatureFromBytes(agg.SyncCommitteeSignature)
	if err != nil {
		return errors.Wrapf(ErrInvalidAggregate, "could not deserialize signature: %v", err)
	}
	participants := make([]*bls.PublicKey, 0, len(committee.pubkeys))
	for i := 0; i < len(committee.pubkeys); i++ {
		if agg.SyncCommitteeBits.BitAt(uint64(i)) {
			participants = append(participants, committee.pubkeys[i])
		}
	}
	signingRoot, err := s.signingRoot(update.AttestedHeader, update.SignatureSlot)
	if err != nil {
		return errors.Wrap(err, "could not compute signing root")
	}
	if !sig.FastAggregateVerify(participants, signingRoot) {
		return ErrInvalidAggregate
	}
	return nil
}

// signingRoot computes the root the sync committee signs: the attested
// header root bound to the sync committee domain of the fork active at the
// signature slot.
func (s *Store) signingRoot(header *beacon.Header, signatureSlot types.Slot) ([32]byte, error) {
	forkVersion := s.cfg.ForkVersion(s.cfg.EpochAtSlot(signatureSlot))
	domain, err := signing.ComputeDomain(s.cfg.DomainSyncCommittee, forkVersion[:], s.validatorsRoot.Bytes())
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute domain")
	}
	return signing.ComputeSigningRoot(header, domain)
}

// applyUpdate mutates the store with an already verified update. It cannot
// fail; every fallible step ran during verification.
func (s *Store) applyUpdate(update *beacon.Update, finalizedRoot [32]byte, nextPrepared *preparedCommittee) {
	storePeriod := s.cfg.SyncCommitteePeriod(s.latestFinalizedHeader.Slot)
	updateFinalizedPeriod := s.cfg.SyncCommitteePeriod(update.FinalizedHeader.Slot)

	switch {
	case nextPrepared != nil && s.nextCommittee == nil:
		s.nextCommittee = nextPrepared
		log.WithField("period", storePeriod+1).Info("Stored next sync committee")
	case nextPrepared != nil && updateFinalizedPeriod == storePeriod+1:
		s.currentCommittee = s.nextCommittee
		s.nextCommittee = nextPrepared
		committeeRotations.Inc()
		log.WithFields(logrus.Fields{
			"period": updateFinalizedPeriod,
		}).Info("Rotated sync committees")
	case nextPrepared == nil && s.nextCommittee != nil && updateFinalizedPeriod == storePeriod+1:
		s.currentCommittee = s.nextCommittee
		s.nextCommittee = nil
		committeeRotations.Inc()
		log.WithFields(logrus.Fields{
			"period": updateFinalizedPeriod,
		}).Info("Rotated sync committees without a replacement next committee")
	}
	if s.nextCommittee != nil {
		nextCommitteeKnown.Set(1)
	} else {
		nextCommitteeKnown.Set(0)
	}

	if update.FinalizedHeader.Slot > s.latestFinalizedHeader.Slot {
		s.storeFinalizedState(common.Hash(finalizedRoot), *update.FinalizedHeader, update.BlockRootsRoot)
	}
}
