package light

import "github.com/pkg/errors"

var (
	// ErrNotBootstrapped is returned when an update arrives before a
	// checkpoint has been imported.
	ErrNotBootstrapped = errors.New("light client store is not bootstrapped")

	// ErrNotSupermajority is returned when sync committee participation is
	// below the required quorum.
	ErrNotSupermajority = errors.New("sync committee participation is not a supermajority")

	// ErrInvalidUpdateSlot is returned when an update's slots are not ordered
	// signature > attested >= finalized.
	ErrInvalidUpdateSlot = errors.New("update slot ordering is invalid")

	// ErrSkippedCommitteePeriod is returned when an update is signed in a
	// period no known committee covers.
	ErrSkippedCommitteePeriod = errors.New("update skips a sync committee period")

	// ErrInvalidFinalityProof is returned when the finalized header is not
	// proven under the attested header's state root.
	ErrInvalidFinalityProof = errors.New("invalid finalized header merkle proof")

	// ErrInvalidBlockRootsProof is returned when the block roots commitment
	// is not proven under the owning state root.
	ErrInvalidBlockRootsProof = errors.New("invalid block roots merkle proof")

	// ErrInvalidCommitteeProof is returned when a sync committee is not
	// proven under the owning state root.
	ErrInvalidCommitteeProof = errors.New("invalid sync committee merkle proof")

	// ErrInvalidCommitteeUpdate is returned when a next sync committee
	// conflicts with the one already stored for the same period, or is
	// supplied for a period the store cannot accept.
	ErrInvalidCommitteeUpdate = errors.New("invalid sync committee update")

	// ErrInvalidAggregate is returned when the sync aggregate signature does
	// not verify against the participating committee keys.
	ErrInvalidAggregate = errors.New("invalid sync committee aggregate signature")

	// ErrInvalidExecutionProof is returned when the execution header is not
	// proven under the beacon header's body root.
	ErrInvalidExecutionProof = errors.New("invalid execution header merkle proof")

	// ErrInvalidAncestryProof is returned when a header's block roots branch
	// does not verify against the finalized state.
	ErrInvalidAncestryProof = errors.New("invalid ancestry merkle proof")

	// ErrHeaderNotFinalized is returned when an execution update references a
	// beacon header newer than finalized history.
	ErrHeaderNotFinalized = errors.New("beacon header is not finalized")

	// ErrFinalizedStateNotStored is returned when a referenced finalized
	// state has been pruned or never existed.
	ErrFinalizedStateNotStored = errors.New("expected finalized beacon state is not stored")

	// ErrSkippedExecutionBlock is returned when execution headers are not
	// imported with sequential block numbers.
	ErrSkippedExecutionBlock = errors.New("execution header import skipped a block")

	// ErrExecutionHeaderTooFarBehind is returned when finality import has
	// outrun execution header import by more than a sync committee period.
	ErrExecutionHeaderTooFarBehind = errors.New("execution header import is too far behind finality")

	// ErrInsufficientFinalizedHistory is returned when execution headers are
	// submitted before enough finalized headers are known to bound ancestry
	// checks.
	ErrInsufficientFinalizedHistory = errors.New("not enough finalized headers to anchor ancestry checks")

	// ErrCommitteeExpiry is reported by Health when the chain has entered a
	// sync committee period the store has no committee for. Finality updates
	// signed in that period will be rejected until a committee update for it
	// is imported.
	ErrCommitteeExpiry = errors.New("no known sync committee covers the current period")
)
