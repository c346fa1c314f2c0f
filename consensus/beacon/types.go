// Package beacon defines the consensus containers exchanged between the
// bridge core and its collaborators: headers, sync committees, the update
// messages ingested by the light client store, and the compact forms retained
// after verification.
package beacon

import (
	"github.com/prysmaticlabs/go-bitfield"

	types "github.com/prysmaticlabs/eth2-types"
)

// Header is a beacon chain block header.
type Header struct {
	Slot          types.Slot
	ProposerIndex types.ValidatorIndex
	ParentRoot    []byte `ssz-size:"32"`
	StateRoot     []byte `ssz-size:"32"`
	BodyRoot      []byte `ssz-size:"32"`
}

// SyncCommittee is the set of validators that signs attested headers over one
// sync committee period.
type SyncCommittee struct {
	Pubkeys         [][]byte `ssz-size:"512,48"`
	AggregatePubkey []byte   `ssz-size:"48"`
}

// SyncAggregate carries the participation bits and aggregate signature of a
// sync committee over an attested header.
type SyncAggregate struct {
	SyncCommitteeBits      bitfield.Bitvector512 `ssz-size:"64"`
	SyncCommitteeSignature []byte                `ssz-size:"96"`
}

// ForkData is hashed into signature domains so signatures cannot be replayed
// across forks or chains.
type ForkData struct {
	CurrentVersion        []byte `ssz-size:"4"`
	GenesisValidatorsRoot []byte `ssz-size:"32"`
}

// SigningData binds an object root to the domain it was signed under.
type SigningData struct {
	ObjectRoot []byte `ssz-size:"32"`
	Domain     []byte `ssz-size:"32"`
}

// Checkpoint bootstraps the light client store with a trusted finalized
// header and its current sync committee, both proven against the header's
// state root.
type Checkpoint struct {
	Header                     *Header
	CurrentSyncCommittee       *SyncCommittee
	CurrentSyncCommitteeBranch [][]byte `ssz-size:"?,32"`
	ValidatorsRoot             []byte   `ssz-size:"32"`
	BlockRootsRoot             []byte   `ssz-size:"32"`
	BlockRootsBranch           [][]byte `ssz-size:"?,32"`
}

// NextSyncCommitteeUpdate proves the committee for the following period
// against the attested header's state root.
type NextSyncCommitteeUpdate struct {
	NextSyncCommittee       *SyncCommittee
	NextSyncCommitteeBranch [][]byte `ssz-size:"?,32"`
}

// Update advances finality. The sync aggregate signs the attested header; the
// finalized header and the block roots commitment are proven beneath it.
type Update struct {
	AttestedHeader          *Header
	SignatureSlot           types.Slot
	SyncAggregate           *SyncAggregate
	NextSyncCommitteeUpdate *NextSyncCommitteeUpdate
	FinalizedHeader         *Header
	FinalityBranch          [][]byte `ssz-size:"?,32"`
	BlockRootsRoot          []byte   `ssz-size:"32"`
	BlockRootsBranch        [][]byte `ssz-size:"?,32"`
}

// AncestryProof shows a beacon header is committed in the block roots vector
// of a finalized beacon state.
type AncestryProof struct {
	HeaderBranch       [][]byte `ssz-size:"?,32"`
	FinalizedBlockRoot []byte   `ssz-size:"32"`
}

// ExecutionHeaderUpdate imports one execution header: the execution branch
// embeds it in the beacon header's body, and the ancestry proof (absent when
// the beacon header is itself finalized) links the beacon header to finalized
// history.
type ExecutionHeaderUpdate struct {
	Header          *Header
	AncestryProof   *AncestryProof
	ExecutionHeader *CompactExecutionHeader
	ExecutionBranch [][]byte `ssz-size:"?,32"`
}

// CompactExecutionHeader is the execution header subset retained for message
// verification.
type CompactExecutionHeader struct {
	ParentHash   []byte `ssz-size:"32"`
	BlockNumber  uint64
	StateRoot    []byte `ssz-size:"32"`
	ReceiptsRoot []byte `ssz-size:"32"`
	BlockHash    []byte `ssz-size:"32"`
}

// CompactBeaconState is the beacon state subset retained per finalized header
// for later ancestry checks.
type CompactBeaconState struct {
	Slot           types.Slot
	BlockRootsRoot []byte
}

// ExecutionHeaderState records the most recently imported execution header
// and the beacon header it was proven under.
type ExecutionHeaderState struct {
	BeaconBlockRoot []byte
	BeaconSlot      types.Slot
	BlockHash       []byte
	BlockNumber     uint64
}
