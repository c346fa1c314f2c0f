// Package api defines the JSON shapes exchanged with beacon node REST
// endpoints and the relayer's own submission surface. Every response struct
// carries string fields exactly as they appear on the wire; conversion into
// the consensus containers goes through one shared normalization layer so
// hex prefixes, field widths, and integer parsing are handled uniformly.
package api

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	fieldparams "github.com/frostfork/frostbridge/config/fieldparams"
	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"

	types "github.com/prysmaticlabs/eth2-types"
)

type HeaderResponse struct {
	Slot          string `json:"slot"`
	ProposerIndex string `json:"proposer_index"`
	ParentRoot    string `json:"parent_root"`
	StateRoot     string `json:"state_root"`
	BodyRoot      string `json:"body_root"`
}

type SyncCommitteeResponse struct {
	Pubkeys         []string `json:"pubkeys"`
	AggregatePubkey string   `json:"aggregate_pubkey"`
}

type SyncAggregateResponse struct {
	SyncCommitteeBits      string `json:"sync_committee_bits"`
	SyncCommitteeSignature string `json:"sync_committee_signature"`
}

// CheckpointResponse is the bootstrap payload: a trusted header plus the
// current sync committee and the branches proving both commitments.
type CheckpointResponse struct {
	Header                     HeaderResponse        `json:"header"`
	CurrentSyncCommittee       SyncCommitteeResponse `json:"current_sync_committee"`
	CurrentSyncCommitteeBranch []string              `json:"current_sync_committee_branch"`
	ValidatorsRoot             string                `json:"validators_root"`
	BlockRootsRoot             string                `json:"block_roots_root"`
	BlockRootsBranch           []string              `json:"block_roots_branch"`
}

type NextSyncCommitteeUpdateResponse struct {
	NextSyncCommittee       SyncCommitteeResponse `json:"next_sync_committee"`
	NextSyncCommitteeBranch []string              `json:"next_sync_committee_branch"`
}

type UpdateResponse struct {
	AttestedHeader          HeaderResponse                   `json:"attested_header"`
	SignatureSlot           string                           `json:"signature_slot"`
	SyncAggregate           SyncAggregateResponse            `json:"sync_aggregate"`
	NextSyncCommitteeUpdate *NextSyncCommitteeUpdateResponse `json:"next_sync_committee_update,omitempty"`
	FinalizedHeader         HeaderResponse                   `json:"finalized_header"`
	FinalityBranch          []string                         `json:"finality_branch"`
	BlockRootsRoot          string                           `json:"block_roots_root"`
	BlockRootsBranch        []string                         `json:"block_roots_branch"`
}

type AncestryProofResponse struct {
	HeaderBranch       []string `json:"header_branch"`
	FinalizedBlockRoot string   `json:"finalized_block_root"`
}

type ExecutionHeaderResponse struct {
	ParentHash   string `json:"parent_hash"`
	BlockNumber  string `json:"block_number"`
	StateRoot    string `json:"state_root"`
	ReceiptsRoot string `json:"receipts_root"`
	BlockHash    string `json:"block_hash"`
}

// HeaderUpdateResponse imports one execution header. The ancestry proof is
// omitted when the beacon header is itself a stored finalized header.
type HeaderUpdateResponse struct {
	Header          HeaderResponse          `json:"header"`
	AncestryProof   *AncestryProofResponse  `json:"ancestry_proof,omitempty"`
	ExecutionHeader ExecutionHeaderResponse `json:"execution_header"`
	ExecutionBranch []string                `json:"execution_branch"`
}

func (h HeaderResponse) ToHeader() (*beacon.Header, error) {
	slot, err := decodeUint64(h.Slot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse slot")
	}
	proposerIndex, err := decodeUint64(h.ProposerIndex)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse proposer index")
	}
	parentRoot, err := decodeHash(h.ParentRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse parent root")
	}
	stateRoot, err := decodeHash(h.StateRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse state root")
	}
	bodyRoot, err := decodeHash(h.BodyRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse body root")
	}
	return &beacon.Header{
		Slot:          types.Slot(slot),
		ProposerIndex: types.ValidatorIndex(proposerIndex),
		ParentRoot:    parentRoot,
		StateRoot:     stateRoot,
		BodyRoot:      bodyRoot,
	}, nil
}

func (s SyncCommitteeResponse) ToSyncCommittee() (*beacon.SyncCommittee, error) {
	if len(s.Pubkeys) != fieldparams.SyncCommitteeLength {
		return nil, errors.Errorf("expected %d sync committee pubkeys, got %d", fieldparams.SyncCommitteeLength, len(s.Pubkeys))
	}
	pubkeys := make([][]byte, len(s.Pubkeys))
	for i, pubkey := range s.Pubkeys {
		decoded, err := decodeBytes48(pubkey)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse pubkey %d", i)
		}
		pubkeys[i] = decoded
	}
	aggregate, err := decodeBytes48(s.AggregatePubkey)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse aggregate pubkey")
	}
	return &beacon.SyncCommittee{
		Pubkeys:         pubkeys,
		AggregatePubkey: aggregate,
	}, nil
}

func (s SyncAggregateResponse) ToSyncAggregate() (*beacon.SyncAggregate, error) {
	bits, err := decodeBitvector(s.SyncCommitteeBits)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse sync committee bits")
	}
	signature, err := decodeBytes96(s.SyncCommitteeSignature)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse sync committee signature")
	}
	return &beacon.SyncAggregate{
		SyncCommitteeBits:      bitfield.Bitvector512(bits),
		SyncCommitteeSignature: signature,
	}, nil
}

func (c CheckpointResponse) ToCheckpoint() (*beacon.Checkpoint, error) {
	header, err := c.Header.ToHeader()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse header")
	}
	committee, err := c.CurrentSyncCommittee.ToSyncCommittee()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse current sync committee")
	}
	committeeBranch, err := decodeBranch(c.CurrentSyncCommitteeBranch)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse current sync committee branch")
	}
	validatorsRoot, err := decodeHash(c.ValidatorsRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse validators root")
	}
	blockRootsRoot, err := decodeHash(c.BlockRootsRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse block roots root")
	}
	blockRootsBranch, err := decodeBranch(c.BlockRootsBranch)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse block roots branch")
	}
	return &beacon.Checkpoint{
		Header:                     header,
		CurrentSyncCommittee:       committee,
		CurrentSyncCommitteeBranch: committeeBranch,
		ValidatorsRoot:             validatorsRoot,
		BlockRootsRoot:             blockRootsRoot,
		BlockRootsBranch:           blockRootsBranch,
	}, nil
}

func (u UpdateResponse) ToUpdate() (*beacon.Update, error) {
	attested, err := u.AttestedHeader.ToHeader()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse attested header")
	}
	signatureSlot, err := decodeUint64(u.SignatureSlot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse signature slot")
	}
	aggregate, err := u.SyncAggregate.ToSyncAggregate()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse sync aggregate")
	}
	var nextCommitteeUpdate *beacon.NextSyncCommitteeUpdate
	if u.NextSyncCommitteeUpdate != nil {
		committee, err := u.NextSyncCommitteeUpdate.NextSyncCommittee.ToSyncCommittee()
		if err != nil {
			return nil, errors.Wrap(err, "could not parse next sync committee")
		}
		branch, err := decodeBranch(u.NextSyncCommitteeUpdate.NextSyncCommitteeBranch)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse next sync committee branch")
		}
		nextCommitteeUpdate = &beacon.NextSyncCommitteeUpdate{
			NextSyncCommittee:       committee,
			NextSyncCommitteeBranch: branch,
		}
	}
	finalized, err := u.FinalizedHeader.ToHeader()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse finalized header")
	}
	finalityBranch, err := decodeBranch(u.FinalityBranch)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse finality branch")
	}
	blockRootsRoot, err := decodeHash(u.BlockRootsRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse block roots root")
	}
	blockRootsBranch, err := decodeBranch(u.BlockRootsBranch)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse block roots branch")
	}
	return &beacon.Update{
		AttestedHeader:          attested,
		SignatureSlot:           types.Slot(signatureSlot),
		SyncAggregate:           aggregate,
		NextSyncCommitteeUpdate: nextCommitteeUpdate,
		FinalizedHeader:         finalized,
		FinalityBranch:          finalityBranch,
		BlockRootsRoot:          blockRootsRoot,
		BlockRootsBranch:        blockRootsBranch,
	}, nil
}

func (e ExecutionHeaderResponse) ToExecutionHeader() (*beacon.CompactExecutionHeader, error) {
	parentHash, err := decodeHash(e.ParentHash)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse parent hash")
	}
	blockNumber, err := decodeUint64(e.BlockNumber)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse block number")
	}
	stateRoot, err := decodeHash(e.StateRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse state root")
	}
	receiptsRoot, err := decodeHash(e.ReceiptsRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse receipts root")
	}
	blockHash, err := decodeHash(e.BlockHash)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse block hash")
	}
	return &beacon.CompactExecutionHeader{
		ParentHash:   parentHash,
		BlockNumber:  blockNumber,
		StateRoot:    stateRoot,
		ReceiptsRoot: receiptsRoot,
		BlockHash:    blockHash,
	}, nil
}

func (h HeaderUpdateResponse) ToExecutionHeaderUpdate() (*beacon.ExecutionHeaderUpdate, error) {
	header, err := h.Header.ToHeader()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse header")
	}
	var ancestryProof *beacon.AncestryProof
	if h.AncestryProof != nil {
		headerBranch, err := decodeBranch(h.AncestryProof.HeaderBranch)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse ancestry header branch")
		}
		finalizedBlockRoot, err := decodeHash(h.AncestryProof.FinalizedBlockRoot)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse finalized block root")
		}
		ancestryProof = &beacon.AncestryProof{
			HeaderBranch:       headerBranch,
			FinalizedBlockRoot: finalizedBlockRoot,
		}
	}
	executionHeader, err := h.ExecutionHeader.ToExecutionHeader()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse execution header")
	}
	executionBranch, err := decodeBranch(h.ExecutionBranch)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse execution branch")
	}
	return &beacon.ExecutionHeaderUpdate{
		Header:          header,
		AncestryProof:   ancestryProof,
		ExecutionHeader: executionHeader,
		ExecutionBranch: executionBranch,
	}, nil
}

// HeaderFromTypes re-encodes a header for submission or serving.
func HeaderFromTypes(h *beacon.Header) HeaderResponse {
	if h == nil {
		return HeaderResponse{}
	}
	return HeaderResponse{
		Slot:          encodeUint64(uint64(h.Slot)),
		ProposerIndex: encodeUint64(uint64(h.ProposerIndex)),
		ParentRoot:    hexutil.Encode(h.ParentRoot),
		StateRoot:     hexutil.Encode(h.StateRoot),
		BodyRoot:      hexutil.Encode(h.BodyRoot),
	}
}

func SyncCommitteeFromTypes(sc *beacon.SyncCommittee) SyncCommitteeResponse {
	if sc == nil {
		return SyncCommitteeResponse{}
	}
	pubkeys := make([]string, len(sc.Pubkeys))
	for i, pubkey := range sc.Pubkeys {
		pubkeys[i] = hexutil.Encode(pubkey)
	}
	return SyncCommitteeResponse{
		Pubkeys:         pubkeys,
		AggregatePubkey: hexutil.Encode(sc.AggregatePubkey),
	}
}

func SyncAggregateFromTypes(agg *beacon.SyncAggregate) SyncAggregateResponse {
	if agg == nil {
		return SyncAggregateResponse{}
	}
	return SyncAggregateResponse{
		SyncCommitteeBits:      hexutil.Encode(agg.SyncCommitteeBits),
		SyncCommitteeSignature: hexutil.Encode(agg.SyncCommitteeSignature),
	}
}

func CheckpointFromTypes(cp *beacon.Checkpoint) CheckpointResponse {
	if cp == nil {
		return CheckpointResponse{}
	}
	return CheckpointResponse{
		Header:                     HeaderFromTypes(cp.Header),
		CurrentSyncCommittee:       SyncCommitteeFromTypes(cp.CurrentSyncCommittee),
		CurrentSyncCommitteeBranch: encodeBranch(cp.CurrentSyncCommitteeBranch),
		ValidatorsRoot:             hexutil.Encode(cp.ValidatorsRoot),
		BlockRootsRoot:             hexutil.Encode(cp.BlockRootsRoot),
		BlockRootsBranch:           encodeBranch(cp.BlockRootsBranch),
	}
}

func UpdateFromTypes(u *beacon.Update) UpdateResponse {
	if u == nil {
		return UpdateResponse{}
	}
	resp := UpdateResponse{
		AttestedHeader:   HeaderFromTypes(u.AttestedHeader),
		SignatureSlot:    encodeUint64(uint64(u.SignatureSlot)),
		SyncAggregate:    SyncAggregateFromTypes(u.SyncAggregate),
		FinalizedHeader:  HeaderFromTypes(u.FinalizedHeader),
		FinalityBranch:   encodeBranch(u.FinalityBranch),
		BlockRootsRoot:   hexutil.Encode(u.BlockRootsRoot),
		BlockRootsBranch: encodeBranch(u.BlockRootsBranch),
	}
	if u.NextSyncCommitteeUpdate != nil {
		resp.NextSyncCommitteeUpdate = &NextSyncCommitteeUpdateResponse{
			NextSyncCommittee:       SyncCommitteeFromTypes(u.NextSyncCommitteeUpdate.NextSyncCommittee),
			NextSyncCommitteeBranch: encodeBranch(u.NextSyncCommitteeUpdate.NextSyncCommitteeBranch),
		}
	}
	return resp
}

func ExecutionHeaderFromTypes(h *beacon.CompactExecutionHeader) ExecutionHeaderResponse {
	if h == nil {
		return ExecutionHeaderResponse{}
	}
	return ExecutionHeaderResponse{
		ParentHash:   hexutil.Encode(h.ParentHash),
		BlockNumber:  encodeUint64(h.BlockNumber),
		StateRoot:    hexutil.Encode(h.StateRoot),
		ReceiptsRoot: hexutil.Encode(h.ReceiptsRoot),
		BlockHash:    hexutil.Encode(h.BlockHash),
	}
}

func ExecutionHeaderUpdateFromTypes(u *beacon.ExecutionHeaderUpdate) HeaderUpdateResponse {
	if u == nil {
		return HeaderUpdateResponse{}
	}
	resp := HeaderUpdateResponse{
		Header:          HeaderFromTypes(u.Header),
		ExecutionHeader: ExecutionHeaderFromTypes(u.ExecutionHeader),
		ExecutionBranch: encodeBranch(u.ExecutionBranch),
	}
	if u.AncestryProof != nil {
		resp.AncestryProof = &AncestryProofResponse{
			HeaderBranch:       encodeBranch(u.AncestryProof.HeaderBranch),
			FinalizedBlockRoot: hexutil.Encode(u.AncestryProof.FinalizedBlockRoot),
		}
	}
	return resp
}
