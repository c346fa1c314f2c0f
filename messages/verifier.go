// Package messages proves and verifies that application messages were
// emitted inside execution blocks the light client has accepted as
// finalized. A message is a receipt log; its inclusion proof ties the
// receipt to the receipts root of a verified execution header, so the
// trust chain runs from the sync committee signature all the way down to
// the individual log.
package messages

import (
	"bytes"
	"context"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/container/merkle"
	"github.com/frostfork/frostbridge/crypto/hash"
	"github.com/frostfork/frostbridge/execution"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownExecutionHeader is returned when a block hash has not been
	// imported by the light client, or has already been pruned from its
	// retained history.
	ErrUnknownExecutionHeader = errors.New("execution header is not part of verified history")
	// ErrMalformedReceipt is returned when a receipt cannot be resolved or
	// decoded at the requested transaction index.
	ErrMalformedReceipt = errors.New("malformed receipt")
)

// HeaderStore exposes the verified execution headers imported by the light
// client. *light.Store satisfies it.
type HeaderStore interface {
	ExecutionHeader(blockHash common.Hash) (beacon.CompactExecutionHeader, bool)
}

// InclusionProof bundles a receipt with the branch proving it against the
// receipts root of a verified execution header. The bundle is self
// contained so it can be shipped onward and re-checked with
// VerifyReceiptInclusion.
type InclusionProof struct {
	BlockHash common.Hash
	TxIndex   uint64
	Receipt   []byte
	Proof     []merkle.ProofNode
}

// Verifier resolves messages against verified execution headers.
type Verifier struct {
	headers HeaderStore
	blocks  *execution.BlockCache
}

// NewVerifier creates a message verifier over the given verified header
// source and block cache.
func NewVerifier(headers HeaderStore, blocks *execution.BlockCache) (*Verifier, error) {
	if headers == nil {
		return nil, errors.New("nil header store")
	}
	if blocks == nil {
		return nil, errors.New("nil block cache")
	}
	return &Verifier{headers: headers, blocks: blocks}, nil
}

// VerifyMessage checks that the transaction at txIndex of the given block
// is included under a verified execution header and returns the logs it
// emitted. The receipts root cross-check against the header imported by
// the light client is what anchors the result to finalized history; the
// fetched data itself is untrusted.
func (v *Verifier) VerifyMessage(ctx context.Context, blockHash common.Hash, txIndex uint64) ([]*gethtypes.Log, error) {
	trie, err := v.verifiedTrie(ctx, blockHash)
	if err != nil {
		return nil, err
	}
	encoded, err := receiptAt(trie, txIndex)
	if err != nil {
		return nil, err
	}
	receipt := new(gethtypes.Receipt)
	if err := receipt.UnmarshalBinary(encoded); err != nil {
		return nil, errors.Wrapf(ErrMalformedReceipt, "could not decode receipt %d: %v", txIndex, err)
	}
	log.WithFields(logrus.Fields{
		"blockHash": blockHash,
		"txIndex":   txIndex,
		"logs":      len(receipt.Logs),
	}).Debug("Verified message inclusion")
	return receipt.Logs, nil
}

// Proof produces the outbound inclusion proof bundle for the transaction at
// txIndex of the given verified block.
func (v *Verifier) Proof(ctx context.Context, blockHash common.Hash, txIndex uint64) (*InclusionProof, error) {
	trie, err := v.verifiedTrie(ctx, blockHash)
	if err != nil {
		return nil, err
	}
	encoded, err := receiptAt(trie, txIndex)
	if err != nil {
		return nil, err
	}
	proof, err := trie.MerkleProofAt(int(txIndex))
	if err != nil {
		return nil, errors.Wrap(err, "could not generate receipt proof")
	}
	return &InclusionProof{
		BlockHash: blockHash,
		TxIndex:   txIndex,
		Receipt:   encoded,
		Proof:     proof,
	}, nil
}

// VerifyReceiptInclusion is the inbound counterpart of Proof: it checks a
// received bundle against a trusted receipts root.
func VerifyReceiptInclusion(receiptsRoot common.Hash, proof *InclusionProof, h hash.Hasher) bool {
	if proof == nil {
		return false
	}
	return merkle.VerifyProof(receiptsRoot, proof.Receipt, proof.Proof, h)
}

// verifiedTrie resolves the receipt trie for a block and cross-checks its
// root against the execution header the light client verified.
func (v *Verifier) verifiedTrie(ctx context.Context, blockHash common.Hash) (*merkle.Tree, error) {
	header, ok := v.headers.ExecutionHeader(blockHash)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownExecutionHeader, "block %#x", blockHash)
	}
	trie, err := v.blocks.ReceiptTrie(ctx, blockHash)
	if err != nil {
		return nil, errors.Wrap(err, "could not load receipt trie")
	}
	root := trie.Root()
	if !bytes.Equal(root[:], header.ReceiptsRoot) {
		return nil, errors.Wrapf(execution.ErrReceiptRootMismatch,
			"fetched receipts root %#x does not match verified header root %#x", root, header.ReceiptsRoot)
	}
	return trie, nil
}

func receiptAt(trie *merkle.Tree, txIndex uint64) ([]byte, error) {
	if txIndex >= uint64(trie.Len()) {
		return nil, errors.Wrapf(ErrMalformedReceipt, "transaction index %d out of range for %d receipts", txIndex, trie.Len())
	}
	return trie.Items()[txIndex], nil
}
