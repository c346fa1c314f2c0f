package light

import (
	"testing"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/stretchr/testify/require"

	fieldparams "github.com/frostfork/frostbridge/config/fieldparams"
	"github.com/frostfork/frostbridge/config/params"
	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/consensus/signing"
	"github.com/frostfork/frostbridge/crypto/bls"
	"github.com/frostfork/frostbridge/crypto/hash"
)

// beaconStateChunks is the padded field count the proof indices in the config
// are laid out against.
const beaconStateChunks = 32

// bodyChunks is the padded field count of a beacon block body.
const bodyChunks = 16

var zeroChunk [32]byte

// chunkTree merkleizes raw 32 byte chunks the way SSZ merkleizes container
// fields, keeping every level so sibling branches can be read off directly.
type chunkTree struct {
	levels [][][32]byte
}

func newChunkTree(t *testing.T, size uint64, leaves map[uint64][32]byte) *chunkTree {
	require.True(t, size > 0 && size&(size-1) == 0, "chunk count must be a power of two")
	level := make([][32]byte, size)
	for i, leaf := range leaves {
		require.True(t, i < size)
		level[i] = leaf
	}
	levels := [][][32]byte{level}
	for len(level) > 1 {
		next := make([][32]byte, len(level)/2)
		for i := range next {
			next[i] = hashPair(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}
	return &chunkTree{levels: levels}
}

func (c *chunkTree) root() [32]byte {
	return c.levels[len(c.levels)-1][0]
}

func (c *chunkTree) branch(index uint64) [][]byte {
	nodes := make([][]byte, 0, len(c.levels)-1)
	for i := 0; i < len(c.levels)-1; i++ {
		sibling := c.levels[i][index^1]
		node := make([]byte, 32)
		copy(node, sibling[:])
		nodes = append(nodes, node)
		index >>= 1
	}
	return nodes
}

func hashPair(a, b [32]byte) [32]byte {
	return hash.Sha256(append(a[:], b[:]...))
}

func testRoot(b byte) []byte {
	r := make([]byte, 32)
	r[0] = b
	r[31] = 0x5a
	return r
}

// testEnv wires a store at the minimal preset together with a generated sync
// committee, so tests can build updates that verify end to end.
type testEnv struct {
	t              *testing.T
	cfg            *params.BeaconChainConfig
	store          *Store
	secrets        []*bls.SecretKey
	committee      *beacon.SyncCommittee
	validatorsRoot [32]byte
}

func newTestEnv(t *testing.T) *testEnv {
	cfg := params.MinimalSpecConfig()
	store, err := New(cfg)
	require.NoError(t, err)
	secrets, committee := genCommittee(t)
	return &testEnv{
		t:              t,
		cfg:            cfg,
		store:          store,
		secrets:        secrets,
		committee:      committee,
		validatorsRoot: [32]byte{0xde, 0xad, 0xbe, 0xef},
	}
}

func genCommittee(t *testing.T) ([]*bls.SecretKey, *beacon.SyncCommittee) {
	secrets := make([]*bls.SecretKey, fieldparams.SyncCommitteeLength)
	pubkeys := make([][]byte, fieldparams.SyncCommitteeLength)
	for i := range secrets {
		sk, err := bls.RandKey()
		require.NoError(t, err)
		secrets[i] = sk
		pubkeys[i] = sk.PublicKey().Marshal()
	}
	agg := secrets[0].PublicKey().Copy()
	for i := 1; i < len(secrets); i++ {
		agg.Aggregate(secrets[i].PublicKey())
	}
	return secrets, &beacon.SyncCommittee{
		Pubkeys:         pubkeys,
		AggregatePubkey: agg.Marshal(),
	}
}

func (e *testEnv) emptyBlockRoots() *chunkTree {
	return newChunkTree(e.t, uint64(e.cfg.SlotsPerHistoricalRoot), nil)
}

func (e *testEnv) stateTree(leaves map[uint64][32]byte) *chunkTree {
	return newChunkTree(e.t, beaconStateChunks, leaves)
}

// buildCheckpoint assembles a checkpoint whose proofs verify against a
// synthetic state committing the committee and block roots leaves.
func (e *testEnv) buildCheckpoint(slot types.Slot, committee *beacon.SyncCommittee, blockRoots *chunkTree) *beacon.Checkpoint {
	committeeRoot, err := committee.HashTreeRoot()
	require.NoError(e.t, err)
	blockRootsRoot := blockRoots.root()
	st := e.stateTree(map[uint64][32]byte{
		e.cfg.CurrentSyncCommitteeIndex: committeeRoot,
		e.cfg.BlockRootsIndex:           blockRootsRoot,
	})
	stateRoot := st.root()
	return &beacon.Checkpoint{
		Header: &beacon.Header{
			Slot:          slot,
			ProposerIndex: 3,
			ParentRoot:    testRoot(0x01),
			StateRoot:     stateRoot[:],
			BodyRoot:      testRoot(0x02),
		},
		CurrentSyncCommittee:       committee,
		CurrentSyncCommitteeBranch: st.branch(e.cfg.CurrentSyncCommitteeIndex),
		ValidatorsRoot:             e.validatorsRoot[:],
		BlockRootsRoot:             blockRootsRoot[:],
		BlockRootsBranch:           st.branch(e.cfg.BlockRootsIndex),
	}
}

func (e *testEnv) bootstrap(slot types.Slot) {
	cp := e.buildCheckpoint(slot, e.committee, e.emptyBlockRoots())
	require.NoError(e.t, e.store.ForceCheckpoint(cp))
}

// updateParams drives buildUpdate. Zero values fall back to a fully
// participating update signed by the env's base committee against an empty
// block roots vector.
type updateParams struct {
	attestedSlot  types.Slot
	finalizedSlot types.Slot
	signatureSlot types.Slot
	participants  int              // set bits counted from index 0; 0 means all
	signers       []*bls.SecretKey // nil means the env's base committee
	next          *beacon.SyncCommittee
	blockRoots    *chunkTree // block roots vector of the finalized state
	finalizedBody []byte     // body root of the finalized header
}

func (e *testEnv) buildUpdate(p updateParams) *beacon.Update {
	t := e.t
	if p.signers == nil {
		p.signers = e.secrets
	}
	if p.blockRoots == nil {
		p.blockRoots = e.emptyBlockRoots()
	}
	if p.finalizedBody == nil {
		p.finalizedBody = testRoot(0x0f)
	}

	blockRootsRoot := p.blockRoots.root()
	finState := e.stateTree(map[uint64][32]byte{e.cfg.BlockRootsIndex: blockRootsRoot})
	finStateRoot := finState.root()
	finalized := &beacon.Header{
		Slot:          p.finalizedSlot,
		ProposerIndex: 7,
		ParentRoot:    testRoot(0x03),
		StateRoot:     finStateRoot[:],
		BodyRoot:      p.finalizedBody,
	}
	finalizedRoot, err := finalized.HashTreeRoot()
	require.NoError(t, err)

	// The finalized checkpoint field holds a two chunk container; its root
	// chunk is the right child under the checkpoint's own subtree.
	checkpointField := e.cfg.FinalizedRootIndex / 2
	attLeaves := map[uint64][32]byte{
		checkpointField: hashPair(zeroChunk, finalizedRoot),
	}
	if p.next != nil {
		nextRoot, err := p.next.HashTreeRoot()
		require.NoError(t, err)
		attLeaves[e.cfg.NextSyncCommitteeIndex] = nextRoot
	}
	attState := e.stateTree(attLeaves)
	attStateRoot := attState.root()
	attested := &beacon.Header{
		Slot:          p.attestedSlot,
		ProposerIndex: 9,
		ParentRoot:    testRoot(0x04),
		StateRoot:     attStateRoot[:],
		BodyRoot:      testRoot(0x05),
	}

	epochChunk := make([]byte, 32)
	finalityBranch := append([][]byte{epochChunk}, attState.branch(checkpointField)...)

	update := &beacon.Update{
		AttestedHeader:   attested,
		SignatureSlot:    p.signatureSlot,
		SyncAggregate:    e.sign(attested, p.signatureSlot, p.signers, p.participants),
		FinalizedHeader:  finalized,
		FinalityBranch:   finalityBranch,
		BlockRootsRoot:   blockRootsRoot[:],
		BlockRootsBranch: finState.branch(e.cfg.BlockRootsIndex),
	}
	if p.next != nil {
		update.NextSyncCommitteeUpdate = &beacon.NextSyncCommitteeUpdate{
			NextSyncCommittee:       p.next,
			NextSyncCommitteeBranch: attState.branch(e.cfg.NextSyncCommitteeIndex),
		}
	}
	return update
}

// sign aggregates a sync committee signature over the attested header from
// the first participants signers.
func (e *testEnv) sign(attested *beacon.Header, signatureSlot types.Slot, signers []*bls.SecretKey, participants int) *beacon.SyncAggregate {
	t := e.t
	if participants == 0 {
		participants = len(signers)
	}
	forkVersion := e.cfg.ForkVersion(e.cfg.EpochAtSlot(signatureSlot))
	domain, err := signing.ComputeDomain(e.cfg.DomainSyncCommittee, forkVersion[:], e.validatorsRoot[:])
	require.NoError(t, err)
	signingRoot, err := signing.ComputeSigningRoot(attested, domain)
	require.NoError(t, err)

	bits := bitfield.NewBitvector512()
	sigs := make([]*bls.Signature, 0, participants)
	for i := 0; i < participants; i++ {
		bits.SetBitAt(uint64(i), true)
		sigs = append(sigs, signers[i].Sign(signingRoot[:]))
	}
	return &beacon.SyncAggregate{
		SyncCommitteeBits:      bits,
		SyncCommitteeSignature: bls.AggregateSignatures(sigs).Marshal(),
	}
}

func testExecutionHeader(number uint64) *beacon.CompactExecutionHeader {
	return &beacon.CompactExecutionHeader{
		ParentHash:   testRoot(byte(number)),
		BlockNumber:  number,
		StateRoot:    testRoot(0x21),
		ReceiptsRoot: testRoot(0x22),
		BlockHash:    testRoot(byte(number + 0x80)),
	}
}

// buildExecutionBody commits an execution header at its position in a beacon
// block body and returns the body root with the proving branch.
func (e *testEnv) buildExecutionBody(exec *beacon.CompactExecutionHeader) ([]byte, [][]byte) {
	execRoot, err := exec.HashTreeRoot()
	require.NoError(e.t, err)
	body := newChunkTree(e.t, bodyChunks, map[uint64][32]byte{e.cfg.ExecutionHeaderIndex: execRoot})
	bodyRoot := body.root()
	return bodyRoot[:], body.branch(e.cfg.ExecutionHeaderIndex)
}
