package light

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostfork/frostbridge/config/params"
	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/crypto/hash"
)

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestNew_Options(t *testing.T) {
	_, err := New(params.MinimalSpecConfig(), WithCommitteeCacheSize(0))
	require.Error(t, err)

	s, err := New(params.MinimalSpecConfig(), WithCommitteeCacheSize(8), WithHasher(hash.Sha256))
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestForceCheckpoint_Valid(t *testing.T) {
	e := newTestEnv(t)
	e.bootstrap(64)

	require.True(t, e.store.Bootstrapped())
	header, root, err := e.store.LatestFinalized()
	require.NoError(t, err)
	assert.Equal(t, types.Slot(64), header.Slot)
	assert.Equal(t, root, e.store.InitialCheckpointRoot())
	assert.Equal(t, common.BytesToHash(e.validatorsRoot[:]), e.store.ValidatorsRoot())
	assert.False(t, e.store.NextCommitteeKnown())
	assert.Equal(t, uint64(1), e.store.CurrentCommitteePeriod())

	state, ok := e.store.FinalizedState(root)
	require.True(t, ok)
	assert.Equal(t, types.Slot(64), state.Slot)

	// Accessors hand out copies.
	header.ParentRoot[0] ^= 0xff
	again, _, err := e.store.LatestFinalized()
	require.NoError(t, err)
	assert.NotEqual(t, header.ParentRoot, again.ParentRoot)
}

func TestForceCheckpoint_InvalidProofs(t *testing.T) {
	e := newTestEnv(t)

	cp := e.buildCheckpoint(64, e.committee, e.emptyBlockRoots())
	cp.CurrentSyncCommitteeBranch[0][0] ^= 0xff
	require.ErrorIs(t, e.store.ForceCheckpoint(cp), ErrInvalidCommitteeProof)
	assert.False(t, e.store.Bootstrapped())

	cp = e.buildCheckpoint(64, e.committee, e.emptyBlockRoots())
	cp.BlockRootsBranch[1][0] ^= 0xff
	require.ErrorIs(t, e.store.ForceCheckpoint(cp), ErrInvalidBlockRootsProof)
	assert.False(t, e.store.Bootstrapped())
}

func TestForceCheckpoint_NilInput(t *testing.T) {
	e := newTestEnv(t)
	require.Error(t, e.store.ForceCheckpoint(nil))
	require.Error(t, e.store.ForceCheckpoint(&beacon.Checkpoint{}))
}

func TestForceCheckpoint_HardReset(t *testing.T) {
	e := newTestEnv(t)
	e.bootstrap(64)
	_, cpRoot, err := e.store.LatestFinalized()
	require.NoError(t, err)

	exec := testExecutionHeader(100)
	bodyRoot, execBranch := e.buildExecutionBody(exec)
	upd := e.buildUpdate(updateParams{attestedSlot: 73, finalizedSlot: 72, signatureSlot: 74, finalizedBody: bodyRoot})
	require.NoError(t, e.store.Submit(upd))
	require.NoError(t, e.store.SubmitExecutionHeader(&beacon.ExecutionHeaderUpdate{
		Header:          upd.FinalizedHeader,
		ExecutionHeader: exec,
		ExecutionBranch: execBranch,
	}))
	_, ok := e.store.ExecutionHeader(common.BytesToHash(exec.BlockHash))
	require.True(t, ok)

	// A fresh checkpoint with a new committee drops everything retained
	// under the old trust root.
	_, newCommittee := genCommittee(t)
	cp := e.buildCheckpoint(320, newCommittee, e.emptyBlockRoots())
	require.NoError(t, e.store.ForceCheckpoint(cp))

	header, root, err := e.store.LatestFinalized()
	require.NoError(t, err)
	assert.Equal(t, types.Slot(320), header.Slot)
	assert.Equal(t, root, e.store.InitialCheckpointRoot())
	_, ok = e.store.FinalizedState(cpRoot)
	assert.False(t, ok)
	_, ok = e.store.ExecutionHeader(common.BytesToHash(exec.BlockHash))
	assert.False(t, ok)
	assert.Equal(t, uint64(0), e.store.LatestExecutionState().BlockNumber)
	assert.False(t, e.store.NextCommitteeKnown())
}

func TestStore_FinalizedStatePruning(t *testing.T) {
	e := newTestEnv(t)
	e.cfg.MaxFinalizedStatesToKeep = 2
	e.bootstrap(64)
	_, cpRoot, err := e.store.LatestFinalized()
	require.NoError(t, err)

	require.NoError(t, e.store.Submit(e.buildUpdate(updateParams{attestedSlot: 73, finalizedSlot: 72, signatureSlot: 74})))
	_, root72, err := e.store.LatestFinalized()
	require.NoError(t, err)
	require.NoError(t, e.store.Submit(e.buildUpdate(updateParams{attestedSlot: 81, finalizedSlot: 80, signatureSlot: 82})))

	_, ok := e.store.FinalizedState(cpRoot)
	assert.False(t, ok, "checkpoint state should have been pruned")
	_, ok = e.store.FinalizedState(root72)
	assert.True(t, ok)
	_, latest, err := e.store.LatestFinalized()
	require.NoError(t, err)
	_, ok = e.store.FinalizedState(latest)
	assert.True(t, ok)
}

func TestStore_Health(t *testing.T) {
	e := newTestEnv(t)
	require.ErrorIs(t, e.store.Health(100), ErrNotBootstrapped)

	e.bootstrap(64)
	require.NoError(t, e.store.Health(90))

	// The chain has entered period 2 and no committee covers it.
	require.ErrorIs(t, e.store.Health(130), ErrCommitteeExpiry)
}

func TestStore_ConcurrentSubmitAndRead(t *testing.T) {
	e := newTestEnv(t)
	e.bootstrap(64)
	upd := e.buildUpdate(updateParams{attestedSlot: 81, finalizedSlot: 80, signatureSlot: 82})

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.store.Submit(upd)
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _, _ = e.store.LatestFinalized()
				e.store.Bootstrapped()
				e.store.LatestExecutionState()
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	header, _, err := e.store.LatestFinalized()
	require.NoError(t, err)
	assert.Equal(t, types.Slot(80), header.Slot)
}
