// Package params defines the chain configuration consumed by the bridge
// verification core. Configs are plain values handed to constructors; nothing
// in this module reads a process-global registry.
package params

import (
	types "github.com/prysmaticlabs/eth2-types"

	"github.com/frostfork/frostbridge/encoding/bytesutil"
)

// BeaconChainConfig contains the constants needed to verify sync committee
// signatures and state proofs for one beacon chain.
type BeaconChainConfig struct {
	ConfigName string `yaml:"CONFIG_NAME" spec:"true"`
	PresetBase string `yaml:"PRESET_BASE" spec:"true"`

	// Time parameters.
	SecondsPerSlot               uint64      `yaml:"SECONDS_PER_SLOT" spec:"true"`
	SlotsPerEpoch                types.Slot  `yaml:"SLOTS_PER_EPOCH" spec:"true"`
	EpochsPerSyncCommitteePeriod types.Epoch `yaml:"EPOCHS_PER_SYNC_COMMITTEE_PERIOD" spec:"true"`
	SlotsPerHistoricalRoot       types.Slot  `yaml:"SLOTS_PER_HISTORICAL_ROOT" spec:"true"`

	// Sync committee parameters. The supermajority fraction is the quorum a
	// sync aggregate must reach before its signature is even checked.
	SyncCommitteeSize        uint64 `yaml:"SYNC_COMMITTEE_SIZE" spec:"true"`
	SupermajorityNumerator   uint64
	SupermajorityDenominator uint64

	// Subtree indices and depths of the fields proven against beacon state
	// and block body roots.
	FinalizedRootIndex        uint64
	FinalizedRootDepth        uint64
	CurrentSyncCommitteeIndex uint64
	CurrentSyncCommitteeDepth uint64
	NextSyncCommitteeIndex    uint64
	NextSyncCommitteeDepth    uint64
	BlockRootsIndex           uint64
	BlockRootsDepth           uint64
	ExecutionHeaderIndex      uint64
	ExecutionHeaderDepth      uint64
	BlockRootAtIndexDepth     uint64 // log2(SLOTS_PER_HISTORICAL_ROOT)

	// Signature domain.
	DomainSyncCommittee [4]byte `yaml:"DOMAIN_SYNC_COMMITTEE" spec:"true"`

	// Fork schedule.
	GenesisForkVersion   []byte      `yaml:"GENESIS_FORK_VERSION" spec:"true"`
	AltairForkVersion    []byte      `yaml:"ALTAIR_FORK_VERSION" spec:"true"`
	AltairForkEpoch      types.Epoch `yaml:"ALTAIR_FORK_EPOCH" spec:"true"`
	BellatrixForkVersion []byte      `yaml:"BELLATRIX_FORK_VERSION" spec:"true"`
	BellatrixForkEpoch   types.Epoch `yaml:"BELLATRIX_FORK_EPOCH" spec:"true"`
	CapellaForkVersion   []byte      `yaml:"CAPELLA_FORK_VERSION" spec:"true"`
	CapellaForkEpoch     types.Epoch `yaml:"CAPELLA_FORK_EPOCH" spec:"true"`
	DenebForkVersion     []byte      `yaml:"DENEB_FORK_VERSION" spec:"true"`
	DenebForkEpoch       types.Epoch `yaml:"DENEB_FORK_EPOCH" spec:"true"`

	// Retention bounds for verified history kept in memory.
	MaxFinalizedStatesToKeep  uint64
	MaxExecutionHeadersToKeep uint64
}

// SlotsPerSyncCommitteePeriod returns the number of slots covered by one sync
// committee.
func (b *BeaconChainConfig) SlotsPerSyncCommitteePeriod() uint64 {
	return uint64(b.SlotsPerEpoch) * uint64(b.EpochsPerSyncCommitteePeriod)
}

// SyncCommitteePeriod returns the sync committee period containing the given
// slot.
func (b *BeaconChainConfig) SyncCommitteePeriod(slot types.Slot) uint64 {
	return uint64(slot) / b.SlotsPerSyncCommitteePeriod()
}

// EpochAtSlot returns the epoch containing the given slot.
func (b *BeaconChainConfig) EpochAtSlot(slot types.Slot) types.Epoch {
	return types.Epoch(uint64(slot) / uint64(b.SlotsPerEpoch))
}

// ForkVersion returns the fork version active at the given epoch.
func (b *BeaconChainConfig) ForkVersion(epoch types.Epoch) [4]byte {
	switch {
	case epoch >= b.DenebForkEpoch:
		return bytesutil.ToBytes4(b.DenebForkVersion)
	case epoch >= b.CapellaForkEpoch:
		return bytesutil.ToBytes4(b.CapellaForkVersion)
	case epoch >= b.BellatrixForkEpoch:
		return bytesutil.ToBytes4(b.BellatrixForkVersion)
	case epoch >= b.AltairForkEpoch:
		return bytesutil.ToBytes4(b.AltairForkVersion)
	default:
		return bytesutil.ToBytes4(b.GenesisForkVersion)
	}
}

// Copy returns a deep copy of the config.
func (b *BeaconChainConfig) Copy() *BeaconChainConfig {
	config := *b
	config.GenesisForkVersion = bytesutil.SafeCopyBytes(b.GenesisForkVersion)
	config.AltairForkVersion = bytesutil.SafeCopyBytes(b.AltairForkVersion)
	config.BellatrixForkVersion = bytesutil.SafeCopyBytes(b.BellatrixForkVersion)
	config.CapellaForkVersion = bytesutil.SafeCopyBytes(b.CapellaForkVersion)
	config.DenebForkVersion = bytesutil.SafeCopyBytes(b.DenebForkVersion)
	return &config
}
