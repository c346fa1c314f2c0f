package params

import (
	"math"

	types "github.com/prysmaticlabs/eth2-types"
)

// maxRedundancy scales the finalized state retention to two sync committee
// periods, covering the worst allowed lag between finality and execution
// header import.
const maxRedundancy = 2

// MainnetConfig returns the configuration for mainnet Ethereum.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		ConfigName: "mainnet",
		PresetBase: "mainnet",

		SecondsPerSlot:               12,
		SlotsPerEpoch:                32,
		EpochsPerSyncCommitteePeriod: 256,
		SlotsPerHistoricalRoot:       8192,

		SyncCommitteeSize:        512,
		SupermajorityNumerator:   2,
		SupermajorityDenominator: 3,

		FinalizedRootIndex:        41,
		FinalizedRootDepth:        6,
		CurrentSyncCommitteeIndex: 22,
		CurrentSyncCommitteeDepth: 5,
		NextSyncCommitteeIndex:    23,
		NextSyncCommitteeDepth:    5,
		BlockRootsIndex:           5,
		BlockRootsDepth:           5,
		ExecutionHeaderIndex:      9,
		ExecutionHeaderDepth:      4,
		BlockRootAtIndexDepth:     13,

		DomainSyncCommittee: [4]byte{0x07, 0x00, 0x00, 0x00},

		GenesisForkVersion:   []byte{0x00, 0x00, 0x00, 0x00},
		AltairForkVersion:    []byte{0x01, 0x00, 0x00, 0x00},
		AltairForkEpoch:      74240,
		BellatrixForkVersion: []byte{0x02, 0x00, 0x00, 0x00},
		BellatrixForkEpoch:   144896,
		CapellaForkVersion:   []byte{0x03, 0x00, 0x00, 0x00},
		CapellaForkEpoch:     194048,
		DenebForkVersion:     []byte{0x04, 0x00, 0x00, 0x00},
		DenebForkEpoch:       269568,

		MaxFinalizedStatesToKeep:  256 * maxRedundancy,
		MaxExecutionHeadersToKeep: 8192 * maxRedundancy,
	}
}

// MinimalSpecConfig returns the minimal preset, used by tests to exercise
// period and retention boundaries without mainnet sized fixtures.
func MinimalSpecConfig() *BeaconChainConfig {
	minimal := MainnetConfig().Copy()
	minimal.ConfigName = "minimal"
	minimal.PresetBase = "minimal"
	minimal.SecondsPerSlot = 6
	minimal.SlotsPerEpoch = 8
	minimal.EpochsPerSyncCommitteePeriod = 8
	minimal.SlotsPerHistoricalRoot = 64
	minimal.BlockRootAtIndexDepth = 6
	minimal.AltairForkEpoch = 0
	minimal.BellatrixForkEpoch = 0
	minimal.CapellaForkEpoch = 0
	minimal.DenebForkEpoch = types.Epoch(math.MaxUint64)
	minimal.MaxFinalizedStatesToKeep = 8 * maxRedundancy
	minimal.MaxExecutionHeadersToKeep = 16 * maxRedundancy
	return minimal
}
