package field_params

const (
	Preset              = "mainnet"
	BlockRootsLength    = 8192 // SLOTS_PER_HISTORICAL_ROOT
	SyncCommitteeLength = 512  // SYNC_COMMITTEE_SIZE
	RootLength          = 32   // RootLength defines the byte length of a Merkle root.
	BLSSignatureLength  = 96   // BLSSignatureLength defines the byte length of a BLSSignature.
	BLSPubkeyLength     = 48   // BLSPubkeyLength defines the byte length of a BLSPubkey.
	VersionLength       = 4    // VersionLength defines the byte length of a fork version number.
	DomainLength        = 32   // DomainLength defines the byte length of a signature domain.
)
