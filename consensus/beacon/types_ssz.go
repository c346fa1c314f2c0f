// Hash tree root implementations for the containers whose roots participate
// in proofs or signatures. Layouts follow the consensus SSZ spec; the methods
// mirror fastssz codegen output so roots match the counterpart verifier
// bit for bit.

package beacon

import (
	ssz "github.com/ferranbt/fastssz"
)

// HashTreeRoot ssz hashes the Header object
func (h *Header) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(h)
}

// HashTreeRootWith ssz hashes the Header object with a hasher
func (h *Header) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	// Field (0) 'Slot'
	hh.PutUint64(uint64(h.Slot))

	// Field (1) 'ProposerIndex'
	hh.PutUint64(uint64(h.ProposerIndex))

	// Field (2) 'ParentRoot'
	if size := len(h.ParentRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(h.ParentRoot)

	// Field (3) 'StateRoot'
	if size := len(h.StateRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(h.StateRoot)

	// Field (4) 'BodyRoot'
	if size := len(h.BodyRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(h.BodyRoot)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the Header object
func (h *Header) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(h)
}

// HashTreeRoot ssz hashes the SyncCommittee object
func (s *SyncCommittee) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SyncCommittee object with a hasher
func (s *SyncCommittee) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	// Field (0) 'Pubkeys'
	{
		if size := len(s.Pubkeys); size != 512 {
			err = ssz.ErrVectorLength
			return
		}
		subIndx := hh.Index()
		for _, i := range s.Pubkeys {
			if len(i) != 48 {
				err = ssz.ErrBytesLength
				return
			}
			hh.PutBytes(i)
		}
		hh.Merkleize(subIndx)
	}

	// Field (1) 'AggregatePubkey'
	if size := len(s.AggregatePubkey); size != 48 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(s.AggregatePubkey)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the SyncCommittee object
func (s *SyncCommittee) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(s)
}

// HashTreeRoot ssz hashes the ForkData object
func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the ForkData object with a hasher
func (f *ForkData) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	// Field (0) 'CurrentVersion'
	if size := len(f.CurrentVersion); size != 4 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(f.CurrentVersion)

	// Field (1) 'GenesisValidatorsRoot'
	if size := len(f.GenesisValidatorsRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(f.GenesisValidatorsRoot)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the ForkData object
func (f *ForkData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(f)
}

// HashTreeRoot ssz hashes the SigningData object
func (s *SigningData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SigningData object with a hasher
func (s *SigningData) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	// Field (0) 'ObjectRoot'
	if size := len(s.ObjectRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(s.ObjectRoot)

	// Field (1) 'Domain'
	if size := len(s.Domain); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(s.Domain)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the SigningData object
func (s *SigningData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(s)
}

// HashTreeRoot ssz hashes the CompactExecutionHeader object
func (c *CompactExecutionHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the CompactExecutionHeader object with a hasher
func (c *CompactExecutionHeader) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	// Field (0) 'ParentHash'
	if size := len(c.ParentHash); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(c.ParentHash)

	// Field (1) 'BlockNumber'
	hh.PutUint64(c.BlockNumber)

	// Field (2) 'StateRoot'
	if size := len(c.StateRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(c.StateRoot)

	// Field (3) 'ReceiptsRoot'
	if size := len(c.ReceiptsRoot); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(c.ReceiptsRoot)

	// Field (4) 'BlockHash'
	if size := len(c.BlockHash); size != 32 {
		err = ssz.ErrBytesLength
		return
	}
	hh.PutBytes(c.BlockHash)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the CompactExecutionHeader object
func (c *CompactExecutionHeader) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(c)
}
