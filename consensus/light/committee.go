package light

import (
	"github.com/frostfork/frostbridge/consensus/beacon"
	"github.com/frostfork/frostbridge/crypto/bls"
	"github.com/pkg/errors"
)

// preparedCommittee is a sync committee with its public keys deserialized
// once, so that signature checks do not pay the decompression cost on every
// update. Prepared committees are cached by hash tree root.
type preparedCommittee struct {
	root    [32]byte
	pubkeys []*bls.PublicKey
}

func (s *Store) prepareCommittee(sc *beacon.SyncCommittee) (*preparedCommittee, error) {
	root, err := sc.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash sync committee")
	}
	if v, ok := s.committeeCache.Get(root); ok {
		committeeCacheHit.Inc()
		return v.(*preparedCommittee), nil
	}
	committeeCacheMiss.Inc()
	pubkeys := make([]*bls.PublicKey, len(sc.Pubkeys))
	for i, raw := range sc.Pubkeys {
		pk, err := bls.PublicKeyFromBytes(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "could not deserialize committee pubkey %d", i)
		}
		pubkeys[i] = pk
	}
	prepared := &preparedCommittee{root: root, pubkeys: pubkeys}
	s.committeeCache.Add(root, prepared)
	return prepared, nil
}
