// Package signing computes the signature domains and signing roots that bind
// sync committee signatures to a single chain and fork.
package signing

import (
	fssz "github.com/ferranbt/fastssz"
	"github.com/pkg/errors"

	"github.com/frostfork/frostbridge/consensus/beacon"
)

// DomainByteLength length of domain byte array.
const DomainByteLength = 4

// ForkVersionByteLength length of fork version byte array.
const ForkVersionByteLength = 4

// ErrNilObject is returned when a signing root is requested of a nil object.
var ErrNilObject = errors.New("cannot compute signing root of nil object")

// ComputeSigningRoot computes the root of the object by calculating the hash
// tree root of the signing data with the given domain.
//
// Spec pseudocode definition:
//
//	def compute_signing_root(ssz_object: SSZObject, domain: Domain) -> Root:
//	  """
//	  Return the signing root for the corresponding signing data.
//	  """
//	  return hash_tree_root(SigningData(
//	    object_root=hash_tree_root(ssz_object),
//	    domain=domain,
//	  ))
func ComputeSigningRoot(object fssz.HashRoot, domain []byte) ([32]byte, error) {
	if object == nil {
		return [32]byte{}, ErrNilObject
	}
	objRoot, err := object.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not hash object")
	}
	container := &beacon.SigningData{
		ObjectRoot: objRoot[:],
		Domain:     domain,
	}
	return container.HashTreeRoot()
}

// ComputeDomain returns the domain version for BLS private key to sign and
// verify with.
//
// Spec pseudocode definition:
//
//	def compute_domain(domain_type: DomainType, fork_version: Version=None, genesis_validators_root: Root=None) -> Domain:
//	  """
//	  Return the domain for the ``domain_type`` and ``fork_version``.
//	  """
//	  if fork_version is None:
//	    fork_version = GENESIS_FORK_VERSION
//	  if genesis_validators_root is None:
//	    genesis_validators_root = Root()  # all bytes zero by default
//	  fork_data_root = compute_fork_data_root(fork_version, genesis_validators_root)
//	  return Domain(domain_type + fork_data_root[:28])
func ComputeDomain(domainType [DomainByteLength]byte, forkVersion, genesisValidatorsRoot []byte) ([]byte, error) {
	if forkVersion == nil {
		forkVersion = make([]byte, ForkVersionByteLength)
	}
	if genesisValidatorsRoot == nil {
		genesisValidatorsRoot = make([]byte, 32)
	}
	forkBytes := [ForkVersionByteLength]byte{}
	copy(forkBytes[:], forkVersion)
	forkDataRoot, err := computeForkDataRoot(forkBytes[:], genesisValidatorsRoot)
	if err != nil {
		return nil, err
	}
	return domain(domainType, forkDataRoot[:]), nil
}

// This returns the bls domain given by the domain type and fork data root.
func domain(domainType [DomainByteLength]byte, forkDataRoot []byte) []byte {
	b := []byte{}
	b = append(b, domainType[:4]...)
	b = append(b, forkDataRoot[:28]...)
	return b
}

// this returns the 32byte fork data root for the ``current_version`` and
// ``genesis_validators_root``. This is used primarily in signature domains to
// avoid collisions across forks/chains.
//
// Spec pseudocode definition:
//
//	def compute_fork_data_root(current_version: Version, genesis_validators_root: Root) -> Root:
//	  """
//	  Return the 32-byte fork data root for the ``current_version`` and ``genesis_validators_root``.
//	  """
//	  return hash_tree_root(ForkData(
//	    current_version=current_version,
//	    genesis_validators_root=genesis_validators_root,
//	  ))
func computeForkDataRoot(version, root []byte) ([32]byte, error) {
	r, err := (&beacon.ForkData{
		CurrentVersion:        version,
		GenesisValidatorsRoot: root,
	}).HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not hash fork data")
	}
	return r, nil
}
