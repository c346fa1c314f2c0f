package bls

import (
	"bytes"

	bls12 "github.com/herumi/bls-eth-go-binary/bls"
)

var zeroSecretKey = [32]byte{}

// SecretKey used in the BLS signature scheme.
type SecretKey struct {
	p *bls12.SecretKey
}

// RandKey creates a new private key using a cryptographically secure random
// number generator.
func RandKey() (*SecretKey, error) {
	secKey := &bls12.SecretKey{}
	secKey.SetByCSPRNG()
	if bytes.Equal(secKey.Serialize(), zeroSecretKey[:]) {
		return nil, ErrZeroKey
	}
	return &SecretKey{p: secKey}, nil
}

// PublicKey obtains the public key corresponding to the BLS secret key.
func (s *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{p: s.p.GetPublicKey()}
}

// Sign a message using a secret key.
//
// Spec pseudocode definition:
//
//	def Sign(SK: int, message: Bytes) -> BLSSignature
func (s *SecretKey) Sign(msg []byte) *Signature {
	signature := s.p.SignByte(msg)
	return &Signature{s: signature}
}

// Marshal a secret key into a LittleEndian byte slice.
func (s *SecretKey) Marshal() []byte {
	return s.p.Serialize()
}
