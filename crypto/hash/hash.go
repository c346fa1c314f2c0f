// Package hash provides the digest functions used across the verification
// core. Callers that fold Merkle proofs receive a Hasher value instead of
// reaching for a package level default, so the same code can verify
// execution-side keccak trees and consensus-side sha256 trees.
package hash

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/minio/sha256-simd"
)

// Hasher maps arbitrary input bytes to a 32 byte digest.
type Hasher func(data []byte) [32]byte

var sha256Pool = sync.Pool{New: func() interface{} {
	return sha256.New()
}}

// Sha256 defines a function that returns the sha256 checksum of the data passed in.
// https://github.com/ethereum/consensus-specs/blob/v1.0.1/specs/phase0/beacon-chain.md#hash
func Sha256(data []byte) [32]byte {
	h, ok := sha256Pool.Get().(hash.Hash)
	if !ok {
		h = sha256.New()
	}
	defer sha256Pool.Put(h)
	h.Reset()

	var b [32]byte

	// The hash interface never returns an error, for that reason
	// we are not handling the error below. For reference, it is
	// stated here https://golang.org/pkg/hash/#Hash
	// #nosec G104
	h.Write(data)
	h.Sum(b[:0])

	return b
}

// CustomSHA256Hasher returns a hash function that uses
// an enclosed hasher. This is not safe for concurrent
// use as the same hasher is being called throughout.
func CustomSHA256Hasher() Hasher {
	hasher, ok := sha256Pool.Get().(hash.Hash)
	var h Hasher
	if !ok {
		h = Sha256
	} else {
		h = func(data []byte) [32]byte {
			var b [32]byte
			hasher.Reset()
			hasher.Write(data)
			hasher.Sum(b[:0])

			return b
		}
	}

	return h
}

// Keccak256 returns the legacy keccak256 digest of the data passed in,
// as used by execution layer receipt and state tries.
func Keccak256(data []byte) [32]byte {
	return [32]byte(crypto.Keccak256Hash(data))
}
