package hash

import (
	"github.com/droplets-system/epoch/model/drops"
)

// HashingAlgorithm identifies a hashing algorithm.
type HashingAlgorithm int

const (
	UnknownHashingAlgorithm HashingAlgorithm = iota
	SHA2_256
)

func (a HashingAlgorithm) String() string {
	switch a {
	case SHA2_256:
		return "SHA2_256"
	default:
		return "UNKNOWN"
	}
}

// Hasher computes 256-bit digests over byte strings.
type Hasher interface {
	// Algorithm returns the hashing algorithm of the hasher.
	Algorithm() HashingAlgorithm
	// ComputeHash returns the digest of data.
	ComputeHash(data []byte) drops.Digest
	// ComputeHashParts returns the digest of the concatenation of parts.
	ComputeHashParts(parts ...[]byte) drops.Digest
}
