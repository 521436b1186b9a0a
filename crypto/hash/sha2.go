package hash

import (
	"crypto/sha256"

	"github.com/droplets-system/epoch/model/drops"
)

// sha2_256Algo is stateless, so a single instance is safe for concurrent use.
type sha2_256Algo struct{}

var _ Hasher = (*sha2_256Algo)(nil)

// NewSHA2_256 returns a new instance of SHA2-256 hasher
func NewSHA2_256() Hasher {
	return &sha2_256Algo{}
}

func (s *sha2_256Algo) Algorithm() HashingAlgorithm {
	return SHA2_256
}

// ComputeHash calculates and returns the SHA2-256 output of input byte array.
func (s *sha2_256Algo) ComputeHash(data []byte) drops.Digest {
	return sha256.Sum256(data)
}

// ComputeHashParts calculates the SHA2-256 output of the parts written one
// after another, without any separator.
func (s *sha2_256Algo) ComputeHashParts(parts ...[]byte) drops.Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var d drops.Digest
	copy(d[:], h.Sum(nil))
	return d
}
