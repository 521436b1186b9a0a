package drops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DigestLength is the size of a SHA-256 digest in bytes.
const DigestLength = sha256.Size

// Digest is a 256-bit hash value, used for commits and epoch seeds.
type Digest [DigestLength]byte

// ZeroDigest is the digest of an epoch which has not been finalized yet.
var ZeroDigest Digest

// HexStringToDigest decodes a hex encoded digest.
func HexStringToDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("malformed digest %q: %w", s, err)
	}
	if len(b) != DigestLength {
		return d, fmt.Errorf("malformed digest %q: expected %d bytes, got %d", s, DigestLength, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// MustHexStringToDigest is like HexStringToDigest but panics on malformed input.
// Use for constants and tests only.
func MustHexStringToDigest(s string) Digest {
	d, err := HexStringToDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero returns true for the all-zero digest.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := HexStringToDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
