package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
)

const (

	// codes for special database markers

	codeState    = 1 // singleton system state
	codeSequence = 2 // next available primary key, per table

	// codes for entities

	codeOracle = 10
	codeEpoch  = 20
	codeCommit = 30
	codeReveal = 40

	// codes for indexes

	codeCommitByEpochOracle = 31 // epoch height + oracle name -> commit ID
	codeRevealByEpochOracle = 41 // epoch height + oracle name -> reveal ID
)

// MakePrefix builds a key from a one-byte code followed by the binary
// encoding of each key part.
func MakePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, EncodeKeyPart(key)...)
	}
	return prefix
}

// EncodeKeyPart encodes a key part. Integers are encoded big-endian so that
// byte order equals numeric order.
func EncodeKeyPart(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case drops.Name:
		return []byte(i)
	case string:
		return []byte(i)
	case []byte:
		return i
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
