package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixUpperBound(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x03}, PrefixUpperBound([]byte{0x01, 0x02}))
	require.Equal(t, []byte{0x02}, PrefixUpperBound([]byte{0x01, 0xff}))
	require.Equal(t, []byte{0x01, 0x00, 0x01}, PrefixUpperBound([]byte{0x01, 0x00, 0x00}))
	require.Nil(t, PrefixUpperBound([]byte{0xff, 0xff}))

	// the input must not be modified
	prefix := []byte{0x05, 0xff}
	_ = PrefixUpperBound(prefix)
	require.Equal(t, []byte{0x05, 0xff}, prefix)
}

func TestStartEndPrefixToLowerUpperBound(t *testing.T) {
	lower, upper := StartEndPrefixToLowerUpperBound([]byte{0x10, 0x01}, []byte{0x10, 0x09})
	require.Equal(t, []byte{0x10, 0x01}, lower)
	require.Equal(t, []byte{0x10, 0x0a}, upper)
}
