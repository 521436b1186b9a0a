package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightParse(t *testing.T) {
	var h Height
	require.NoError(t, h.Parse("42"))
	assert.Equal(t, uint64(42), h.Uint64())

	for _, raw := range []string{"", "0", "-1", "0x10", "abc", "18446744073709551616"} {
		assert.Error(t, h.Parse(raw), raw)
	}
}

func TestCommitRequest(t *testing.T) {
	commit, err := CommitRequest(strings.NewReader(
		`{"oracle":"alice","epoch":3,"commit":"3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", commit.Oracle.String())
	assert.Equal(t, uint64(3), commit.Epoch)
	assert.Equal(t, "3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747", commit.Commit.String())

	invalid := map[string]string{
		"empty body":     ``,
		"not json":       `commit`,
		"missing oracle": `{"epoch":3,"commit":"3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747"}`,
		"bad oracle":     `{"oracle":"Alice!","epoch":3,"commit":"3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747"}`,
		"zero epoch":     `{"oracle":"alice","epoch":0,"commit":"3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747"}`,
		"short commit":   `{"oracle":"alice","epoch":3,"commit":"3d1f"}`,
		"unknown field":  `{"oracle":"alice","epoch":3,"commit":"3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747","x":1}`,
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := CommitRequest(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestRevealRequest(t *testing.T) {
	reveal, err := RevealRequest(strings.NewReader(`{"oracle":"bob","epoch":1,"reveal":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "bob", reveal.Oracle.String())
	assert.Equal(t, "x", reveal.Reveal)

	// any plaintext may have been committed to, including the empty string
	reveal, err = RevealRequest(strings.NewReader(`{"oracle":"bob","epoch":1,"reveal":""}`))
	require.NoError(t, err)
	assert.Equal(t, "", reveal.Reveal)

	long := strings.Repeat("a", 5000)
	reveal, err = RevealRequest(strings.NewReader(`{"oracle":"bob","epoch":1,"reveal":"` + long + `"}`))
	require.NoError(t, err)
	assert.Equal(t, long, reveal.Reveal)

	_, err = RevealRequest(strings.NewReader(`{"oracle":"bob","epoch":1,"reveal":"` + strings.Repeat("a", 1<<16) + `"}`))
	assert.Error(t, err)

	_, err = RevealRequest(strings.NewReader(`{"oracle":"bob","epoch":1}`))
	assert.NoError(t, err)
}
