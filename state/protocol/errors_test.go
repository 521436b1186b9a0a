package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/droplets-system/epoch/model/drops"
)

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, NewUnauthorizedError("alice"), "missing required authority alice")
	assert.EqualError(t, NewEpochNotFoundError(10), "Epoch 10 does not exist.")
	assert.EqualError(t, NewWrongEpochError(2, 1), "Epoch submitted (2) is not the current epoch (1).")
	assert.EqualError(t, NewEpochNotYetClosedError(1), "Epoch (1) has not completed.")
	assert.EqualError(t, NewOracleNotInEpochError("bob", 1), "Oracle is not in the list of oracles for Epoch 1.")
	assert.EqualError(t,
		NewRevealMismatchError("foo",
			drops.MustHexStringToDigest("2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae"),
			drops.MustHexStringToDigest("3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747")),
		"Reveal value 'foo' hashes to '2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae' "+
			"which does not match commit value '3d1f01d81f9d605b2da582fbf5a4110ef35477caf7f2c5ae4fa0e3877ed16747'.")
}

func TestIsRejection(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("could not submit: %w", err) }

	for _, err := range []error{
		ErrSystemDisabled,
		ErrEmptyRegistry,
		wrapped(ErrAlreadyCommitted),
		wrapped(NewUnauthorizedError("alice")),
		wrapped(NewWrongEpochError(2, 1)),
		NewEpochNotFoundError(3),
		NewRevealMismatchError("x", drops.ZeroDigest, drops.ZeroDigest),
	} {
		assert.True(t, IsRejection(err), err.Error())
		assert.NotEqual(t, "internal", RejectionReason(err), err.Error())
	}

	assert.False(t, IsRejection(nil))
	assert.False(t, IsRejection(errors.New("disk on fire")))
	assert.Equal(t, "internal", RejectionReason(errors.New("disk on fire")))
	assert.Equal(t, "wrong_epoch", RejectionReason(wrapped(NewWrongEpochError(1, 2))))
}
