package protocol

import (
	"errors"
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
)

var (
	// ErrSystemDisabled is returned by commits and reveals while the system
	// is disabled.
	ErrSystemDisabled = errors.New("Drops system is disabled.")

	// ErrOracleAlreadyExists is returned when registering an oracle twice.
	ErrOracleAlreadyExists = errors.New("Oracle already exists")

	// ErrOracleNotFound is returned when removing an unregistered oracle.
	ErrOracleNotFound = errors.New("Oracle not found")

	// ErrUnknownAccount is returned when registering an identity which is not
	// an account of the execution environment.
	ErrUnknownAccount = errors.New("Account does not exist.")

	// ErrEmptyRegistry is returned when an epoch would be created without
	// any registered oracle.
	ErrEmptyRegistry = errors.New("No active oracles")

	// ErrAlreadyCommitted is returned on a second commit of an oracle for an epoch.
	ErrAlreadyCommitted = errors.New("Oracle has already committed")

	// ErrAlreadyRevealed is returned on a second reveal of an oracle for an epoch.
	ErrAlreadyRevealed = errors.New("Oracle has already revealed")

	// ErrNoCommitFound is returned on a reveal without a prior commit.
	ErrNoCommitFound = errors.New("Oracle never committed")

	// ErrInvalidDuration is returned when configuring an epoch duration of zero.
	ErrInvalidDuration = errors.New("Epoch duration must be positive.")

	// ErrAlreadyInitialized is returned when initializing a protocol whose
	// first epoch already exists.
	ErrAlreadyInitialized = errors.New("Epoch 1 already exists, protocol is already initialized.")

	// ErrEpochAlreadyCompleted is returned when finalizing a completed epoch.
	ErrEpochAlreadyCompleted = errors.New("Epoch has already completed.")
)

// UnauthorizedError is returned when the caller of an action does not hold
// the authority the action requires.
type UnauthorizedError struct {
	Required drops.Name
}

func NewUnauthorizedError(required drops.Name) UnauthorizedError {
	return UnauthorizedError{Required: required}
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("missing required authority %s", e.Required)
}

func IsUnauthorizedError(err error) bool {
	var errUnauthorized UnauthorizedError
	return errors.As(err, &errUnauthorized)
}

// EpochNotFoundError is returned when an epoch record does not exist.
type EpochNotFoundError struct {
	Height uint64
}

func NewEpochNotFoundError(height uint64) EpochNotFoundError {
	return EpochNotFoundError{Height: height}
}

func (e EpochNotFoundError) Error() string {
	return fmt.Sprintf("Epoch %d does not exist.", e.Height)
}

func IsEpochNotFoundError(err error) bool {
	var errEpochNotFound EpochNotFoundError
	return errors.As(err, &errEpochNotFound)
}

// WrongEpochError is returned when a commit targets an epoch other than the
// current one.
type WrongEpochError struct {
	Submitted uint64
	Current   uint64
}

func NewWrongEpochError(submitted, current uint64) WrongEpochError {
	return WrongEpochError{Submitted: submitted, Current: current}
}

func (e WrongEpochError) Error() string {
	return fmt.Sprintf("Epoch submitted (%d) is not the current epoch (%d).", e.Submitted, e.Current)
}

func IsWrongEpochError(err error) bool {
	var errWrongEpoch WrongEpochError
	return errors.As(err, &errWrongEpoch)
}

// EpochNotYetClosedError is returned when revealing for an epoch which has
// not ended yet.
type EpochNotYetClosedError struct {
	Height uint64
}

func NewEpochNotYetClosedError(height uint64) EpochNotYetClosedError {
	return EpochNotYetClosedError{Height: height}
}

func (e EpochNotYetClosedError) Error() string {
	return fmt.Sprintf("Epoch (%d) has not completed.", e.Height)
}

func IsEpochNotYetClosedError(err error) bool {
	var errNotClosed EpochNotYetClosedError
	return errors.As(err, &errNotClosed)
}

// OracleNotInEpochError is returned when an oracle submits for an epoch
// whose snapshot does not include it.
type OracleNotInEpochError struct {
	Oracle drops.Name
	Height uint64
}

func NewOracleNotInEpochError(oracle drops.Name, height uint64) OracleNotInEpochError {
	return OracleNotInEpochError{Oracle: oracle, Height: height}
}

func (e OracleNotInEpochError) Error() string {
	return fmt.Sprintf("Oracle is not in the list of oracles for Epoch %d.", e.Height)
}

func IsOracleNotInEpochError(err error) bool {
	var errNotInEpoch OracleNotInEpochError
	return errors.As(err, &errNotInEpoch)
}

// RevealMismatchError is returned when the hash of a revealed value differs
// from the committed digest.
type RevealMismatchError struct {
	Reveal       string
	RevealDigest drops.Digest
	Commit       drops.Digest
}

func NewRevealMismatchError(reveal string, revealDigest, commit drops.Digest) RevealMismatchError {
	return RevealMismatchError{Reveal: reveal, RevealDigest: revealDigest, Commit: commit}
}

func (e RevealMismatchError) Error() string {
	return fmt.Sprintf("Reveal value '%s' hashes to '%s' which does not match commit value '%s'.",
		e.Reveal, e.RevealDigest, e.Commit)
}

func IsRevealMismatchError(err error) bool {
	var errMismatch RevealMismatchError
	return errors.As(err, &errMismatch)
}

var rejections = []error{
	ErrSystemDisabled,
	ErrOracleAlreadyExists,
	ErrOracleNotFound,
	ErrUnknownAccount,
	ErrEmptyRegistry,
	ErrAlreadyCommitted,
	ErrAlreadyRevealed,
	ErrNoCommitFound,
	ErrInvalidDuration,
	ErrAlreadyInitialized,
	ErrEpochAlreadyCompleted,
}

// IsRejection returns true if err is a rejection of the caller's request,
// as opposed to a failure of the service. Rejections leave no trace in
// storage and can be corrected by the caller.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range rejections {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return IsUnauthorizedError(err) ||
		IsEpochNotFoundError(err) ||
		IsWrongEpochError(err) ||
		IsEpochNotYetClosedError(err) ||
		IsOracleNotInEpochError(err) ||
		IsRevealMismatchError(err)
}

// RejectionReason returns a short stable label for a rejection, used in
// metrics and API responses. It returns "internal" for non-rejections.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSystemDisabled):
		return "system_disabled"
	case errors.Is(err, ErrOracleAlreadyExists):
		return "oracle_already_exists"
	case errors.Is(err, ErrOracleNotFound):
		return "oracle_not_found"
	case errors.Is(err, ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, ErrEmptyRegistry):
		return "empty_registry"
	case errors.Is(err, ErrAlreadyCommitted):
		return "already_committed"
	case errors.Is(err, ErrAlreadyRevealed):
		return "already_revealed"
	case errors.Is(err, ErrNoCommitFound):
		return "no_commit_found"
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, ErrEpochAlreadyCompleted):
		return "epoch_already_completed"
	case IsUnauthorizedError(err):
		return "unauthorized"
	case IsEpochNotFoundError(err):
		return "epoch_not_found"
	case IsWrongEpochError(err):
		return "wrong_epoch"
	case IsEpochNotYetClosedError(err):
		return "epoch_not_yet_closed"
	case IsOracleNotInEpochError(err):
		return "oracle_not_in_epoch"
	case IsRevealMismatchError(err):
		return "reveal_mismatch"
	default:
		return "internal"
	}
}
