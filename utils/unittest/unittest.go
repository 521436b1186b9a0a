package unittest

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireReturnsBefore requires that the given function returns before the
// duration expires.
func RequireReturnsBefore(t testing.TB, f func(), duration time.Duration, msg string) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		require.Fail(t, "function did not return in time: "+msg)
	case <-done:
		return
	}
}

// RequireCloseBefore requires that ch is closed before the duration expires.
func RequireCloseBefore(t testing.TB, ch <-chan struct{}, duration time.Duration, msg string) {
	select {
	case <-time.After(duration):
		require.Fail(t, "channel was not closed in time: "+msg)
	case <-ch:
	}
}

// AssertErrSubstringMatch asserts that two errors match with substring
// checking on the Error method. Use it for errors that crossed a process
// boundary, e.g. as an HTTP response body, where errors.Is cannot be used.
func AssertErrSubstringMatch(t testing.TB, expected, actual error) {
	require.NotNil(t, expected)
	require.NotNil(t, actual)
	assert.True(
		t,
		strings.Contains(actual.Error(), expected.Error()) || strings.Contains(expected.Error(), actual.Error()),
		"expected error: '%s', got: '%s'", expected.Error(), actual.Error(),
	)
}

func TempDir(t testing.TB) string {
	dir, err := os.MkdirTemp("", "drops-testing-temp-")
	require.NoError(t, err)
	return dir
}

func RunWithTempDir(t testing.TB, f func(string)) {
	dir := TempDir(t)
	defer os.RemoveAll(dir)
	f(dir)
}
