// Package dbtest runs tests against every supported storage backend.
package dbtest

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation/badgerimpl"
	"github.com/droplets-system/epoch/storage/operation/pebbleimpl"
)

// WithWriter commits the writes of fn in a single batch, failing the test on error.
type WithWriter func(*testing.T, func(storage.Writer) error)

// RunWithDB runs fn once against an in-memory badger database and once
// against an in-memory pebble database.
func RunWithDB(t *testing.T, fn func(*testing.T, storage.DB)) {
	t.Run("BadgerStorage", func(t *testing.T) {
		RunWithBadgerDB(t, fn)
	})

	t.Run("PebbleStorage", func(t *testing.T) {
		RunWithPebbleDB(t, fn)
	})
}

// RunWithBadgerDB runs fn against a fresh in-memory badger database.
func RunWithBadgerDB(t *testing.T, fn func(*testing.T, storage.DB)) {
	db, err := badgerimpl.Open("", zerolog.Nop())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	fn(t, db)
}

// RunWithPebbleDB runs fn against a fresh in-memory pebble database.
func RunWithPebbleDB(t *testing.T, fn func(*testing.T, storage.DB)) {
	db, err := pebbleimpl.Open("", zerolog.Nop())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	fn(t, db)
}

// RunWithStorages runs fn on every backend with a reader of the committed
// state and a helper committing writes.
func RunWithStorages(t *testing.T, fn func(*testing.T, storage.Reader, WithWriter)) {
	RunWithDB(t, func(t *testing.T, db storage.DB) {
		withWriter := func(t *testing.T, writing func(storage.Writer) error) {
			require.NoError(t, db.WithReaderBatchWriter(storage.OnlyWriter(writing)))
		}
		fn(t, db.Reader(), withWriter)
	})
}
