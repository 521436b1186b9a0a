package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation/badgerimpl"
	"github.com/droplets-system/epoch/storage/operation/pebbleimpl"
	"github.com/droplets-system/epoch/utils/unittest"
)

func TestInspectFolderEmpty(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		content, err := storage.InspectFolder(dir)
		require.NoError(t, err)
		require.Equal(t, storage.FolderEmpty, content)

		content, err = storage.InspectFolder(filepath.Join(dir, "missing"))
		require.NoError(t, err)
		require.Equal(t, storage.FolderEmpty, content)
	})
}

func TestInspectFolderBadger(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		db, err := badgerimpl.Open(dir, unittest.Logger())
		require.NoError(t, err)
		require.NoError(t, db.Close())

		content, err := storage.InspectFolder(dir)
		require.NoError(t, err)
		require.Equal(t, storage.FolderBadger, content)
	})
}

func TestInspectFolderPebble(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		db, err := pebbleimpl.Open(dir, unittest.Logger())
		require.NoError(t, err)
		require.NoError(t, db.Close())

		content, err := storage.InspectFolder(dir)
		require.NoError(t, err)
		require.Equal(t, storage.FolderPebble, content)
	})
}

func TestInspectFolderUnknown(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o600))

		content, err := storage.InspectFolder(dir)
		require.NoError(t, err)
		require.Equal(t, storage.FolderUnknown, content)

		_, err = storage.InspectFolder(filepath.Join(dir, "notes.txt"))
		require.Error(t, err)
	})
}
