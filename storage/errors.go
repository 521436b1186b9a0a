package storage

import (
	"errors"
)

var (
	// Note: badger.ErrKeyNotFound and pebble.ErrNotFound are the errors returned
	// by the database APIs. The backend implementations convert both to
	// storage.ErrNotFound, so that no code above them depends on a backend.
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")
)
