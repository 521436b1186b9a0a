package storage

import (
	"fmt"
	"os"
	"strings"
)

// FolderContent is the kind of database found in a data directory.
type FolderContent int

const (
	// FolderEmpty is a missing or empty directory.
	FolderEmpty FolderContent = iota
	FolderBadger
	FolderPebble
	// FolderUnknown holds files of neither engine.
	FolderUnknown
)

func (c FolderContent) String() string {
	switch c {
	case FolderEmpty:
		return "empty"
	case FolderBadger:
		return "badger"
	case FolderPebble:
		return "pebble"
	default:
		return "unknown"
	}
}

// InspectFolder reports which database engine wrote the files in dir.
// A directory which does not exist is empty, since the engines create it.
func InspectFolder(dir string) (FolderContent, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return FolderEmpty, nil
	}
	if err != nil {
		return FolderUnknown, err
	}
	if !info.IsDir() {
		return FolderUnknown, fmt.Errorf("%s is not a directory", dir)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return FolderUnknown, err
	}
	if len(files) == 0 {
		return FolderEmpty, nil
	}

	var (
		pebbleManifest bool
		badgerManifest bool
		keyRegistry    bool
		current        bool
		walLog         bool
		valueLog       bool
	)
	for _, file := range files {
		name := file.Name()
		switch {
		case strings.HasPrefix(name, "MANIFEST-"):
			pebbleManifest = true
		case name == "MANIFEST":
			badgerManifest = true
		case name == "CURRENT":
			current = true
		case name == "KEYREGISTRY":
			keyRegistry = true
		case strings.HasSuffix(name, ".log"):
			walLog = true
		case strings.HasSuffix(name, ".vlog"):
			valueLog = true
		}
	}

	switch {
	case pebbleManifest && current && walLog:
		return FolderPebble, nil
	case badgerManifest && keyRegistry && valueLog:
		return FolderBadger, nil
	default:
		return FolderUnknown, nil
	}
}
