// Package file implements the persistence layer on top of a flat JSON file.
// The whole record collection is read and rewritten on every mutation; there
// is no append log and no partial write.
package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"passport/config"
)

// Store owns the on-disk representation of the user collection. It exposes
// only LoadAll and Save; callers are expected to serialize read-modify-write
// cycles themselves.
type Store struct {
	path string
}

// NewStore is the constructor for Store.
func NewStore(cfg *config.Config) *Store {
	return &Store{path: cfg.Store.Path}
}

// NewStoreAtPath creates a store backed by an explicit file path.
func NewStoreAtPath(path string) *Store {
	return &Store{path: path}
}

// LoadAll reads the complete record collection from disk.
// A missing file is an empty collection, not an error.
func (s *Store) LoadAll() ([]userRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read record store")
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode record store")
	}

	return records, nil
}

// Save rewrites the complete record collection. The new content is written
// to a temporary file and renamed into place, so the store is either the old
// collection or the new one, never a truncated mix.
func (s *Store) Save(records []userRecord) error {
	if records == nil {
		records = []userRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode record store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to write record store")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to close record store")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to replace record store")
	}

	return nil
}
