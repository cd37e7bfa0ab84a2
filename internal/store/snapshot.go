package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// snapshotSchemaVersion is bumped whenever the persisted record shape
// changes. Loading a snapshot written by a newer version fails loudly
// instead of misreading records.
const snapshotSchemaVersion = 1

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type snapshotEnvelope[T any] struct {
	Version int `json:"version"`
	Records T   `json:"records"`
}

// loadSnapshot restores a collection from path. An absent file is the
// defined bootstrap state and yields the zero collection, not an error.
func loadSnapshot[T any](path string, records *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load snapshot %s: %w", path, err)
	}

	var envelope snapshotEnvelope[T]
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if envelope.Version > snapshotSchemaVersion {
		return fmt.Errorf("snapshot %s: schema version %d is newer than supported %d",
			path, envelope.Version, snapshotSchemaVersion)
	}

	*records = envelope.Records
	return nil
}

// saveSnapshot persists a collection, atomically replacing the prior
// snapshot via a temp file and rename. Any I/O failure propagates.
func saveSnapshot[T any](path string, records T) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(snapshotEnvelope[T]{
		Version: snapshotSchemaVersion,
		Records: records,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}
