package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Snapshot_AbsentFileIsEmpty(t *testing.T) {
	var records []string
	err := loadSnapshot(filepath.Join(t.TempDir(), "missing.json"), &records)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_Snapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	require.NoError(t, saveSnapshot(path, []string{"a", "b"}))

	var records []string
	require.NoError(t, loadSnapshot(path, &records))
	assert.Equal(t, []string{"a", "b"}, records)
}

func Test_Snapshot_NewerSchemaVersionFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	payload := []byte(`{"version": 99, "records": ["a"]}`)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	var records []string
	err := loadSnapshot(path, &records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 99")
}

func Test_Snapshot_MalformedPayloadFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var records []string
	assert.Error(t, loadSnapshot(path, &records))
}

func Test_Snapshot_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")

	require.NoError(t, saveSnapshot(path, []int{1}))

	var records []int
	require.NoError(t, loadSnapshot(path, &records))
	assert.Equal(t, []int{1}, records)
}
