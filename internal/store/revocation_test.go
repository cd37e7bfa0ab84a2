package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRevocationStore(t *testing.T) *RevocationStore {
	t.Helper()
	s, err := NewRevocationStore(filepath.Join(t.TempDir(), "revoked.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func Test_RevocationStore_RevokeAndCheck(t *testing.T) {
	s := newRevocationStore(t)

	revoked, err := s.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke("jti-1"))

	revoked, err = s.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other identifiers are unaffected.
	revoked, err = s.IsRevoked("jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func Test_RevocationStore_DuplicateRevoke(t *testing.T) {
	s := newRevocationStore(t)

	require.NoError(t, s.Revoke("jti-1"))
	assert.ErrorIs(t, s.Revoke("jti-1"), ErrAlreadyRevoked)
}

func Test_RevocationStore_Find(t *testing.T) {
	s := newRevocationStore(t)

	_, err := s.Find("jti-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Revoke("jti-1"))

	record, err := s.Find("jti-1")
	require.NoError(t, err)
	assert.Equal(t, "jti-1", record.JTI)
	assert.False(t, record.RevokedAt.IsZero())
}

func Test_RevocationStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revoked.db")

	s, err := NewRevocationStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Revoke("jti-1"))
	require.NoError(t, s.Close())

	reopened, err := NewRevocationStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	revoked, err := reopened.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
