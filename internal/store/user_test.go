package store

import (
	"path/filepath"
	"testing"

	"github.com/bibliogo/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserStore(t *testing.T) *UserStore {
	t.Helper()
	s := NewUserStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, s.Load())
	return s
}

func testUser(id string) types.User {
	return types.User{
		ID:           id,
		Name:         "Ana",
		Surname1:     "García",
		Surname2:     "López",
		Role:         types.RoleMember,
		PasswordHash: "digest",
	}
}

func Test_UserStore_AddFind(t *testing.T) {
	s := newUserStore(t)

	require.NoError(t, s.Add(testUser("u1")))

	got, err := s.Find("u1")
	require.NoError(t, err)
	assert.Equal(t, testUser("u1"), got)

	_, err = s.Find("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_UserStore_AddDuplicateFails(t *testing.T) {
	s := newUserStore(t)

	require.NoError(t, s.Add(testUser("u1")))
	assert.ErrorIs(t, s.Add(testUser("u1")), ErrAlreadyExists)
}

func Test_UserStore_Remove(t *testing.T) {
	s := newUserStore(t)

	require.NoError(t, s.Add(testUser("u1")))
	require.NoError(t, s.Remove("u1"))

	_, err := s.Find("u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Remove("u1"), ErrNotFound)
}

func Test_UserStore_Update(t *testing.T) {
	s := newUserStore(t)

	require.NoError(t, s.Add(testUser("u1")))
	require.NoError(t, s.Update("u1", "Marta", "Ruiz", "Pérez"))

	got, err := s.Find("u1")
	require.NoError(t, err)
	assert.Equal(t, "Marta", got.Name)
	assert.Equal(t, "Ruiz", got.Surname1)
	assert.Equal(t, "Pérez", got.Surname2)

	assert.ErrorIs(t, s.Update("missing", "a", "b", "c"), ErrNotFound)
}

func Test_UserStore_ChangePassword_TwoChannels(t *testing.T) {
	s := newUserStore(t)
	require.NoError(t, s.Add(testUser("u1")))

	// Wrong old hash: plain false, no error.
	ok, err := s.ChangePassword("u1", "wrong", "new")
	require.NoError(t, err)
	assert.False(t, ok)

	// Matching old hash swaps the digest.
	ok, err = s.ChangePassword("u1", "digest", "new")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Find("u1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)

	// Missing user is an error, not a false.
	_, err = s.ChangePassword("missing", "digest", "new")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_UserStore_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	s := NewUserStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.Add(testUser("u1")))
	require.NoError(t, s.Save())

	reloaded := NewUserStore(path)
	require.NoError(t, reloaded.Load())

	got, err := reloaded.Find("u1")
	require.NoError(t, err)
	assert.Equal(t, testUser("u1"), got)
}
