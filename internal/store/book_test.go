package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bibliogo/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookStore(t *testing.T) *BookStore {
	t.Helper()
	s := NewBookStore(filepath.Join(t.TempDir(), "books.json"))
	require.NoError(t, s.Load())
	return s
}

func fluentPython() types.Book {
	return types.Book{
		ISBN:      "9781491946008",
		Title:     "Fluent Python",
		Author:    "Luciano Ramalho",
		Publisher: "O'Reilly Media",
		Year:      "2015",
	}
}

func Test_BookStore_AddFindRemove(t *testing.T) {
	s := newBookStore(t)
	book := fluentPython()

	require.NoError(t, s.Add(book))

	got, err := s.Find(book.ISBN)
	require.NoError(t, err)
	assert.Equal(t, book, got)

	require.NoError(t, s.Remove(book.ISBN))
	_, err = s.Find(book.ISBN)
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_BookStore_AddDuplicateFails(t *testing.T) {
	s := newBookStore(t)

	require.NoError(t, s.Add(fluentPython()))
	assert.ErrorIs(t, s.Add(fluentPython()), ErrAlreadyExists)
}

func Test_BookStore_Update(t *testing.T) {
	s := newBookStore(t)
	require.NoError(t, s.Add(fluentPython()))

	require.NoError(t, s.Update("9781491946008", "Fluent Python 2e", "Luciano Ramalho", "O'Reilly Media", "2022"))

	got, err := s.Find("9781491946008")
	require.NoError(t, err)
	assert.Equal(t, "Fluent Python 2e", got.Title)
	assert.Equal(t, "2022", got.Year)

	assert.ErrorIs(t, s.Update("0000000000", "t", "a", "p", "y"), ErrNotFound)
}

func Test_BookStore_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	s := NewBookStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.Add(fluentPython()))
	require.NoError(t, s.Save())

	reloaded := NewBookStore(path)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.Find("9781491946008")
	require.NoError(t, err)
	assert.Equal(t, fluentPython(), got)
}

func Test_FindCoverImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "9781491946008.jpg"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.png"), []byte("img"), 0o644))

	path, ok := FindCoverImage(dir, "9781491946008")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "9781491946008.jpg"), path)

	_, ok = FindCoverImage(dir, "0000000000")
	assert.False(t, ok)

	// A missing directory is no cover, not an error.
	_, ok = FindCoverImage(filepath.Join(dir, "missing"), "9781491946008")
	assert.False(t, ok)
}
