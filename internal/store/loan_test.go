package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoanStore(t *testing.T) *LoanStore {
	t.Helper()
	s := NewLoanStore(filepath.Join(t.TempDir(), "loans.json"))
	require.NoError(t, s.Load())
	return s
}

func Test_LoanStore_AddLoan_ConflictPreservesOriginal(t *testing.T) {
	s := newLoanStore(t)

	require.NoError(t, s.AddLoan("9781491946008", "maria"))
	assert.ErrorIs(t, s.AddLoan("9781491946008", "pedro"), ErrNotAvailable)

	loan, ok := s.FindLoan("9781491946008")
	require.True(t, ok)
	assert.Equal(t, "maria", loan.UserID)
}

func Test_LoanStore_RemoveLoan(t *testing.T) {
	s := newLoanStore(t)
	require.NoError(t, s.AddLoan("9781491946008", "maria"))

	assert.ErrorIs(t, s.RemoveLoan("0000000000", "maria"), ErrNotFound)
	assert.ErrorIs(t, s.RemoveLoan("9781491946008", "pedro"), ErrInvalidReturn)

	// A rejected return leaves the loan in place.
	_, ok := s.FindLoan("9781491946008")
	require.True(t, ok)

	require.NoError(t, s.RemoveLoan("9781491946008", "maria"))
	_, ok = s.FindLoan("9781491946008")
	assert.False(t, ok)
}

func Test_LoanStore_LoansByUser_Restartable(t *testing.T) {
	s := newLoanStore(t)
	require.NoError(t, s.AddLoan("1111111111", "maria"))
	require.NoError(t, s.AddLoan("2222222222", "pedro"))
	require.NoError(t, s.AddLoan("3333333333", "maria"))

	seq := s.LoansByUser("maria")

	collect := func() []string {
		var isbns []string
		for isbn := range seq {
			isbns = append(isbns, isbn)
		}
		return isbns
	}

	first := collect()
	assert.ElementsMatch(t, []string{"1111111111", "3333333333"}, first)

	// The same sequence value can be ranged over again.
	second := collect()
	assert.ElementsMatch(t, first, second)

	// Early break is honored.
	var count int
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func Test_LoanStore_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.json")

	s := NewLoanStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.AddLoan("9781491946008", "maria"))
	require.NoError(t, s.Save())

	reloaded := NewLoanStore(path)
	require.NoError(t, reloaded.Load())
	loan, ok := reloaded.FindLoan("9781491946008")
	require.True(t, ok)
	assert.Equal(t, "maria", loan.UserID)
	assert.Equal(t, 1, reloaded.Len())
}
