package store

import (
	"fmt"
	"iter"
	"time"

	"github.com/bibliogo/apiserver/types"
)

// LoanStore owns the set of active loans, keyed by ISBN. It refers to
// books and users only through the identifiers it is given.
type LoanStore struct {
	path  string
	loans map[string]types.Loan
}

// NewLoanStore constructs a store over the snapshot at path.
func NewLoanStore(path string) *LoanStore {
	return &LoanStore{path: path, loans: make(map[string]types.Loan)}
}

// Load restores the ledger from durable storage. An absent snapshot
// yields an empty ledger.
func (s *LoanStore) Load() error {
	var records []types.Loan
	if err := loadSnapshot(s.path, &records); err != nil {
		return err
	}
	s.loans = make(map[string]types.Loan, len(records))
	for _, l := range records {
		s.loans[l.ISBN] = l
	}
	return nil
}

// Save persists the full ledger, atomically replacing the prior snapshot.
func (s *LoanStore) Save() error {
	records := make([]types.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		records = append(records, l)
	}
	return saveSnapshot(s.path, records)
}

// FindLoan returns the active loan for an ISBN, if any.
func (s *LoanStore) FindLoan(isbn string) (types.Loan, bool) {
	l, ok := s.loans[isbn]
	return l, ok
}

// LoansByUser yields the ISBNs currently loaned to the given user.
// The sequence is finite and restartable.
func (s *LoanStore) LoansByUser(userID string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for isbn, l := range s.loans {
			if l.UserID == userID {
				if !yield(isbn) {
					return
				}
			}
		}
	}
}

// AddLoan records a loan of the book to the user starting now. A book
// already on loan fails with ErrNotAvailable and the original loan is
// preserved.
func (s *LoanStore) AddLoan(isbn, userID string) error {
	if _, ok := s.loans[isbn]; ok {
		return fmt.Errorf("book %s: %w", isbn, ErrNotAvailable)
	}
	s.loans[isbn] = types.Loan{ISBN: isbn, UserID: userID, StartedAt: time.Now()}
	return nil
}

// RemoveLoan deletes the loan for the ISBN. A missing loan fails with
// ErrNotFound; a return by anyone but the recorded borrower fails with
// ErrInvalidReturn.
func (s *LoanStore) RemoveLoan(isbn, userID string) error {
	l, ok := s.loans[isbn]
	if !ok {
		return fmt.Errorf("loan %s: %w", isbn, ErrNotFound)
	}
	if l.UserID != userID {
		return fmt.Errorf("loan %s held by another user: %w", isbn, ErrInvalidReturn)
	}
	delete(s.loans, isbn)
	return nil
}

// Len returns the number of active loans.
func (s *LoanStore) Len() int {
	return len(s.loans)
}

// All returns the active loans in no particular order.
func (s *LoanStore) All() []types.Loan {
	records := make([]types.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		records = append(records, l)
	}
	return records
}
