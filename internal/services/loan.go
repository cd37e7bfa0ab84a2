package services

import (
	"context"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
)

// LoanService encapsulates circulation use-cases. It refers to books
// and users only through the identifiers it is given.
type LoanService struct {
	cfg config.Config
}

func NewLoanService(cfg config.Config) *LoanService {
	return &LoanService{cfg: cfg}
}

func (s *LoanService) ledger() (*store.LoanStore, error) {
	ls := store.NewLoanStore(s.cfg.LoansPath())
	if err := ls.Load(); err != nil {
		return nil, err
	}
	return ls, nil
}

// Lend records a loan of the book to the user. A book that already has
// an active loan fails with ErrNotAvailable.
func (s *LoanService) Lend(ctx context.Context, isbn, userID string) error {
	ls, err := s.ledger()
	if err != nil {
		return err
	}
	if err := ls.AddLoan(isbn, userID); err != nil {
		return err
	}
	return ls.Save()
}

// Return deletes the loan for the ISBN. Only the recorded borrower may
// return it; anyone else fails with ErrInvalidReturn.
func (s *LoanService) Return(ctx context.Context, isbn, userID string) error {
	ls, err := s.ledger()
	if err != nil {
		return err
	}
	if err := ls.RemoveLoan(isbn, userID); err != nil {
		return err
	}
	return ls.Save()
}

// ActiveLoan returns the current loan for an ISBN, if any.
func (s *LoanService) ActiveLoan(ctx context.Context, isbn string) (types.Loan, bool, error) {
	ls, err := s.ledger()
	if err != nil {
		return types.Loan{}, false, err
	}
	l, ok := ls.FindLoan(isbn)
	return l, ok, nil
}

// LoansFor collects the ISBNs currently loaned to the given user.
func (s *LoanService) LoansFor(ctx context.Context, userID string) ([]string, error) {
	ls, err := s.ledger()
	if err != nil {
		return nil, err
	}
	var isbns []string
	for isbn := range ls.LoansByUser(userID) {
		isbns = append(isbns, isbn)
	}
	return isbns, nil
}

// Snapshot returns every active loan for read-only consumers.
func (s *LoanService) Snapshot(ctx context.Context) ([]types.Loan, error) {
	ls, err := s.ledger()
	if err != nil {
		return nil, err
	}
	return ls.All(), nil
}
