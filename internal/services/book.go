package services

import (
	"context"
	"fmt"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
)

// ISBNResolver fetches book metadata from an external bibliographic
// service. It fails with a typed lookup error rather than blocking.
type ISBNResolver interface {
	ByISBN(ctx context.Context, isbn string) (types.Book, error)
}

// BookService encapsulates catalog use-cases.
type BookService struct {
	cfg      config.Config
	resolver ISBNResolver
}

func NewBookService(cfg config.Config, resolver ISBNResolver) *BookService {
	return &BookService{cfg: cfg, resolver: resolver}
}

func (s *BookService) books() (*store.BookStore, error) {
	bs := store.NewBookStore(s.cfg.BooksPath())
	if err := bs.Load(); err != nil {
		return nil, err
	}
	return bs, nil
}

func (s *BookService) loans() (*store.LoanStore, error) {
	ls := store.NewLoanStore(s.cfg.LoansPath())
	if err := ls.Load(); err != nil {
		return nil, err
	}
	return ls, nil
}

// Get returns the book with the given ISBN.
func (s *BookService) Get(ctx context.Context, isbn string) (types.Book, error) {
	bs, err := s.books()
	if err != nil {
		return types.Book{}, err
	}
	return bs.Find(isbn)
}

// Create adds a book with full metadata to the catalog.
func (s *BookService) Create(ctx context.Context, book types.Book) error {
	bs, err := s.books()
	if err != nil {
		return err
	}
	if err := bs.Add(book); err != nil {
		return err
	}
	return bs.Save()
}

// CreateByISBN populates a new entry from the external lookup service.
// Lookup failures carry through as *lookup.LookupError.
func (s *BookService) CreateByISBN(ctx context.Context, isbn string) (types.Book, error) {
	book, err := s.resolver.ByISBN(ctx, isbn)
	if err != nil {
		return types.Book{}, err
	}
	if err := s.Create(ctx, book); err != nil {
		return types.Book{}, err
	}
	return book, nil
}

// Update mutates a book's metadata. A book on loan cannot be edited;
// the attempt fails with ErrNotAvailable.
func (s *BookService) Update(ctx context.Context, isbn, title, author, publisher, year string) error {
	if err := s.requireAvailable(isbn); err != nil {
		return err
	}

	bs, err := s.books()
	if err != nil {
		return err
	}
	if err := bs.Update(isbn, title, author, publisher, year); err != nil {
		return err
	}
	return bs.Save()
}

// Delete removes a book from the catalog. A book on loan cannot be
// deleted; the attempt fails with ErrNotAvailable.
func (s *BookService) Delete(ctx context.Context, isbn string) error {
	if err := s.requireAvailable(isbn); err != nil {
		return err
	}

	bs, err := s.books()
	if err != nil {
		return err
	}
	if err := bs.Remove(isbn); err != nil {
		return err
	}
	return bs.Save()
}

func (s *BookService) requireAvailable(isbn string) error {
	ls, err := s.loans()
	if err != nil {
		return err
	}
	if _, ok := ls.FindLoan(isbn); ok {
		return fmt.Errorf("book %s is on loan: %w", isbn, store.ErrNotAvailable)
	}
	return nil
}

// FindCover returns the path of the cover image for an ISBN, if one
// exists in the configured image directory.
func (s *BookService) FindCover(isbn string) (string, bool) {
	return store.FindCoverImage(s.cfg.ImageDir, isbn)
}

// References returns the book's citation strings keyed by format name.
func (s *BookService) References(ctx context.Context, isbn string) (map[string]string, error) {
	book, err := s.Get(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return book.References(), nil
}
