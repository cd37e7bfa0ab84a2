package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bibliogo/apiserver/types"
)

// BookStore owns the catalog for one request cycle.
type BookStore struct {
	path  string
	books []types.Book
}

// NewBookStore constructs a store over the snapshot at path.
func NewBookStore(path string) *BookStore {
	return &BookStore{path: path}
}

// Load restores the catalog from durable storage. An absent snapshot
// yields an empty catalog.
func (s *BookStore) Load() error {
	s.books = nil
	return loadSnapshot(s.path, &s.books)
}

// Save persists the full catalog, atomically replacing the prior snapshot.
func (s *BookStore) Save() error {
	records := s.books
	if records == nil {
		records = []types.Book{}
	}
	return saveSnapshot(s.path, records)
}

// Find returns the book with the given ISBN or ErrNotFound.
func (s *BookStore) Find(isbn string) (types.Book, error) {
	for _, b := range s.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return types.Book{}, ErrNotFound
}

// Add inserts a book. A duplicate ISBN fails with ErrAlreadyExists.
func (s *BookStore) Add(book types.Book) error {
	if _, err := s.Find(book.ISBN); err == nil {
		return fmt.Errorf("book %s: %w", book.ISBN, ErrAlreadyExists)
	}
	s.books = append(s.books, book)
	return nil
}

// Remove deletes the book with the given ISBN or fails with ErrNotFound.
func (s *BookStore) Remove(isbn string) error {
	for i, b := range s.books {
		if b.ISBN == isbn {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
}

// Update mutates the bibliographic fields of an existing book in place.
func (s *BookStore) Update(isbn, title, author, publisher, year string) error {
	for i := range s.books {
		if s.books[i].ISBN == isbn {
			s.books[i].Title = title
			s.books[i].Author = author
			s.books[i].Publisher = publisher
			s.books[i].Year = year
			return nil
		}
	}
	return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
}

// All returns the catalog in snapshot order.
func (s *BookStore) All() []types.Book {
	return s.books
}

// FindCoverImage looks for any file named <isbn>.<ext> in imageDir and
// returns the first match. No match is not an error.
func FindCoverImage(imageDir, isbn string) (string, bool) {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, isbn+".") {
			return filepath.Join(imageDir, name), true
		}
	}
	return "", false
}
