package types

import "fmt"

// Book represents a catalog entry, keyed by ISBN.
// All bibliographic fields are free-form strings.
type Book struct {
	// ISBN is the unique key of the book. At least 10 characters.
	ISBN string `json:"isbn"`

	// Title of the book.
	Title string `json:"title"`

	// Author of the book.
	Author string `json:"author"`

	// Publisher of the book.
	Publisher string `json:"publisher"`

	// Year of publication.
	Year string `json:"year"`
}

// Citation format names accepted by References.
const (
	CitationAPA      = "APA"
	CitationMLA      = "MLA"
	CitationChicago  = "Chicago"
	CitationTurabian = "Turabian"
	CitationIEEE     = "IEEE"
)

// References renders the book as a bibliographic citation in each
// supported format, keyed by format name.
func (b Book) References() map[string]string {
	return map[string]string{
		CitationAPA:      fmt.Sprintf("%s (%s). *%s*. %s.", b.Author, b.Year, b.Title, b.Publisher),
		CitationMLA:      fmt.Sprintf("%s. *%s*. %s, %s.", b.Author, b.Title, b.Publisher, b.Year),
		CitationChicago:  fmt.Sprintf("%s. %s. *%s*. %s.", b.Author, b.Year, b.Title, b.Publisher),
		CitationTurabian: fmt.Sprintf("%s. *%s*. %s, %s.", b.Author, b.Title, b.Publisher, b.Year),
		CitationIEEE:     fmt.Sprintf("%s, *%s*. %s, %s.", b.Author, b.Title, b.Publisher, b.Year),
	}
}
