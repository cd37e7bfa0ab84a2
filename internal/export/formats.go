package export

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/bibliogo/apiserver/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// File names inside the archive, one per target format.
const (
	FileJSON   = "library.json"
	FileXML    = "library.xml"
	FileCSV    = "library.csv"
	FileBibTeX = "library.bib"
)

// xmlLibrary is the tree-markup shape: one <book> element per catalog
// entry carrying the identifying tuple.
type xmlLibrary struct {
	XMLName xml.Name  `xml:"library"`
	Books   []xmlBook `xml:"book"`
}

type xmlBook struct {
	ISBN      string `xml:"isbn"`
	Author    string `xml:"author"`
	Publisher string `xml:"publisher"`
	Year      string `xml:"year"`
}

// WriteJSON serializes the full catalog as structured records.
func WriteJSON(path string, books []types.Book) error {
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON re-imports a structured-record export.
func ReadJSON(path string) ([]types.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var books []types.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode json export: %w", err)
	}
	return books, nil
}

// WriteXML serializes the catalog as tree markup.
func WriteXML(path string, books []types.Book) error {
	library := xmlLibrary{Books: make([]xmlBook, 0, len(books))}
	for _, b := range books {
		library.Books = append(library.Books, xmlBook{
			ISBN:      b.ISBN,
			Author:    b.Author,
			Publisher: b.Publisher,
			Year:      b.Year,
		})
	}
	data, err := xml.MarshalIndent(library, "", "\t")
	if err != nil {
		return fmt.Errorf("encode xml export: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadXML re-imports a tree-markup export.
func ReadXML(path string) ([]types.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var library xmlLibrary
	if err := xml.Unmarshal(data, &library); err != nil {
		return nil, fmt.Errorf("decode xml export: %w", err)
	}
	books := make([]types.Book, 0, len(library.Books))
	for _, b := range library.Books {
		books = append(books, types.Book{
			ISBN:      b.ISBN,
			Author:    b.Author,
			Publisher: b.Publisher,
			Year:      b.Year,
		})
	}
	return books, nil
}

// WriteCSV serializes the catalog as a flat table.
func WriteCSV(path string, books []types.Book) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"isbn", "author", "publisher", "year"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range books {
		if err := w.Write([]string{b.ISBN, b.Author, b.Publisher, b.Year}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv export: %w", err)
	}
	return nil
}

// ReadCSV re-imports a flat-tabular export.
func ReadCSV(path string) ([]types.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv export: %w", err)
	}
	var books []types.Book
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) != 4 {
			return nil, fmt.Errorf("csv export row %d: expected 4 columns, got %d", i, len(row))
		}
		books = append(books, types.Book{
			ISBN:      row[0],
			Author:    row[1],
			Publisher: row[2],
			Year:      row[3],
		})
	}
	return books, nil
}

// WriteBibTeX serializes the catalog as bibliography citations.
func WriteBibTeX(path string, books []types.Book) error {
	var sb strings.Builder
	for i, b := range books {
		fmt.Fprintf(&sb, "@book{book%d,\n", i+1)
		fmt.Fprintf(&sb, "\ttitle=\"%s\",\n", b.Title)
		fmt.Fprintf(&sb, "\tauthor=\"%s\",\n", b.Author)
		fmt.Fprintf(&sb, "\tyear=%s,\n", b.Year)
		fmt.Fprintf(&sb, "\tpublisher=\"%s\",\n", b.Publisher)
		fmt.Fprintf(&sb, "\tisbn=\"%s\"\n", b.ISBN)
		sb.WriteString("}\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
