package export

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []types.Book {
	return []types.Book{
		{ISBN: "9781491946008", Title: "Fluent Python", Author: "Luciano Ramalho", Publisher: "O'Reilly Media", Year: "2015"},
		{ISBN: "9780134190440", Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Publisher: "Addison-Wesley", Year: "2015"},
	}
}

// tuple projects a book onto the fields every export format carries.
func tuple(b types.Book) [4]string {
	return [4]string{b.ISBN, b.Author, b.Publisher, b.Year}
}

func tuples(books []types.Book) [][4]string {
	out := make([][4]string, 0, len(books))
	for _, b := range books {
		out = append(out, tuple(b))
	}
	return out
}

func Test_JSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileJSON)
	catalog := sampleCatalog()

	require.NoError(t, WriteJSON(path, catalog))
	got, err := ReadJSON(path)
	require.NoError(t, err)

	// The structured-record format keeps the full entry, title included.
	assert.Equal(t, catalog, got)
}

func Test_XML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileXML)
	catalog := sampleCatalog()

	require.NoError(t, WriteXML(path, catalog))
	got, err := ReadXML(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, tuples(catalog), tuples(got))
	for _, b := range got {
		assert.Empty(t, b.Title, "tree markup omits the title")
	}
}

func Test_CSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileCSV)
	catalog := sampleCatalog()

	require.NoError(t, WriteCSV(path, catalog))
	got, err := ReadCSV(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, tuples(catalog), tuples(got))
}

func Test_BibTeX_Content(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileBibTeX)

	require.NoError(t, WriteBibTeX(path, sampleCatalog()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "@book{book1,")
	assert.Contains(t, text, "@book{book2,")
	assert.Contains(t, text, `title="Fluent Python"`)
	assert.Contains(t, text, `isbn="9781491946008"`)
	assert.Contains(t, text, "year=2015,")
}

func Test_Pipeline_Export(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.Config{
		DataDir:   dataDir,
		ExportDir: filepath.Join(dataDir, "exports"),
	}

	books := store.NewBookStore(cfg.BooksPath())
	require.NoError(t, books.Load())
	for _, b := range sampleCatalog() {
		require.NoError(t, books.Add(b))
	}
	require.NoError(t, books.Save())

	pipeline := NewPipeline(cfg, nil)
	archivePath, err := pipeline.Export(context.Background())
	require.NoError(t, err)

	r, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{FileJSON, FileXML, FileCSV, FileBibTeX}, names)

	// Re-importing any format yields the same catalog tuples.
	extracted := t.TempDir()
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(extracted, f.Name), data, 0o644))
	}

	fromJSON, err := ReadJSON(filepath.Join(extracted, FileJSON))
	require.NoError(t, err)
	assert.ElementsMatch(t, tuples(sampleCatalog()), tuples(fromJSON))

	fromXML, err := ReadXML(filepath.Join(extracted, FileXML))
	require.NoError(t, err)
	assert.ElementsMatch(t, tuples(sampleCatalog()), tuples(fromXML))

	fromCSV, err := ReadCSV(filepath.Join(extracted, FileCSV))
	require.NoError(t, err)
	assert.ElementsMatch(t, tuples(sampleCatalog()), tuples(fromCSV))
}

func Test_Pipeline_EmptyCatalog(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.Config{
		DataDir:   dataDir,
		ExportDir: filepath.Join(dataDir, "exports"),
	}

	pipeline := NewPipeline(cfg, nil)
	archivePath, err := pipeline.Export(context.Background())
	require.NoError(t, err)

	r, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer r.Close()
	assert.Len(t, r.File, 4)
}
