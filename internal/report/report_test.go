package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bibliogo/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReport(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func Test_MembershipCard(t *testing.T) {
	g := NewGenerator(t.TempDir())

	path, err := g.MembershipCard(types.User{
		ID:       "maria",
		Name:     "María",
		Surname1: "García",
		Surname2: "López",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "card_maria.txt"))

	content := readReport(t, path)
	assert.Contains(t, content, "== Carné de Usuario ==")
	assert.Contains(t, content, "Número de socio:  maria")
	assert.Contains(t, content, "Primer apellido:  García")
	assert.Contains(t, content, "Segundo apellido: López")
}

func Test_BookSheet(t *testing.T) {
	g := NewGenerator(t.TempDir())
	book := types.Book{
		ISBN:      "9781491946008",
		Title:     "Fluent Python",
		Author:    "Luciano Ramalho",
		Publisher: "O'Reilly Media",
		Year:      "2015",
	}

	path, err := g.BookSheet(book, "/covers/9781491946008.jpg")
	require.NoError(t, err)
	content := readReport(t, path)
	assert.Contains(t, content, "== Ficha de Libro ==")
	assert.Contains(t, content, "Título:    Fluent Python")
	assert.Contains(t, content, "Carátula:  9781491946008.jpg")

	// Without a cover the line is absent entirely.
	path, err = g.BookSheet(book, "")
	require.NoError(t, err)
	assert.NotContains(t, readReport(t, path), "Carátula")
}

func Test_LoanLedger(t *testing.T) {
	g := NewGenerator(t.TempDir())

	started := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	loans := []types.Loan{{ISBN: "9781491946008", UserID: "maria", StartedAt: started}}
	books := map[string]types.Book{
		"9781491946008": {ISBN: "9781491946008", Title: "Fluent Python"},
	}
	users := map[string]types.User{
		"maria": {ID: "maria", Name: "María", Surname1: "García"},
	}

	path, err := g.LoanLedger(loans, books, users)
	require.NoError(t, err)
	content := readReport(t, path)
	assert.Contains(t, content, "Título")
	assert.Contains(t, content, "9781491946008")
	assert.Contains(t, content, "María García")
	assert.Contains(t, content, "27/08/2026")
}

func Test_Truncate(t *testing.T) {
	short := "A Short Title"
	assert.Equal(t, short, truncate(short))

	long := "An Exceedingly Long Book Title That Overflows The Column"
	got := truncate(long)
	assert.Equal(t, long[:25]+"...", got)

	// Truncation counts runes, not bytes.
	accented := strings.Repeat("á", 30)
	assert.Equal(t, strings.Repeat("á", 25)+"...", truncate(accented))
}
