// Package report builds human-readable documents from read-only
// snapshots of the catalog, directory, and ledger. It never mutates
// manager state.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bibliogo/apiserver/types"
)

// maxColumnWidth bounds titles and names in tabular listings.
const maxColumnWidth = 25

// Generator writes report documents into outDir.
type Generator struct {
	outDir string
}

func NewGenerator(outDir string) *Generator {
	return &Generator{outDir: outDir}
}

// MembershipCard writes the fixed small-format card for a user and
// returns the document path.
func (g *Generator) MembershipCard(user types.User) (string, error) {
	var sb strings.Builder
	sb.WriteString("== Carné de Usuario ==\n")
	fmt.Fprintf(&sb, "Número de socio:  %s\n", user.ID)
	fmt.Fprintf(&sb, "Nombre:           %s\n", user.Name)
	fmt.Fprintf(&sb, "Primer apellido:  %s\n", user.Surname1)
	fmt.Fprintf(&sb, "Segundo apellido: %s\n", user.Surname2)
	return g.write(fmt.Sprintf("card_%s.txt", user.ID), sb.String())
}

// BookSheet writes the bibliographic sheet for a book. coverPath names
// the cover image to reference, or is empty when the book has none.
func (g *Generator) BookSheet(book types.Book, coverPath string) (string, error) {
	var sb strings.Builder
	sb.WriteString("== Ficha de Libro ==\n")
	fmt.Fprintf(&sb, "Título:    %s\n", book.Title)
	fmt.Fprintf(&sb, "Autor:     %s\n", book.Author)
	fmt.Fprintf(&sb, "Editorial: %s\n", book.Publisher)
	fmt.Fprintf(&sb, "Año:       %s\n", book.Year)
	fmt.Fprintf(&sb, "ISBN:      %s\n", book.ISBN)
	if coverPath != "" {
		fmt.Fprintf(&sb, "Carátula:  %s\n", filepath.Base(coverPath))
	}
	return g.write(fmt.Sprintf("sheet_%s.txt", book.ISBN), sb.String())
}

// LoanLedger writes a tabular listing of every active loan, joining
// ISBN to title and borrower id to display name. Long titles and names
// are truncated for legibility.
func (g *Generator) LoanLedger(loans []types.Loan, books map[string]types.Book, users map[string]types.User) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-15s %-28s %-12s %-28s %s\n", "ISBN", "Título", "Usuario", "Nombre", "Fecha")
	for _, l := range loans {
		title := books[l.ISBN].Title
		name := users[l.UserID].DisplayName()
		fmt.Fprintf(&sb, "%-15s %-28s %-12s %-28s %s\n",
			l.ISBN, truncate(title), l.UserID, truncate(name), l.StartedAt.Format("02/01/2006"))
	}
	name := fmt.Sprintf("loans_%s.txt", time.Now().Format("060102_150405"))
	return g.write(name, sb.String())
}

func (g *Generator) write(name, content string) (string, error) {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(g.outDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", name, err)
	}
	return path, nil
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) < maxColumnWidth {
		return s
	}
	return string(runes[:maxColumnWidth]) + "..."
}
