package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Book_References(t *testing.T) {
	book := Book{
		ISBN:      "9781491946008",
		Title:     "Fluent Python",
		Author:    "Luciano Ramalho",
		Publisher: "O'Reilly Media",
		Year:      "2015",
	}

	refs := book.References()
	require.Len(t, refs, 5)
	for _, format := range []string{CitationAPA, CitationMLA, CitationChicago, CitationTurabian, CitationIEEE} {
		assert.Contains(t, refs, format)
	}

	assert.Equal(t, "Luciano Ramalho (2015). *Fluent Python*. O'Reilly Media.", refs[CitationAPA])
	assert.Equal(t, "Luciano Ramalho. *Fluent Python*. O'Reilly Media, 2015.", refs[CitationMLA])
}
