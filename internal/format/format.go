// Package format turns a news article into the text of a short post.
package format

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/nDmitry/technewsbot/internal/entity"
)

const (
	DefaultSnippetLength = 200
	// DefaultMaxPostLength is the X per-post character limit.
	DefaultMaxPostLength = 280
	NoTitle              = "No title"
	LinkMarker           = "🔗 "
	snippetSeparator     = " - "
)

type Formatter struct {
	SnippetLength int
	Rules         []SymbolRule
	Fallback      []string
	Rand          *rand.Rand
}

// NewFormatter returns a formatter with the default symbol tables drawing
// from rnd.
func NewFormatter(snippetLength int, rnd *rand.Rand) *Formatter {
	if snippetLength <= 0 {
		snippetLength = DefaultSnippetLength
	}

	return &Formatter{
		SnippetLength: snippetLength,
		Rules:         SymbolRules,
		Fallback:      FallbackSymbols,
		Rand:          rnd,
	}
}

// Format builds the post for an article:
//
//	<symbol> <snippet>
//	🔗 <url>
//	#Tag1 #Tag2 #Tag3
//
// Missing fields never fail: an empty title becomes "No title" and the
// link or tag line is left out when there is nothing to put in it.
// The result is not checked against the post length limit, see Fits.
func (f *Formatter) Format(article entity.Article) entity.Post {
	snippet := f.Snippet(article)

	lines := []string{PickSymbol(snippet, f.Rules, f.Fallback, f.Rand) + " " + snippet}

	if url := strings.TrimSpace(article.URL); url != "" {
		lines = append(lines, LinkMarker+url)
	}

	if tags := Hashtags(snippet, MaxTags); len(tags) > 0 {
		lines = append(lines, strings.Join(tags, " "))
	}

	return entity.Post{
		Body:     strings.Join(lines, "\n"),
		ImageURL: article.ImageURL,
	}
}

// Snippet joins title and description and truncates the result.
func (f *Formatter) Snippet(article entity.Article) string {
	title := strings.TrimSpace(article.Title)

	if title == "" {
		title = NoTitle
	}

	text := title

	if description := strings.TrimSpace(article.Description); description != "" {
		text += snippetSeparator + description
	}

	return Truncate(text, f.SnippetLength)
}

// Fits reports whether body stays within limit characters.
func Fits(body string, limit int) bool {
	return utf8.RuneCountInString(body) <= limit
}
