package wiki

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Citation markup dropped together with its content.
var referenceTags = map[string]bool{"ref": true, "sup": true}

// Block-level elements whose boundaries separate words.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Dd: true, atom.Dt: true,
}

// RemoveReferences strips <ref> and <sup> elements and everything inside
// them from an HTML fragment.
func RemoveReferences(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	depth := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return b.String()
		}
		raw := append([]byte(nil), z.Raw()...)
		name, _ := z.TagName()
		switch tt {
		case html.StartTagToken:
			if referenceTags[string(name)] {
				depth++
				continue
			}
		case html.EndTagToken:
			if referenceTags[string(name)] && depth > 0 {
				depth--
				continue
			}
		case html.SelfClosingTagToken:
			if referenceTags[string(name)] {
				continue
			}
		}
		if depth == 0 {
			b.Write(raw)
		}
	}
}

// Text returns the text content of an HTML fragment.
func Text(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[atom.Lookup(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

var lower = cases.Lower(language.Spanish)

func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case strings.ContainsRune("áéíóúüñ", r):
		return true
	}
	return false
}

// Clean strips markup, lower-cases, drops every character that is not a
// letter (accented Spanish letters included) and collapses whitespace.
func Clean(fragment string) string {
	text := lower.String(Text(fragment))
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case keep(r):
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// WordCount is a word with the number of times it occurred.
type WordCount struct {
	Word  string
	Count int
}

// TopWords ranks the words of already-cleaned text by frequency, skipping
// stopwords, and returns at most n of them. Ties are ordered alphabetically.
func TopWords(text string, n int) []WordCount {
	counts := make(map[string]int)
	for _, w := range strings.Fields(text) {
		if IsStopword(w) {
			continue
		}
		counts[w]++
	}

	ranked := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		ranked = append(ranked, WordCount{Word: w, Count: c})
	}
	slices.SortFunc(ranked, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Vocabulary runs the whole pipeline over an article extract.
func Vocabulary(extract string, n int) []WordCount {
	return TopWords(Clean(RemoveReferences(extract)), n)
}
