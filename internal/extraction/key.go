package extraction

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey derives the dedup key for an organization name: lowercase,
// accents stripped, internal whitespace collapsed. "Fédération  des
// Travailleurs" and "federation des travailleurs" share a key.
//
// The key is intentionally conservative. It does not strip acronyms or legal
// suffixes, so "FTQ" and its expanded name stay separate entries.
func NormalizeKey(name string) string {
	folded, _, err := transform.String(stripAccents, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
