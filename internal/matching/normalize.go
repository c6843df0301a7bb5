// Package matching implements the string similarity measures used to rank
// dictionary entries against a query.
package matching

import "strings"

var normalizer = strings.NewReplacer(
	"’", "'",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"á", "a",
	"Ñ", "ñ",
)

// affixes are removed in order, each at most once.
var affixes = []string{"ma", "fa", "um"}

// Normalize lower-cases a word, regularizes the glottal stop and drops stress
// marking diacritics. The ñ and å letters are kept.
func Normalize(word string) string {
	return normalizer.Replace(strings.ToLower(word))
}

// StripAffixes keeps the part of word before the first hyphen and removes the
// common ma-, fa- and um- prefixes.
func StripAffixes(word string) string {
	if i := strings.Index(word, "-"); i >= 0 {
		word = word[:i]
	}
	for _, prefix := range affixes {
		word = strings.TrimPrefix(word, prefix)
	}
	return word
}
