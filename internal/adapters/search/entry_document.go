package search

import (
	"strings"

	"github.com/google/uuid"

	"github.com/chamorrodict/dictsearch/internal/matching"
)

// MaxIndexedVariants caps the variant list stored per document.
const MaxIndexedVariants = 50

// DocumentID derives a stable document id from a headword, since headwords
// carry apostrophes and non-ASCII letters Typesense ids should avoid.
func DocumentID(headword string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chamorro:"+headword)).String()
}

// buildEntryDocument returns the indexed form of a headword.
func buildEntryDocument(headword string, variants []string) map[string]interface{} {
	doc := map[string]interface{}{
		"id":         DocumentID(headword),
		"headword":   headword,
		"normalized": matching.Normalize(headword),
	}
	if v := normalizedVariants(headword, variants); len(v) > 0 {
		doc["variants"] = v
	}
	return doc
}

// normalizedVariants lower-cases and de-duplicates variants, keeping first
// occurrence order and dropping the headword itself.
func normalizedVariants(headword string, variants []string) []string {
	seen := map[string]struct{}{matching.Normalize(headword): {}}
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		v = matching.Normalize(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) >= MaxIndexedVariants {
			break
		}
	}
	return out
}
