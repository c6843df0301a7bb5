package matching

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the difflib similarity of a and b: twice the number of
// matched characters divided by the combined length. Identical strings score
// 1, strings with nothing in common score 0. The auto-junk heuristic is off.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcherWithJunk(runes(a), runes(b), false, nil)
	return m.Ratio()
}

// BestRatio returns the highest Ratio over every pair drawn from words1 and
// words2, or 0 when either list is empty.
func BestRatio(words1, words2 []string) float64 {
	best := 0.0
	if len(words1) == 0 || len(words2) == 0 {
		return best
	}

	// difflib caches analysis of the second sequence, so it holds the outer word.
	m := difflib.NewMatcherWithJunk(nil, nil, false, nil)
	for _, w1 := range words1 {
		m.SetSeq2(runes(w1))
		for _, w2 := range words2 {
			m.SetSeq1(runes(w2))
			if r := m.Ratio(); r > best {
				best = r
			}
		}
	}
	return best
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
