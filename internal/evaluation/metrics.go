package evaluation

import "github.com/chamorrodict/dictsearch/internal/domain/entities"

// RankOf returns the 1-based position of expected in hits, or 0.
func RankOf(expected string, hits []entities.SearchHit) int {
	for i, h := range hits {
		if h.Headword == expected {
			return i + 1
		}
	}
	return 0
}

// foundWithin reports whether a rank counts as a hit at cutoff k. Rank 0
// is a miss.
func foundWithin(rank, k int) bool {
	return rank >= 1 && rank <= k
}

// reciprocalRank is 1/rank for a rank within k, else 0.
func reciprocalRank(rank, k int) float64 {
	if !foundWithin(rank, k) {
		return 0
	}
	return 1.0 / float64(rank)
}
