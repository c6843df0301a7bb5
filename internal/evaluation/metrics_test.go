package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
)

const floatTolerance = 1e-9

func TestRankOf(t *testing.T) {
	hits := []entities.SearchHit{{Headword: "guma'"}, {Headword: "hånom"}, {Headword: "lahi"}}

	assert.Equal(t, 2, RankOf("hånom", hits))
	assert.Equal(t, 1, RankOf("guma'", hits))
	assert.Equal(t, 0, RankOf("tåsi", hits))
	assert.Equal(t, 0, RankOf("hånom", nil))
}

func TestFoundWithin(t *testing.T) {
	tests := []struct {
		rank, k int
		want    bool
	}{
		{1, 1, true},
		{5, 5, true},
		{6, 5, false},
		{0, 10, false},
		{-1, 10, false},
		{1, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foundWithin(tt.rank, tt.k), "foundWithin(%d, %d)", tt.rank, tt.k)
	}
}

func TestReciprocalRank(t *testing.T) {
	assert.InDelta(t, 0.25, reciprocalRank(4, 10), floatTolerance)
	assert.InDelta(t, 1.0, reciprocalRank(1, 10), floatTolerance)
	assert.Zero(t, reciprocalRank(0, 10))
	assert.Zero(t, reciprocalRank(11, 10))
}
