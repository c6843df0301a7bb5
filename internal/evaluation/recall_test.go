package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(system string, rank int) Observation {
	return Observation{Query: "q", System: system, Rank: rank}
}

func TestComputeRecall_CountAndDivide(t *testing.T) {
	observations := []Observation{
		obs("ratio", 1),
		obs("ratio", 3),
		obs("ratio", 0),
		obs("ratio", 12),
		obs("spread", 2),
		obs("spread", 2),
		obs("bm25", 1),
	}

	curves := ComputeRecall(observations, []string{"spread", "ratio"}, 10)
	require.Len(t, curves, 2)

	spread, ratio := curves[0], curves[1]
	assert.Equal(t, "spread", spread.System)
	assert.Equal(t, 2, spread.Observations)
	assert.InDelta(t, 0.0, spread.At(1), floatTolerance)
	assert.InDelta(t, 1.0, spread.At(2), floatTolerance)
	assert.InDelta(t, 1.0, spread.At(10), floatTolerance)

	assert.Equal(t, 4, ratio.Observations)
	assert.InDelta(t, 0.25, ratio.At(1), floatTolerance)
	assert.InDelta(t, 0.25, ratio.At(2), floatTolerance)
	assert.InDelta(t, 0.5, ratio.At(3), floatTolerance)
	assert.InDelta(t, 0.5, ratio.At(10), floatTolerance)

	require.Len(t, ratio.Points, 10)
	assert.Equal(t, 3, ratio.Points[2].K)
	assert.Equal(t, 2, ratio.Points[2].Hits)
	assert.Equal(t, 4, ratio.Points[2].Observations)
}

func TestComputeRecall_Monotonic(t *testing.T) {
	var observations []Observation
	for r := 0; r <= 12; r++ {
		observations = append(observations, obs("ratio", r))
	}

	curve := ComputeRecall(observations, []string{"ratio"}, 10)[0]
	for k := 2; k <= 10; k++ {
		assert.GreaterOrEqual(t, curve.At(k), curve.At(k-1))
	}
	assert.LessOrEqual(t, curve.At(10), 1.0)
}

func TestComputeRecall_SystemWithoutObservations(t *testing.T) {
	curves := ComputeRecall([]Observation{obs("ratio", 1)}, []string{"variants"}, 10)

	require.Len(t, curves, 1)
	assert.Equal(t, 0, curves[0].Observations)
	for k := 1; k <= 10; k++ {
		assert.Zero(t, curves[0].At(k))
	}
}

func TestComputeRecall_MaxKFloor(t *testing.T) {
	curves := ComputeRecall([]Observation{obs("ratio", 1)}, []string{"ratio"}, 0)
	require.Len(t, curves[0].Points, 1)
	assert.InDelta(t, 1.0, curves[0].At(1), floatTolerance)
	assert.Zero(t, curves[0].At(2))
}

func TestSystems_FirstAppearanceOrder(t *testing.T) {
	observations := []Observation{obs("spread", 1), obs("ratio", 1), obs("spread", 2)}
	assert.Equal(t, []string{"spread", "ratio"}, Systems(observations))
}
