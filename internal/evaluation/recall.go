package evaluation

import "github.com/chamorrodict/dictsearch/internal/domain/entities"

// ComputeRecall builds one recall-at-k curve per system, in the order given,
// for k = 1..maxK. The proportion at k is the number of the system's
// observations with 1 <= Rank <= k divided by its number of observations.
// A system without observations gets an all-zero curve. Observations for
// systems not listed are ignored.
func ComputeRecall(observations []Observation, systems []string, maxK int) []Curve {
	if maxK < 1 {
		maxK = 1
	}

	type tally struct {
		total int
		// atRank[r] counts observations ranked exactly r, r <= maxK
		atRank []int
	}
	tallies := make(map[string]*tally, len(systems))
	for _, name := range systems {
		tallies[name] = &tally{atRank: make([]int, maxK+1)}
	}

	for _, o := range observations {
		t, ok := tallies[o.System]
		if !ok {
			continue
		}
		t.total++
		if o.Rank >= 1 && o.Rank <= maxK {
			t.atRank[o.Rank]++
		}
	}

	curves := make([]Curve, 0, len(systems))
	for _, name := range systems {
		t := tallies[name]
		curve := Curve{
			System:       name,
			Observations: t.total,
			Points:       make([]entities.RecallPoint, maxK),
		}

		hits := 0
		for k := 1; k <= maxK; k++ {
			hits += t.atRank[k]
			point := entities.RecallPoint{
				System:       name,
				K:            k,
				Hits:         hits,
				Observations: t.total,
			}
			if t.total > 0 {
				point.Proportion = float64(hits) / float64(t.total)
			}
			curve.Points[k-1] = point
		}
		curves = append(curves, curve)
	}

	return curves
}

// Systems returns the distinct system names in order of first appearance.
func Systems(observations []Observation) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, o := range observations {
		if _, ok := seen[o.System]; ok {
			continue
		}
		seen[o.System] = struct{}{}
		names = append(names, o.System)
	}
	return names
}
