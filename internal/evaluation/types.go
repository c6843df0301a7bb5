package evaluation

import (
	"time"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
)

// GoldenQuery is a labeled lookup: searching for Query should return the
// Expected headword near the top.
type GoldenQuery struct {
	ID         string `json:"id" yaml:"id"`
	Query      string `json:"query" yaml:"query"`
	Expected   string `json:"expected" yaml:"expected"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"` // easy, medium, hard
}

// Observation is one row of the rank table: the rank a system gave the
// expected headword for a query. Rank 0 means it was not returned.
type Observation struct {
	Query      string
	Expected   string
	System     string
	Rank       int
	Difficulty string
	Latency    time.Duration
	Err        error
}

// Found reports whether the expected headword was returned at all.
func (o Observation) Found() bool { return o.Rank > 0 }

// Curve is the recall-at-k series for one system, k = 1..len(Points).
type Curve struct {
	System       string
	Observations int
	Points       []entities.RecallPoint
}

// At returns the proportion at k, or 0 when k is out of range.
func (c Curve) At(k int) float64 {
	if k < 1 || k > len(c.Points) {
		return 0
	}
	return c.Points[k-1].Proportion
}

// EvalSummary holds aggregate metrics per system.
type EvalSummary struct {
	TotalQueries int              `json:"total_queries"`
	Systems      []*SystemSummary `json:"systems"`
}

// SystemSummary holds one system's metrics over all golden queries.
type SystemSummary struct {
	System       string                        `json:"system"`
	Observations int                           `json:"observations"`
	Errors       int                           `json:"errors"`
	RecallAt1    float64                       `json:"recall_at_1"`
	RecallAt5    float64                       `json:"recall_at_5"`
	RecallAt10   float64                       `json:"recall_at_10"`
	MRRAt10      float64                       `json:"mrr_at_10"`
	AvgLatency   time.Duration                 `json:"avg_latency_ns"`
	ByDifficulty map[string]*DifficultySummary `json:"by_difficulty,omitempty"`
}

// DifficultySummary holds metrics grouped by golden query difficulty.
type DifficultySummary struct {
	Count      int     `json:"count"`
	RecallAt10 float64 `json:"recall_at_10"`
	MRRAt10    float64 `json:"mrr_at_10"`
}
