package entities

import "time"

// EvaluationRun is a persisted recall-at-k evaluation.
type EvaluationRun struct {
	ID         string        `json:"id" db:"id"`
	Label      string        `json:"label" db:"label"`
	QueryCount int           `json:"query_count" db:"query_count"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	Points     []RecallPoint `json:"points" db:"-"`
}

// RecallPoint is the proportion of observations for System whose rank is
// within K.
type RecallPoint struct {
	System       string  `json:"system" db:"system"`
	K            int     `json:"k" db:"k"`
	Hits         int     `json:"hits" db:"hits"`
	Observations int     `json:"observations" db:"observations"`
	Proportion   float64 `json:"proportion" db:"proportion"`
}
