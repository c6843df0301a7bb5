package entities

import "encoding/json"

// Entry is a single dictionary headword with its raw definition payload.
type Entry struct {
	Headword   string          `json:"headword"`
	Definition json.RawMessage `json:"definition,omitempty"`
	Variants   []string        `json:"variants,omitempty"`
}

// SearchHit is one ranked result returned by a ranking system.
type SearchHit struct {
	Headword string  `json:"headword"`
	Score    float64 `json:"score"`
}
