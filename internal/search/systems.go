// Package search ranks dictionary headwords for a query using the
// similarity measures from the matching package.
package search

import (
	"context"
	"sort"

	"github.com/chamorrodict/dictsearch/internal/dictionary"
	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	"github.com/chamorrodict/dictsearch/internal/matching"
)

// Built-in system names.
const (
	SystemRatio    = "ratio"
	SystemStripped = "stripped"
	SystemVariants = "variants"
	SystemSpread   = "spread"
)

// cancelCheckEvery bounds how many entries are scored between context checks.
const cancelCheckEvery = 512

// LocalSystem scores every dictionary headword in memory.
type LocalSystem struct {
	name      string
	headwords []string
	// forms holds the prepared comparison forms of each headword, same order
	forms        [][]string
	prepareQuery func(string) string
	score        func(forms []string, query string) float64
}

var _ providers.RankingSystem = (*LocalSystem)(nil)

// NewRatioSystem ranks by the ratio test on normalized forms.
func NewRatioSystem(dict *dictionary.Dictionary) *LocalSystem {
	return newLocalSystem(SystemRatio, dict, matching.Normalize, singleForm(matching.Normalize),
		func(forms []string, q string) float64 { return matching.Ratio(forms[0], q) })
}

// NewStrippedSystem ranks by the ratio test after removing common affixes.
func NewStrippedSystem(dict *dictionary.Dictionary) *LocalSystem {
	prepare := func(s string) string { return matching.StripAffixes(matching.Normalize(s)) }
	return newLocalSystem(SystemStripped, dict, prepare, singleForm(prepare),
		func(forms []string, q string) float64 { return matching.Ratio(forms[0], q) })
}

// NewVariantsSystem ranks by the best ratio between the query and the
// headword or any of its recorded spelling variants.
func NewVariantsSystem(dict *dictionary.Dictionary) *LocalSystem {
	forms := func(d *dictionary.Dictionary, hw string) []string {
		out := []string{matching.Normalize(hw)}
		for _, v := range d.Variants(hw) {
			out = append(out, matching.Normalize(v))
		}
		return out
	}
	return newLocalSystem(SystemVariants, dict, matching.Normalize, forms,
		func(forms []string, q string) float64 { return matching.BestRatio(forms, []string{q}) })
}

// NewSpreadSystem ranks by the spread ratio, which penalizes matches whose
// common subsequence is scattered across the headword.
func NewSpreadSystem(dict *dictionary.Dictionary) *LocalSystem {
	return newLocalSystem(SystemSpread, dict, matching.Normalize, singleForm(matching.Normalize),
		func(forms []string, q string) float64 { return matching.SpreadRatio(forms[0], q) })
}

func singleForm(prepare func(string) string) func(*dictionary.Dictionary, string) []string {
	return func(_ *dictionary.Dictionary, hw string) []string { return []string{prepare(hw)} }
}

func newLocalSystem(
	name string,
	dict *dictionary.Dictionary,
	prepareQuery func(string) string,
	formsOf func(*dictionary.Dictionary, string) []string,
	score func([]string, string) float64,
) *LocalSystem {
	headwords := dict.Headwords()
	forms := make([][]string, len(headwords))
	for i, hw := range headwords {
		forms[i] = formsOf(dict, hw)
	}
	return &LocalSystem{
		name:         name,
		headwords:    headwords,
		forms:        forms,
		prepareQuery: prepareQuery,
		score:        score,
	}
}

// Name returns the system name used in rank tables.
func (s *LocalSystem) Name() string { return s.name }

// Search returns the n best headwords for query, highest score first. Ties
// are broken by headword so results are stable across runs.
func (s *LocalSystem) Search(ctx context.Context, query string, n int) ([]entities.SearchHit, error) {
	q := s.prepareQuery(query)

	hits := make([]entities.SearchHit, len(s.headwords))
	for i, hw := range s.headwords {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = entities.SearchHit{Headword: hw, Score: s.score(s.forms[i], q)}
	}

	SortHits(hits)
	if n > 0 && n < len(hits) {
		hits = hits[:n]
	}
	return hits, nil
}

// SortHits orders hits by score descending, then headword ascending.
func SortHits(hits []entities.SearchHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Headword < hits[j].Headword
	})
}
