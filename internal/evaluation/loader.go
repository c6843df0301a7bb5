package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

// LoadGoldenQueries reads and validates a golden query set from a JSON file,
// or YAML when the extension is .yaml or .yml.
func LoadGoldenQueries(path string) ([]GoldenQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden queries file: %w", err)
	}

	var queries []GoldenQuery
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &queries)
	default:
		err = json.Unmarshal(data, &queries)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse golden queries: %w", err)
	}

	if err := ValidateGoldenQueries(queries); err != nil {
		return nil, err
	}
	return queries, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenQueries checks that all golden queries have required fields and valid values.
func ValidateGoldenQueries(queries []GoldenQuery) error {
	seen := make(map[string]struct{}, len(queries))

	for i, q := range queries {
		if q.ID == "" {
			return apperrors.NewValidationErrorf("query at index %d: missing id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return apperrors.NewValidationErrorf("query at index %d: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = struct{}{}

		if strings.TrimSpace(q.Query) == "" {
			return apperrors.NewValidationErrorf("query %q: missing query text", q.ID)
		}
		if q.Expected == "" {
			return apperrors.NewValidationErrorf("query %q: missing expected headword", q.ID)
		}
		if q.Difficulty != "" && !validDifficulties[q.Difficulty] {
			return apperrors.NewValidationErrorf("query %q: invalid difficulty %q (must be easy/medium/hard)", q.ID, q.Difficulty)
		}
	}

	return nil
}

// MissingExpected returns the ids of queries whose expected headword fails
// has. Such queries can never be found and pull recall down.
func MissingExpected(queries []GoldenQuery, has func(headword string) bool) []string {
	var missing []string
	for _, q := range queries {
		if !has(q.Expected) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}
