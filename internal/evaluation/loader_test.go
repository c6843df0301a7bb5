package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

func TestLoadGoldenQueries_JSON(t *testing.T) {
	path := writeTempFile(t, "golden.json", `[
		{"id": "q1", "query": "hanom", "expected": "hånom", "difficulty": "easy"},
		{"id": "q2", "query": "maolek", "expected": "maolek"}
	]`)

	queries, err := LoadGoldenQueries(path)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, GoldenQuery{ID: "q1", Query: "hanom", Expected: "hånom", Difficulty: "easy"}, queries[0])
	assert.Empty(t, queries[1].Difficulty)
}

func TestLoadGoldenQueries_YAML(t *testing.T) {
	path := writeTempFile(t, "golden.yaml", `
- id: q1
  query: guma
  expected: "guma'"
  difficulty: medium
`)

	queries, err := LoadGoldenQueries(path)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "guma'", queries[0].Expected)
	assert.Equal(t, "medium", queries[0].Difficulty)
}

func TestLoadGoldenQueries_Errors(t *testing.T) {
	_, err := LoadGoldenQueries("/nonexistent/path.json")
	assert.Error(t, err)

	_, err = LoadGoldenQueries(writeTempFile(t, "bad.json", `not valid json`))
	assert.Error(t, err)

	_, err = LoadGoldenQueries(writeTempFile(t, "dup.json", `[
		{"id": "q1", "query": "a", "expected": "a"},
		{"id": "q1", "query": "b", "expected": "b"}
	]`))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	queries, err := LoadGoldenQueries(writeTempFile(t, "empty.json", `[]`))
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestValidateGoldenQueries(t *testing.T) {
	tests := []struct {
		name    string
		queries []GoldenQuery
		wantErr bool
	}{
		{"valid", []GoldenQuery{
			{ID: "q1", Query: "hanom", Expected: "hånom", Difficulty: "easy"},
			{ID: "q2", Query: "guma", Expected: "guma'"},
		}, false},
		{"missing id", []GoldenQuery{{Query: "x", Expected: "x"}}, true},
		{"duplicate id", []GoldenQuery{
			{ID: "q1", Query: "a", Expected: "a"},
			{ID: "q1", Query: "b", Expected: "b"},
		}, true},
		{"blank query", []GoldenQuery{{ID: "q1", Query: "  ", Expected: "a"}}, true},
		{"missing expected", []GoldenQuery{{ID: "q1", Query: "a"}}, true},
		{"bad difficulty", []GoldenQuery{{ID: "q1", Query: "a", Expected: "a", Difficulty: "impossible"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoldenQueries(tt.queries)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "got %v", err)
		})
	}
}

func TestMissingExpected(t *testing.T) {
	queries := []GoldenQuery{
		{ID: "q1", Expected: "hånom"},
		{ID: "q2", Expected: "nada"},
	}
	has := func(hw string) bool { return hw == "hånom" }

	assert.Equal(t, []string{"q2"}, MissingExpected(queries, has))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
