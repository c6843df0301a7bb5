package evaluation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

// Rank table columns. Query, System and Rank are required when reading.
const (
	ColumnQuery      = "Query"
	ColumnExpected   = "Expected"
	ColumnSystem     = "System"
	ColumnRank       = "Rank"
	ColumnDifficulty = "Difficulty"
	ColumnLatencyMs  = "LatencyMs"
)

var rankTableHeader = []string{ColumnQuery, ColumnExpected, ColumnSystem, ColumnRank, ColumnDifficulty, ColumnLatencyMs}

// missingRanks are the cell values that mean the expected entry was not
// returned. Compared lower-cased.
var missingRanks = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"none": true,
	"null": true,
}

// WriteObservations writes the rank table as CSV. A miss is written as rank 0.
func WriteObservations(w io.Writer, observations []Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rankTableHeader); err != nil {
		return fmt.Errorf("failed to write rank table header: %w", err)
	}

	for _, o := range observations {
		record := []string{
			o.Query,
			o.Expected,
			o.System,
			strconv.Itoa(o.Rank),
			o.Difficulty,
			strconv.FormatFloat(float64(o.Latency.Microseconds())/1000, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write rank table row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadObservations reads a rank table. Column names are matched
// case-insensitively and unknown columns are ignored.
func ReadObservations(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidationError("rank table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rank table header: %w", err)
	}

	cols := indexColumns(header)
	for _, required := range []string{ColumnQuery, ColumnSystem, ColumnRank} {
		if _, ok := cols[strings.ToLower(required)]; !ok {
			return nil, apperrors.NewValidationErrorf("rank table is missing the %s column", required)
		}
	}

	var observations []Observation
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rank table line %d: %w", line, err)
		}
		if isBlankRecord(record) {
			continue
		}

		cell := func(name string) string {
			i, ok := cols[strings.ToLower(name)]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		rank, err := ParseRank(cell(ColumnRank))
		if err != nil {
			return nil, apperrors.NewValidationErrorf("rank table line %d: %v", line, err)
		}

		obs := Observation{
			Query:      cell(ColumnQuery),
			Expected:   cell(ColumnExpected),
			System:     cell(ColumnSystem),
			Rank:       rank,
			Difficulty: cell(ColumnDifficulty),
		}
		if ms, err := strconv.ParseFloat(cell(ColumnLatencyMs), 64); err == nil {
			obs.Latency = time.Duration(ms * float64(time.Millisecond))
		}
		observations = append(observations, obs)
	}

	return observations, nil
}

// ParseRank parses a rank cell. Blank and NA-style cells, and 0, mean not
// found. Integral floats such as "3.0" are accepted.
func ParseRank(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if missingRanks[strings.ToLower(cell)] {
		return 0, nil
	}

	n, err := strconv.Atoi(cell)
	if err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative rank %q", cell)
		}
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("invalid rank %q", cell)
	}

	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid rank %q", cell)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative rank %q", cell)
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold
	if f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("invalid rank %q", cell)
	}
	return int(f), nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
