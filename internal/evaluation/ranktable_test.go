package evaluation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

func TestWriteThenReadObservations(t *testing.T) {
	observations := []Observation{
		{Query: "hanom", Expected: "hånom", System: "ratio", Rank: 2, Difficulty: "easy", Latency: 1500 * time.Microsecond},
		{Query: "guma, big", Expected: "guma'", System: "spread", Rank: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteObservations(&buf, observations))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Query,Expected,System,Rank,Difficulty,LatencyMs", lines[0])
	assert.Equal(t, "hanom,hånom,ratio,2,easy,1.500", lines[1])

	got, err := ReadObservations(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, observations[0], got[0])
	assert.Equal(t, "guma, big", got[1].Query)
	assert.False(t, got[1].Found())
}

func TestReadObservations_ForeignTable(t *testing.T) {
	table := "\ufeffid,query,SYSTEM,rank,notes\n" +
		"1,hanom,ratio,3.0,\n" +
		"2,guma,ratio,NA,typo\n" +
		",,,,\n" +
		"3,lahi,spread,,\n" +
		"4,tasi,spread,None\n"

	got, err := ReadObservations(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, 3, got[0].Rank)
	assert.Equal(t, "hanom", got[0].Query)
	assert.Equal(t, 0, got[1].Rank)
	assert.Equal(t, "spread", got[2].System)
	assert.Equal(t, 0, got[3].Rank)
}

func TestReadObservations_Errors(t *testing.T) {
	_, err := ReadObservations(strings.NewReader(""))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = ReadObservations(strings.NewReader("Query,System\nq,ratio\n"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = ReadObservations(strings.NewReader("Query,System,Rank\nq,ratio,first\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		cell    string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 7 ", 7, false},
		{"4.0", 4, false},
		{"0", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"null", 0, false},
		{"2.5", 0, true},
		{"-1", 0, true},
		{"-3.0", 0, true},
		{"Inf", 0, true},
		{"top", 0, true},
		{"1e19", 0, true},
		{"1e300", 0, true},
		{"9223372036854775808", 0, true},
		{"-9223372036854775809", 0, true},
		{"1e3", 1000, false},
	}
	for _, tt := range tests {
		got, err := ParseRank(tt.cell)
		if tt.wantErr {
			assert.Error(t, err, "ParseRank(%q)", tt.cell)
			continue
		}
		assert.NoError(t, err, "ParseRank(%q)", tt.cell)
		assert.Equal(t, tt.want, got, "ParseRank(%q)", tt.cell)
	}
}

func TestReadObservations_HugeRankNamesLine(t *testing.T) {
	_, err := ReadObservations(strings.NewReader("Query,System,Rank\nhanom,ratio,1\nguma,ratio,1e19\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "line 3")
}
