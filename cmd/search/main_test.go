package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDemo(t *testing.T) {
	var buf bytes.Buffer
	runDemo(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(demoPairs))
	assert.Equal(t, `"abc" and "ac" have an LCS of 2 in a window of 3`, lines[0])
	assert.Equal(t, `"abbc" and "ac" have an LCS of 2 in a window of 4`, lines[1])
	assert.Equal(t, `"acabc" and "ac" have an LCS of 2 in a window of 2`, lines[2])
}
