package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamorrodict/dictsearch/internal/evaluation"
)

func sampleCurves() []evaluation.Curve {
	observations := []evaluation.Observation{
		{System: "ratio", Rank: 1},
		{System: "ratio", Rank: 4},
		{System: "spread", Rank: 2},
		{System: "spread", Rank: 0},
	}
	return evaluation.ComputeRecall(observations, []string{"ratio", "spread"}, 10)
}

func TestRender_PNG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleCurves(), Options{Title: "Recall at k", Format: FormatPNG})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRender_SVG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleCurves(), Options{Format: FormatSVG, Width: 640, Height: 400})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestRender_Rejects(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, Options{}))

	single := evaluation.ComputeRecall(nil, []string{"ratio"}, 1)
	assert.Error(t, Render(&buf, single, Options{}))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/recall.PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = FormatFromPath("recall.svg")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = FormatFromPath("recall.pdf")
	assert.Error(t, err)
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "recall.svg")
	require.NoError(t, RenderFile(path, sampleCurves(), Options{Title: "Recall at k"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	assert.Error(t, RenderFile(filepath.Join(dir, "recall.gif"), sampleCurves(), Options{}))

	failed := filepath.Join(dir, "empty.png")
	assert.Error(t, RenderFile(failed, nil, Options{}))
	_, err = os.Stat(failed)
	assert.True(t, os.IsNotExist(err))
}
