// Package chart draws recall-at-k curves as a line chart.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chamorrodict/dictsearch/internal/evaluation"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Options controls the rendered chart.
type Options struct {
	Title  string
	Width  int
	Height int
	Format Format
}

var palette = []drawing.Color{
	gochart.ColorBlue,
	gochart.ColorOrange,
	gochart.ColorGreen,
	gochart.ColorRed,
	gochart.ColorCyan,
	gochart.ColorAlternateGray,
	gochart.ColorYellow,
	gochart.ColorBlack,
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart extension %q (want .png or .svg)", ext)
	}
}

// Render draws one line per curve with k on the x axis and the proportion
// of queries found within the top k on the y axis.
func Render(w io.Writer, curves []evaluation.Curve, opts Options) error {
	if len(curves) == 0 {
		return fmt.Errorf("no recall curves to draw")
	}
	maxK := len(curves[0].Points)
	if maxK < 2 {
		return fmt.Errorf("need at least two thresholds to draw a line, got %d", maxK)
	}

	series := make([]gochart.Series, 0, len(curves))
	for i, c := range curves {
		if len(c.Points) != maxK {
			return fmt.Errorf("curve %q has %d points, want %d", c.System, len(c.Points), maxK)
		}
		xs := make([]float64, maxK)
		ys := make([]float64, maxK)
		for j, p := range c.Points {
			xs[j] = float64(p.K)
			ys[j] = p.Proportion
		}
		col := palette[i%len(palette)]
		series = append(series, gochart.ContinuousSeries{
			Name:    c.System,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      orDefault(opts.Width, 800),
		Height:     orDefault(opts.Height, 500),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  "k",
			Range: &gochart.ContinuousRange{Min: 1, Max: float64(maxK)},
			Ticks: kTicks(maxK),
		},
		YAxis: gochart.YAxis{
			Name:  "Proportion found in top k",
			Range: &gochart.ContinuousRange{Min: 0, Max: 1},
			Ticks: proportionTicks(),
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	provider := gochart.PNG
	if opts.Format == FormatSVG {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render recall chart: %w", err)
	}
	return nil
}

// RenderFile writes the chart to path in the format its extension names.
// The file is removed again when rendering fails.
func RenderFile(path string, curves []evaluation.Curve, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	opts.Format = format

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := Render(f, curves, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func kTicks(maxK int) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, maxK)
	for k := 1; k <= maxK; k++ {
		ticks = append(ticks, gochart.Tick{Value: float64(k), Label: strconv.Itoa(k)})
	}
	return ticks
}

func proportionTicks() []gochart.Tick {
	ticks := make([]gochart.Tick, 0, 6)
	for i := 0; i <= 5; i++ {
		v := float64(i) / 5
		ticks = append(ticks, gochart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 1, 64)})
	}
	return ticks
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
