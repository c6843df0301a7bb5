package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
)

// WriteRecallTable prints one row per curve: the system, its observation
// count and the proportion at each k.
func WriteRecallTable(w io.Writer, curves []Curve) error {
	if len(curves) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"System", "N"}
	for _, p := range curves[0].Points {
		header = append(header, fmt.Sprintf("@%d", p.K))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, c := range curves {
		row := []string{c.System, fmt.Sprint(c.Observations)}
		for _, p := range c.Points {
			row = append(row, fmt.Sprintf("%.3f", p.Proportion))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

// WriteSummary writes the summary as indented JSON.
func WriteSummary(w io.Writer, summary *EvalSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// NewEvaluationRun flattens curves into a run ready to be stored.
func NewEvaluationRun(label string, queryCount int, curves []Curve) *entities.EvaluationRun {
	run := &entities.EvaluationRun{
		ID:         uuid.New().String(),
		Label:      label,
		QueryCount: queryCount,
		CreatedAt:  time.Now().UTC(),
	}
	for _, c := range curves {
		run.Points = append(run.Points, c.Points...)
	}
	return run
}

// CurvesFromRun groups stored points back into curves in first-seen system
// order.
func CurvesFromRun(run *entities.EvaluationRun) []Curve {
	index := map[string]int{}
	var curves []Curve
	for _, p := range run.Points {
		i, ok := index[p.System]
		if !ok {
			i = len(curves)
			index[p.System] = i
			curves = append(curves, Curve{System: p.System, Observations: p.Observations})
		}
		curves[i].Points = append(curves[i].Points, p)
	}
	return curves
}
