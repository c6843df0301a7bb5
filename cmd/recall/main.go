// Command recall reads a rank table and plots, for each system, the
// proportion of queries whose expected entry was ranked within the top k.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chamorrodict/dictsearch/internal/chart"
	"github.com/chamorrodict/dictsearch/internal/evaluation"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	"github.com/chamorrodict/dictsearch/pkg/config"
)

// maxThreshold bounds -k; ranks deeper than this are not meaningful here.
const maxThreshold = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("recall", cfg.App.Env)

	var (
		in      = flag.String("in", "", "rank table CSV with Query, System and Rank columns (required)")
		out     = flag.String("out", "recall.png", "chart output path (.png or .svg)")
		systems = flag.String("systems", strings.Join(cfg.Evaluation.Systems, ","), "comma separated systems to plot, in order; empty plots every system in the table")
		maxK    = flag.Int("k", cfg.Evaluation.MaxK, "largest rank threshold")
		title   = flag.String("title", "Proportion of queries found within the top k", "chart title")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{MaxK: maxThreshold})
	if err := guardrails.CheckK(*maxK); err != nil {
		log.Fatal().Err(err).Msg("invalid -k")
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open rank table")
	}
	observations, err := evaluation.ReadObservations(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("failed to read rank table")
	}

	names := config.ParseList(*systems)
	if len(names) == 0 {
		names = evaluation.Systems(observations)
	}

	curves := evaluation.ComputeRecall(observations, names, *maxK)
	for _, name := range guardrails.Sparse(curves) {
		log.Warn().Str("system", name).Msg("no observations for system")
	}

	if err := evaluation.WriteRecallTable(os.Stdout, curves); err != nil {
		log.Fatal().Err(err).Msg("failed to print recall table")
	}

	if err := chart.RenderFile(*out, curves, chart.Options{Title: *title}); err != nil {
		log.Fatal().Err(err).Msg("failed to write chart")
	}
	log.Info().Str("path", *out).Int("rows", len(observations)).Int("systems", len(curves)).Msg("recall chart written")
}
