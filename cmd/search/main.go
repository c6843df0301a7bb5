// Command search looks up the closest dictionary entries for a query.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/chamorrodict/dictsearch/internal/dictionary"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	"github.com/chamorrodict/dictsearch/internal/matching"
	"github.com/chamorrodict/dictsearch/internal/search"
	"github.com/chamorrodict/dictsearch/pkg/config"
)

// demoPairs are compared by -d to show how the LCS window behaves.
var demoPairs = [][2]string{
	{"abc", "ac"},
	{"abbc", "ac"},
	{"acabc", "ac"},
	{"abcac", "ac"},
	{"abacbc", "ac"},
	{"adbc", "abc"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("search", cfg.App.Env)

	var (
		query  = flag.String("s", "", "look up QUERY")
		n      = flag.Int("n", 5, "number of entries to print")
		system = flag.String("system", "spread", "ranking system to search with")
		demo   = flag.Bool("d", false, "print LCS and window sizes for a few sample pairs")
	)
	flag.Parse()

	if *demo {
		runDemo(os.Stdout)
	}
	if *query == "" {
		if !*demo {
			flag.Usage()
			os.Exit(2)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dict, err := dictionary.Open(cfg.Dictionary.Path, cfg.Dictionary.VariantsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}

	ranker, err := search.NewDefaultRegistry(dict).Get(*system)
	if err != nil {
		log.Fatal().Err(err).Msg("unknown system")
	}

	hits, err := ranker.Search(ctx, *query, *n)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}

	for i, hit := range hits {
		entry, err := dict.Entry(hit.Headword)
		if err != nil {
			log.Fatal().Err(err).Msg("hit is not a dictionary entry")
		}
		fmt.Printf("%d. %s (%.3f)\n   %s\n", i+1, entry.Headword, hit.Score, entry.Definition)
	}
}

func runDemo(w io.Writer) {
	for _, pair := range demoPairs {
		length, window := matching.LCSWindow(pair[0], pair[1])
		fmt.Fprintf(w, "%q and %q have an LCS of %d in a window of %d\n", pair[0], pair[1], length, window)
	}
}
