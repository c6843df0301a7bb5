// Command indexer loads the dictionary into the Typesense entries collection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chamorrodict/dictsearch/internal/adapters/search"
	"github.com/chamorrodict/dictsearch/internal/dictionary"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/clients/typesense"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	"github.com/chamorrodict/dictsearch/pkg/config"
)

func main() {
	var reset bool
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("indexer", cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := indexOnce(ctx, cfg, reset || os.Getenv("RESET_TYPESENSE") == "true"); err != nil {
		log.Error().Err(err).Msg("reindex failed")
		stop()
		os.Exit(1)
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	dict, err := dictionary.Open(cfg.Dictionary.Path, cfg.Dictionary.VariantsPath)
	if err != nil {
		return err
	}

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset {
		log.Info().Str("collection", typesense.EntriesCollection).Msg("deleting collection before reindex")
		if err := tsClient.DropSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	started := time.Now()
	log.Info().Int("headwords", dict.Len()).Msg("indexing dictionary")
	indexed, err := search.NewTypesenseAdapter(tsClient).Index(ctx, dict)
	if err != nil {
		return fmt.Errorf("indexed %d of %d headwords: %w", indexed, dict.Len(), err)
	}
	log.Info().Int("indexed", indexed).Dur("elapsed", time.Since(started)).Msg("reindex complete")
	return nil
}
