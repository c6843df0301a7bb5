// Command evaluate runs the golden queries through each ranking system and
// writes the rank table, the recall-at-k chart and a JSON summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chamorrodict/dictsearch/internal/adapters/cache"
	"github.com/chamorrodict/dictsearch/internal/adapters/database"
	"github.com/chamorrodict/dictsearch/internal/adapters/events"
	tsadapter "github.com/chamorrodict/dictsearch/internal/adapters/search"
	"github.com/chamorrodict/dictsearch/internal/chart"
	"github.com/chamorrodict/dictsearch/internal/dictionary"
	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	"github.com/chamorrodict/dictsearch/internal/evaluation"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/clients/postgres"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/clients/redis"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/clients/typesense"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	"github.com/chamorrodict/dictsearch/internal/search"
	"github.com/chamorrodict/dictsearch/pkg/config"
)

type options struct {
	golden  string
	systems []string
	outDir  string
	label   string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("evaluate", cfg.App.Env)

	var (
		golden  = flag.String("golden", cfg.Evaluation.GoldenQueriesPath, "golden queries file (.json or .yaml)")
		systems = flag.String("systems", strings.Join(cfg.Evaluation.Systems, ","), "comma separated systems to evaluate")
		outDir  = flag.String("out", cfg.Evaluation.OutputDir, "output directory")
		label   = flag.String("label", "default", "label the run is stored under")
		depth   = flag.Int("depth", cfg.Evaluation.Depth, "hits requested per search")
		maxK    = flag.Int("k", cfg.Evaluation.MaxK, "largest rank threshold")
		latest  = flag.Bool("latest", false, "print and plot the last stored run for -label instead of evaluating")
		watch   = flag.Bool("watch", false, "print runs announced by other evaluations until interrupted")
	)
	flag.Parse()
	cfg.Evaluation.Depth = *depth
	cfg.Evaluation.MaxK = *maxK

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
		}
	}

	opts := options{
		golden:  *golden,
		systems: config.ParseList(*systems),
		outDir:  *outDir,
		label:   *label,
	}
	switch {
	case *watch:
		err = watchRuns(ctx, cfg)
	case *latest:
		err = showLatest(ctx, cfg, opts)
	default:
		err = run(ctx, cfg, opts)
	}
	if err != nil {
		log.Error().Err(err).Msg("evaluation failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{MaxK: cfg.Evaluation.Depth})
	if err := guardrails.CheckK(cfg.Evaluation.MaxK); err != nil {
		return fmt.Errorf("k cannot exceed the search depth: %w", err)
	}
	if len(opts.systems) == 0 {
		return fmt.Errorf("no systems to evaluate")
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return err
	}

	dict, err := dictionary.Open(cfg.Dictionary.Path, cfg.Dictionary.VariantsPath)
	if err != nil {
		return err
	}

	queries, err := evaluation.LoadGoldenQueries(opts.golden)
	if err != nil {
		return err
	}
	if missing := evaluation.MissingExpected(queries, dict.Has); len(missing) > 0 {
		log.Warn().Strs("ids", missing).Msg("expected headwords not in dictionary, these queries can only miss")
	}

	registry := search.NewDefaultRegistry(dict)

	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			return err
		}
		registry.Register(tsadapter.NewTypesenseAdapter(tsClient))
	}

	var bus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		eventBus := events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
		bus = eventBus

		provider := cache.NewRedisAdapter(redisClient)
		registry.Wrap(func(s providers.RankingSystem) providers.RankingSystem {
			return search.NewCachedSystem(s, provider, cfg.Evaluation.CacheTTLSeconds, metrics)
		})
	}

	systems, err := registry.Resolve(opts.systems)
	if err != nil {
		return err
	}

	runner := evaluation.NewRunner(systems,
		evaluation.WithDepth(cfg.Evaluation.Depth),
		evaluation.WithWorkers(cfg.Evaluation.Workers),
		evaluation.WithMetrics(metrics),
	)

	started := time.Now()
	observations, err := runner.Run(ctx, queries)
	if err != nil {
		return err
	}
	log.Info().Int("observations", len(observations)).Dur("elapsed", time.Since(started)).Msg("searches complete")

	curves := evaluation.ComputeRecall(observations, opts.systems, cfg.Evaluation.MaxK)
	summary := evaluation.Summarize(observations, opts.systems)

	if err := writeOutputs(opts.outDir, observations, curves, summary); err != nil {
		return err
	}
	if err := evaluation.WriteRecallTable(os.Stdout, curves); err != nil {
		return err
	}

	evalRun := evaluation.NewEvaluationRun(opts.label, len(queries), curves)
	if cfg.Database.Enabled {
		if err := saveRun(ctx, cfg, evalRun); err != nil {
			return err
		}
	}
	if bus != nil {
		if err := bus.Publish(ctx, providers.EventChannelRuns, evalRun); err != nil {
			log.Warn().Err(err).Msg("failed to announce run")
		}
	}
	return nil
}

func writeOutputs(dir string, observations []evaluation.Observation, curves []evaluation.Curve, summary *evaluation.EvalSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ranksPath := filepath.Join(dir, "ranks.csv")
	if err := writeFile(ranksPath, func(f *os.File) error {
		return evaluation.WriteObservations(f, observations)
	}); err != nil {
		return err
	}

	summaryPath := filepath.Join(dir, "summary.json")
	if err := writeFile(summaryPath, func(f *os.File) error {
		return evaluation.WriteSummary(f, summary)
	}); err != nil {
		return err
	}

	chartPath := filepath.Join(dir, "recall.png")
	if err := chart.RenderFile(chartPath, curves, chart.Options{Title: "Proportion of queries found within the top k"}); err != nil {
		return err
	}

	log.Info().Str("ranks", ranksPath).Str("summary", summaryPath).Str("chart", chartPath).Msg("outputs written")
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func openRepository(ctx context.Context, cfg *config.Config) (*database.EvaluationRunAdapter, func(), error) {
	if !cfg.Database.Enabled {
		return nil, nil, fmt.Errorf("DB_ENABLED is not set")
	}
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := database.NewEvaluationRunAdapter(pgClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		pgClient.Close()
		return nil, nil, err
	}
	return repo, func() { pgClient.Close() }, nil
}

func saveRun(ctx context.Context, cfg *config.Config, run *entities.EvaluationRun) error {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := repo.Save(ctx, run); err != nil {
		return err
	}
	log.Info().Str("id", run.ID).Str("label", run.Label).Int("points", len(run.Points)).Msg("evaluation run saved")
	return nil
}

func watchRuns(ctx context.Context, cfg *config.Config) error {
	if !cfg.Redis.Enabled {
		return fmt.Errorf("REDIS_ENABLED is not set")
	}
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	bus := events.NewRedisEventBus(redisClient)
	defer bus.Close()

	runs, err := bus.Subscribe(ctx, providers.EventChannelRuns)
	if err != nil {
		return err
	}
	log.Info().Str("channel", providers.EventChannelRuns).Msg("watching for runs")

	for r := range runs {
		fmt.Printf("\n%s  %s  (%d queries)\n", r.Label, r.CreatedAt.Format(time.RFC3339), r.QueryCount)
		if err := evaluation.WriteRecallTable(os.Stdout, evaluation.CurvesFromRun(r)); err != nil {
			return err
		}
	}
	return nil
}

func showLatest(ctx context.Context, cfg *config.Config, opts options) error {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	stored, err := repo.Latest(ctx, opts.label)
	if err != nil {
		return err
	}
	log.Info().Str("id", stored.ID).Time("created_at", stored.CreatedAt).Int("queries", stored.QueryCount).Msg("loaded stored run")

	curves := evaluation.CurvesFromRun(stored)
	if err := evaluation.WriteRecallTable(os.Stdout, curves); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return chart.RenderFile(filepath.Join(opts.outDir, "recall-"+stored.ID+".png"), curves, chart.Options{
		Title: fmt.Sprintf("%s, %s", stored.Label, stored.CreatedAt.Format(time.DateOnly)),
	})
}
