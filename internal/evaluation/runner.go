package evaluation

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
)

const (
	defaultDepth   = 10
	defaultWorkers = 4
)

// Runner searches every golden query with every system and records the rank
// each system gave the expected headword.
type Runner struct {
	systems []providers.RankingSystem
	depth   int
	workers int
	metrics *observability.Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDepth sets how many hits are requested per search.
func WithDepth(depth int) RunnerOption {
	return func(r *Runner) {
		if depth > 0 {
			r.depth = depth
		}
	}
}

// WithWorkers sets the number of concurrent searches.
func WithWorkers(workers int) RunnerOption {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithMetrics records search counts and durations.
func WithMetrics(metrics *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = metrics }
}

func NewRunner(systems []providers.RankingSystem, opts ...RunnerOption) *Runner {
	r := &Runner{
		systems: systems,
		depth:   defaultDepth,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run returns one observation per system and query, ordered by system then
// query. A failed search is logged and recorded as a miss with Err set.
func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) ([]Observation, error) {
	ctx, span := observability.StartSpan(ctx, "evaluation.run",
		attribute.Int("eval.systems", len(r.systems)),
		attribute.Int("eval.queries", len(queries)),
	)
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	observations := make([]Observation, len(r.systems)*len(queries))

	jobs := make(chan int, r.workers)
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				system := r.systems[idx/len(queries)]
				gq := queries[idx%len(queries)]
				observations[idx] = r.observe(ctx, system, gq)
				if err := observations[idx].Err; err != nil {
					logger.Warn().Err(err).
						Str("system", system.Name()).
						Str("query_id", gq.ID).
						Msg("search failed, recording as miss")
				}
			}
		}()
	}

produce:
	for idx := range observations {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break produce
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	logger.Info().
		Int("systems", len(r.systems)).
		Int("queries", len(queries)).
		Msg("evaluation run complete")
	return observations, nil
}

func (r *Runner) observe(ctx context.Context, system providers.RankingSystem, gq GoldenQuery) Observation {
	obs := Observation{
		Query:      gq.Query,
		Expected:   gq.Expected,
		System:     system.Name(),
		Difficulty: gq.Difficulty,
	}

	start := time.Now()
	hits, err := system.Search(ctx, gq.Query, r.depth)
	obs.Latency = time.Since(start)
	observability.RecordSearch(ctx, r.metrics, obs.System, obs.Latency)

	if err != nil {
		obs.Err = err
		return obs
	}
	obs.Rank = RankOf(gq.Expected, hits)
	return obs
}

// Summarize aggregates observations per system, in the order of systems.
func Summarize(observations []Observation, systems []string) *EvalSummary {
	summary := &EvalSummary{}
	bySystem := make(map[string]*SystemSummary, len(systems))
	for _, name := range systems {
		s := &SystemSummary{System: name, ByDifficulty: make(map[string]*DifficultySummary)}
		bySystem[name] = s
		summary.Systems = append(summary.Systems, s)
	}

	for _, o := range observations {
		if s, ok := bySystem[o.System]; ok {
			updateSummary(s, o)
		}
	}

	for _, s := range summary.Systems {
		summary.TotalQueries = max(summary.TotalQueries, s.Observations)
		finalizeSummary(s)
	}
	return summary
}

func updateSummary(s *SystemSummary, o Observation) {
	s.Observations++
	if o.Err != nil {
		s.Errors++
	}
	if foundWithin(o.Rank, 1) {
		s.RecallAt1++
	}
	if foundWithin(o.Rank, 5) {
		s.RecallAt5++
	}
	if foundWithin(o.Rank, 10) {
		s.RecallAt10++
	}
	rr := reciprocalRank(o.Rank, 10)
	s.MRRAt10 += rr
	s.AvgLatency += o.Latency

	if o.Difficulty == "" {
		return
	}
	ds, ok := s.ByDifficulty[o.Difficulty]
	if !ok {
		ds = &DifficultySummary{}
		s.ByDifficulty[o.Difficulty] = ds
	}
	ds.Count++
	if foundWithin(o.Rank, 10) {
		ds.RecallAt10++
	}
	ds.MRRAt10 += rr
}

func finalizeSummary(s *SystemSummary) {
	if s.Observations > 0 {
		n := float64(s.Observations)
		s.RecallAt1 /= n
		s.RecallAt5 /= n
		s.RecallAt10 /= n
		s.MRRAt10 /= n
		s.AvgLatency /= time.Duration(s.Observations)
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.RecallAt10 /= n
			ds.MRRAt10 /= n
		}
	}
}
