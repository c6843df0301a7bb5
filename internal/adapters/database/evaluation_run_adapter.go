package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/repositories"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

const (
	runsTable   = "eval_runs"
	pointsTable = "eval_recall_points"
)

// evaluationSchema creates the run tables when missing.
const evaluationSchema = `
CREATE TABLE IF NOT EXISTS eval_runs (
	id          UUID PRIMARY KEY,
	label       TEXT NOT NULL,
	query_count INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS eval_runs_label_created_idx ON eval_runs (label, created_at DESC);
CREATE TABLE IF NOT EXISTS eval_recall_points (
	run_id       UUID NOT NULL REFERENCES eval_runs (id) ON DELETE CASCADE,
	system       TEXT NOT NULL,
	k            INTEGER NOT NULL,
	hits         INTEGER NOT NULL,
	observations INTEGER NOT NULL,
	proportion   DOUBLE PRECISION NOT NULL,
	position     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, system, k)
);
ALTER TABLE eval_recall_points ADD COLUMN IF NOT EXISTS position INTEGER NOT NULL DEFAULT 0;`

// EvaluationRunAdapter stores evaluation runs in Postgres.
type EvaluationRunAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.EvaluationRunRepository = (*EvaluationRunAdapter)(nil)

// NewEvaluationRunAdapter creates a new evaluation run adapter.
func NewEvaluationRunAdapter(client *postgres.Client) *EvaluationRunAdapter {
	return &EvaluationRunAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// EnsureSchema creates the tables used by Save and Latest.
func (a *EvaluationRunAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, evaluationSchema); err != nil {
		return apperrors.NewInternalError("failed to create evaluation schema", err)
	}
	return nil
}

// Save writes the run and its recall points in one transaction. A missing
// ID or CreatedAt is filled in.
func (a *EvaluationRunAdapter) Save(ctx context.Context, run *entities.EvaluationRun) error {
	if run == nil {
		return apperrors.NewValidationError("evaluation run is nil")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	runQuery, runArgs, err := a.db.Insert(runsTable).Rows(goqu.Record{
		"id":          run.ID,
		"label":       run.Label,
		"query_count": run.QueryCount,
		"created_at":  run.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build run insert query", err)
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, runQuery, runArgs...); err != nil {
		return apperrors.NewInternalError("failed to insert evaluation run", err)
	}

	if len(run.Points) > 0 {
		rows := make([]interface{}, 0, len(run.Points))
		for i, p := range run.Points {
			rows = append(rows, goqu.Record{
				"run_id":       run.ID,
				"system":       p.System,
				"k":            p.K,
				"hits":         p.Hits,
				"observations": p.Observations,
				"proportion":   p.Proportion,
				"position":     i,
			})
		}

		pointsQuery, pointsArgs, err := a.db.Insert(pointsTable).Rows(rows...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build recall point insert query", err)
		}
		if _, err := tx.ExecContext(ctx, pointsQuery, pointsArgs...); err != nil {
			return apperrors.NewInternalError("failed to insert recall points", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit evaluation run", err)
	}
	return nil
}

// Latest returns the most recent run with label, points in the order they
// were saved.
func (a *EvaluationRunAdapter) Latest(ctx context.Context, label string) (*entities.EvaluationRun, error) {
	query, args, err := a.db.Select("id", "label", "query_count", "created_at").
		From(runsTable).
		Where(goqu.Ex{"label": label}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build run query", err)
	}

	run := &entities.EvaluationRun{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&run.ID,
		&run.Label,
		&run.QueryCount,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no evaluation run labelled %q", label))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get evaluation run", err)
	}

	query, args, err = a.db.Select("system", "k", "hits", "observations", "proportion").
		From(pointsTable).
		Where(goqu.Ex{"run_id": run.ID}).
		Order(goqu.I("position").Asc(), goqu.I("system").Asc(), goqu.I("k").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build recall point query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recall points", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p entities.RecallPoint
		if err := rows.Scan(&p.System, &p.K, &p.Hits, &p.Observations, &p.Proportion); err != nil {
			return nil, apperrors.NewInternalError("failed to scan recall point", err)
		}
		run.Points = append(run.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read recall points", err)
	}

	return run, nil
}
