package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

func setupMockDB(t *testing.T) (*EvaluationRunAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEvaluationRunAdapter(postgres.NewFromDB(db)), mock
}

func TestEvaluationRunAdapter_Save(t *testing.T) {
	adapter, mock := setupMockDB(t)

	run := &entities.EvaluationRun{
		Label:      "nightly",
		QueryCount: 2,
		Points: []entities.RecallPoint{
			{System: "ratio", K: 1, Hits: 1, Observations: 2, Proportion: 0.5},
			{System: "ratio", K: 2, Hits: 2, Observations: 2, Proportion: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "eval_runs"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "eval_recall_points" \("hits", "k", "observations", "position", "proportion", "run_id", "system"\)`).
		WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	require.NoError(t, adapter.Save(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRunAdapter_SaveRollsBack(t *testing.T) {
	adapter, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "eval_runs"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := adapter.Save(context.Background(), &entities.EvaluationRun{Label: "nightly"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRunAdapter_SaveNil(t *testing.T) {
	adapter, _ := setupMockDB(t)
	err := adapter.Save(context.Background(), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestEvaluationRunAdapter_Latest(t *testing.T) {
	adapter, mock := setupMockDB(t)
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT "id", "label", "query_count", "created_at" FROM "eval_runs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "query_count", "created_at"}).
			AddRow("run-1", "nightly", 3, created))
	mock.ExpectQuery(`SELECT "system", "k", "hits", "observations", "proportion" FROM "eval_recall_points" WHERE \("run_id" = 'run-1'\) ORDER BY "position" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"system", "k", "hits", "observations", "proportion"}).
			AddRow("spread", 1, 2, 3, 2.0/3.0).
			AddRow("ratio", 1, 1, 3, 1.0/3.0).
			AddRow("ratio", 2, 3, 3, 1.0))

	run, err := adapter.Latest(context.Background(), "nightly")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, created, run.CreatedAt)
	require.Len(t, run.Points, 3)
	assert.Equal(t, "spread", run.Points[0].System)
	assert.Equal(t, 2, run.Points[2].K)
	assert.InDelta(t, 1.0, run.Points[2].Proportion, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRunAdapter_LatestNotFound(t *testing.T) {
	adapter, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM "eval_runs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "query_count", "created_at"}))

	_, err := adapter.Latest(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestEvaluationRunAdapter_EnsureSchema(t *testing.T) {
	adapter, mock := setupMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS eval_runs`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
