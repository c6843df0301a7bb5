package repositories

import (
	"context"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
)

// EvaluationRunRepository persists evaluation runs and their recall points.
type EvaluationRunRepository interface {
	Save(ctx context.Context, run *entities.EvaluationRun) error
	Latest(ctx context.Context, label string) (*entities.EvaluationRun, error)
}
