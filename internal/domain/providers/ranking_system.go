package providers

import (
	"context"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
)

// RankingSystem ranks dictionary headwords for a query. n <= 0 asks for
// every entry.
type RankingSystem interface {
	Name() string
	Search(ctx context.Context, query string, n int) ([]entities.SearchHit, error)
}
