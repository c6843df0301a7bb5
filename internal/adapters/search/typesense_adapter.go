package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/chamorrodict/dictsearch/internal/dictionary"
	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	tsclient "github.com/chamorrodict/dictsearch/internal/infrastructure/clients/typesense"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	"github.com/chamorrodict/dictsearch/internal/matching"
	apperrors "github.com/chamorrodict/dictsearch/pkg/errors"
)

// SystemName is the ranking system name of the Typesense backend.
const SystemName = "typesense"

// maxPerPage is the largest page Typesense serves.
const maxPerPage = 250

// TypesenseAdapter indexes dictionary headwords and ranks them with Typesense.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.RankingSystem = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts every headword of dict and returns how many were written.
func (a *TypesenseAdapter) Index(ctx context.Context, dict *dictionary.Dictionary) (int, error) {
	logger := observability.LoggerFromContext(ctx)
	indexed := 0
	for _, hw := range dict.Headwords() {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		doc := buildEntryDocument(hw, dict.Variants(hw))
		if _, err := a.client.Client().Collection(tsclient.EntriesCollection).Documents().Upsert(ctx, doc); err != nil {
			return indexed, apperrors.NewExternalError(fmt.Sprintf("failed to index %q", hw), err)
		}
		indexed++
		if indexed%1000 == 0 {
			logger.Info().Int("indexed", indexed).Int("total", dict.Len()).Msg("indexing progress")
		}
	}
	return indexed, nil
}

// Name implements providers.RankingSystem.
func (a *TypesenseAdapter) Name() string { return SystemName }

// Search returns up to n headwords in Typesense relevance order. Scores are
// derived from position since text match values are not comparable across
// queries.
func (a *TypesenseAdapter) Search(ctx context.Context, query string, n int) ([]entities.SearchHit, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(matching.Normalize(query)),
		QueryBy: pointer.String("normalized,headword,variants"),
		PerPage: pointer.Int(perPage(n)),
	}

	result, err := a.client.Client().Collection(tsclient.EntriesCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, apperrors.NewExternalError("typesense search failed", err)
	}
	if result.Hits == nil {
		return []entities.SearchHit{}, nil
	}

	docs := make([]map[string]interface{}, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document != nil {
			docs = append(docs, *hit.Document)
		}
	}
	return hitsFromDocuments(docs), nil
}

func perPage(n int) int {
	if n <= 0 || n > maxPerPage {
		return maxPerPage
	}
	return n
}

// hitsFromDocuments scores documents 1, 1/2, 1/3... in result order and skips
// any without a headword.
func hitsFromDocuments(docs []map[string]interface{}) []entities.SearchHit {
	hits := make([]entities.SearchHit, 0, len(docs))
	for _, doc := range docs {
		hw, ok := doc["headword"].(string)
		if !ok || hw == "" {
			continue
		}
		hits = append(hits, entities.SearchHit{
			Headword: hw,
			Score:    1 / float64(len(hits)+1),
		})
	}
	return hits
}
