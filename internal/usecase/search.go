package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/stashit/stashit/internal/domain"
)

const (
	answerNoStashes = "I don't have any stashes that match your query yet. Try adding some content first!"
	answerNoMatch   = "I couldn't find any highly relevant stashes matching your query."
)

// SearchUsecase turns a free-text query into a single best answer plus
// supporting results, scoped to the caller. Stateless per call.
type SearchUsecase struct {
	index     VectorIndex
	topN      int
	threshold float64
	logger    *slog.Logger
}

// NewSearchUsecase creates a search usecase. topN bounds the raw hits pulled
// from the index; threshold is the minimum score for a confident answer.
func NewSearchUsecase(index VectorIndex, topN int, threshold float64) *SearchUsecase {
	return &SearchUsecase{
		index:     index,
		topN:      topN,
		threshold: threshold,
		logger:    slog.Default().With("component", "search"),
	}
}

// Search queries the index for the caller's own content and synthesizes an
// answer. Either one confident hit is surfaced or nothing: sub-threshold
// matches are retrieved but deliberately not returned.
func (uc *SearchUsecase) Search(ctx context.Context, query string, ownerID string) (domain.SearchResponse, error) {
	hits, err := uc.index.Query(ctx, query, ownerID, uc.topN)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	if len(hits) == 0 {
		return domain.SearchResponse{
			Answer:  answerNoStashes,
			Results: []domain.SearchResult{},
		}, nil
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.SearchResult{
			ID:       hit.ID,
			Document: hit.Document,
			Score:    scoreFromDistance(hit.Distance),
			Metadata: domain.SearchResultMeta{
				Title: hit.Meta.Title,
				Link:  hit.Meta.Link,
				Type:  hit.Meta.Type,
			},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	best := results[0]
	if best.Score > uc.threshold {
		percent := int(math.Round(best.Score * 100))
		return domain.SearchResponse{
			Answer:  fmt.Sprintf("I found this most relevant stash: %q (%d%% match)", best.Metadata.Title, percent),
			Results: []domain.SearchResult{best},
		}, nil
	}

	uc.logger.Debug("best hit below threshold", "score", best.Score, "threshold", uc.threshold)
	return domain.SearchResponse{
		Answer:  answerNoMatch,
		Results: []domain.SearchResult{},
	}, nil
}

// scoreFromDistance maps a cosine distance to a similarity score. A missing
// distance scores 0.
func scoreFromDistance(distance *float64) float64 {
	if distance == nil {
		return 0
	}
	return 1 - *distance
}
