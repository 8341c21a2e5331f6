package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashit/stashit/internal/domain"
)

type stubIndex struct {
	hits    []domain.VectorHit
	err     error
	ownerID string
	limit   int
}

func (s *stubIndex) Upsert(ctx context.Context, entry domain.VectorEntry) error { return nil }
func (s *stubIndex) Delete(ctx context.Context, id string) error                { return nil }
func (s *stubIndex) Query(ctx context.Context, query string, ownerID string, limit int) ([]domain.VectorHit, error) {
	s.ownerID = ownerID
	s.limit = limit
	return s.hits, s.err
}

func ptr(f float64) *float64 { return &f }

func TestScoreFromDistance(t *testing.T) {
	assert.InDelta(t, 0.8, scoreFromDistance(ptr(0.2)), 1e-9)
	assert.InDelta(t, 1.0, scoreFromDistance(ptr(0)), 1e-9)
	assert.InDelta(t, 0.0, scoreFromDistance(ptr(1)), 1e-9)
	assert.Equal(t, 0.0, scoreFromDistance(nil))
}

func TestSearchConfidentMatch(t *testing.T) {
	index := &stubIndex{hits: []domain.VectorHit{
		{
			ID:       "c1",
			Document: "Rust Book - link: https://rust-book.dev",
			Distance: ptr(0.3),
			Meta:     domain.ContentMeta{Title: "Rust Book", Link: "https://rust-book.dev", Type: "link"},
		},
	}}
	uc := NewSearchUsecase(index, 10, 0.5)

	resp, err := uc.Search(context.Background(), "systems programming", "owner-a")
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "Rust Book")
	assert.Contains(t, resp.Answer, "70% match")
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "c1", resp.Results[0].ID)
	assert.InDelta(t, 0.7, resp.Results[0].Score, 1e-9)
	assert.Equal(t, "owner-a", index.ownerID)
	assert.Equal(t, 10, index.limit)
}

func TestSearchSubThresholdReturnsNothing(t *testing.T) {
	index := &stubIndex{hits: []domain.VectorHit{
		{
			ID:       "c1",
			Distance: ptr(0.7),
			Meta:     domain.ContentMeta{Title: "Rust Book"},
		},
	}}
	uc := NewSearchUsecase(index, 10, 0.5)

	resp, err := uc.Search(context.Background(), "systems programming", "owner-a")
	require.NoError(t, err)

	assert.Equal(t, answerNoMatch, resp.Answer)
	assert.Empty(t, resp.Results)
}

func TestSearchNoHits(t *testing.T) {
	uc := NewSearchUsecase(&stubIndex{}, 10, 0.5)

	resp, err := uc.Search(context.Background(), "anything", "owner-b")
	require.NoError(t, err)

	assert.Equal(t, answerNoStashes, resp.Answer)
	assert.Empty(t, resp.Results)
}

func TestSearchPicksHighestScore(t *testing.T) {
	index := &stubIndex{hits: []domain.VectorHit{
		{ID: "low", Distance: ptr(0.6), Meta: domain.ContentMeta{Title: "Low"}},
		{ID: "high", Distance: ptr(0.1), Meta: domain.ContentMeta{Title: "High"}},
		{ID: "mid", Distance: ptr(0.35), Meta: domain.ContentMeta{Title: "Mid"}},
	}}
	uc := NewSearchUsecase(index, 10, 0.5)

	resp, err := uc.Search(context.Background(), "q", "owner-a")
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "high", resp.Results[0].ID)
	assert.Contains(t, resp.Answer, "High")
	assert.Contains(t, resp.Answer, "90% match")
}

func TestSearchMissingDistanceScoresZero(t *testing.T) {
	index := &stubIndex{hits: []domain.VectorHit{
		{ID: "c1", Meta: domain.ContentMeta{Title: "No Distance"}},
	}}
	uc := NewSearchUsecase(index, 10, 0.5)

	resp, err := uc.Search(context.Background(), "q", "owner-a")
	require.NoError(t, err)

	assert.Equal(t, answerNoMatch, resp.Answer)
	assert.Empty(t, resp.Results)
}
