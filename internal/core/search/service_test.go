package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{ called bool }

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.called = true
	return []float32{1, 2, 3}, nil
}

type stubSearchRepo struct {
	hits      []*SearchHit
	lastLimit int
}

func (r *stubSearchRepo) SearchScenes(ctx context.Context, queryVector []float32, limit int, filter SearchFilter) ([]*SearchHit, error) {
	r.lastLimit = limit
	return r.hits, nil
}

type stubRelevanceFilter struct {
	selected []int
	err      error
}

func (f *stubRelevanceFilter) FilterRelevant(ctx context.Context, query string, hits []*SearchHit) ([]int, error) {
	return f.selected, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{AddSource: false}))
}

func makeHits(scores ...float64) []*SearchHit {
	hits := make([]*SearchHit, 0, len(scores))
	for i, score := range scores {
		hits = append(hits, &SearchHit{
			SceneID:     uuid.New(),
			VideoID:     uuid.New(),
			SceneNumber: i + 1,
			StartTime:   float64(i * 10),
			EndTime:     float64(i*10 + 10),
			Score:       score,
		})
	}
	return hits
}

func TestSearchService_SearchUsesDefaultLimitAndEmbedder(t *testing.T) {
	repo := &stubSearchRepo{hits: makeHits(0.9)}
	embedder := &stubEmbedder{}

	svc := NewSearchService(repo, embedder, WithSearchLogger(testLogger()))

	hits, err := svc.Search(context.Background(), SearchParams{
		Query: "explain the architecture",
		Limit: 0, // default should be applied
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, DefaultLimit, repo.lastLimit)
	assert.True(t, embedder.called)
}

func TestSearchService_EmptyQueryRejected(t *testing.T) {
	svc := NewSearchService(&stubSearchRepo{}, &stubEmbedder{}, WithSearchLogger(testLogger()))

	_, err := svc.Search(context.Background(), SearchParams{Query: ""})
	require.Error(t, err)
}

func TestSearchService_FilterSelectsSubset(t *testing.T) {
	repo := &stubSearchRepo{hits: makeHits(0.9, 0.8, 0.7)}
	filter := &stubRelevanceFilter{selected: []int{2, 0}}

	svc := NewSearchService(repo, &stubEmbedder{},
		WithSearchLogger(testLogger()),
		WithRelevanceFilter(filter),
	)

	hits, err := svc.Search(context.Background(), SearchParams{Query: "q"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 3, hits[0].SceneNumber)
	assert.Equal(t, 1, hits[1].SceneNumber)
}

func TestSearchService_FilterErrorFallsBackToAllHits(t *testing.T) {
	repo := &stubSearchRepo{hits: makeHits(0.9, 0.8, 0.7)}
	filter := &stubRelevanceFilter{err: errors.New("llm unavailable")}

	svc := NewSearchService(repo, &stubEmbedder{},
		WithSearchLogger(testLogger()),
		WithRelevanceFilter(filter),
	)

	hits, err := svc.Search(context.Background(), SearchParams{Query: "q"})
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearchService_EmptySelectionFallsBackToTopHits(t *testing.T) {
	repo := &stubSearchRepo{hits: makeHits(0.9, 0.8, 0.7, 0.6)}
	filter := &stubRelevanceFilter{selected: nil}

	svc := NewSearchService(repo, &stubEmbedder{},
		WithSearchLogger(testLogger()),
		WithRelevanceFilter(filter),
	)

	hits, err := svc.Search(context.Background(), SearchParams{Query: "q"})
	require.NoError(t, err)
	require.Len(t, hits, FallbackTopN)
	assert.Equal(t, 1, hits[0].SceneNumber)
	assert.Equal(t, 2, hits[1].SceneNumber)
}

func TestApplyRelevanceSelection_SkipsOutOfRangeAndDuplicates(t *testing.T) {
	hits := makeHits(0.9, 0.8)

	filtered := applyRelevanceSelection(hits, []int{-1, 0, 0, 5})

	require.Len(t, filtered, 1)
	assert.Equal(t, 1, filtered[0].SceneNumber)
}

func TestApplyRelevanceSelection_FallbackCappedByCandidates(t *testing.T) {
	hits := makeHits(0.9)

	filtered := applyRelevanceSelection(hits, nil)

	assert.Len(t, filtered, 1)
}

func TestBuildTimelines_GroupsByVideoInEncounterOrder(t *testing.T) {
	videoA, videoB := uuid.New(), uuid.New()
	hits := []*SearchHit{
		{VideoID: videoB, VideoTitle: "B", StartTime: 30, EndTime: 40},
		{VideoID: videoA, VideoTitle: "A", StartTime: 100, EndTime: 110},
		{VideoID: videoB, VideoTitle: "B", StartTime: 10, EndTime: 20},
	}

	timelines := BuildTimelines(hits)

	require.Len(t, timelines, 2)
	assert.Equal(t, videoB, timelines[0].VideoID)
	assert.Equal(t, 10.0, timelines[0].StartTime)
	assert.Equal(t, 40.0, timelines[0].EndTime)
	assert.Equal(t, 2, timelines[0].SceneCount)
	assert.Equal(t, "00:00:10", timelines[0].StartFormatted)
	assert.Equal(t, videoA, timelines[1].VideoID)
}

func TestBuildTimelines_ClampsNegativeStart(t *testing.T) {
	hits := []*SearchHit{{VideoID: uuid.New(), StartTime: -2, EndTime: 8}}

	timelines := BuildTimelines(hits)

	require.Len(t, timelines, 1)
	assert.Equal(t, 0.0, timelines[0].StartTime)
}

func TestBuildTimelines_Empty(t *testing.T) {
	assert.Empty(t, BuildTimelines(nil))
}
