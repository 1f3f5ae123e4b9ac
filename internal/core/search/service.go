package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

const (
	// DefaultLimit はベクトル検索のデフォルト取得件数
	DefaultLimit = 10
	// DefaultFilterTimeout は関連性フィルタのデフォルトタイムアウト
	DefaultFilterTimeout = 30 * time.Second
)

// Embedder はクエリのEmbedding生成インターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SearchService はシーン検索のビジネスロジックを提供する
type SearchService struct {
	repo          Repository
	embedder      Embedder
	filter        RelevanceFilter // オプショナル
	filterTimeout time.Duration
	logger        *slog.Logger
}

type searchServiceOptions struct {
	filter        RelevanceFilter
	filterTimeout time.Duration
	logger        *slog.Logger
}

// SearchServiceOption は SearchService のオプション設定
type SearchServiceOption func(*searchServiceOptions)

// WithSearchLogger は SearchService にロガーを設定する
func WithSearchLogger(logger *slog.Logger) SearchServiceOption {
	return func(o *searchServiceOptions) {
		o.logger = logger
	}
}

// WithRelevanceFilter はLLMによる関連性フィルタを設定する
func WithRelevanceFilter(filter RelevanceFilter) SearchServiceOption {
	return func(o *searchServiceOptions) {
		o.filter = filter
	}
}

// WithFilterTimeout は関連性フィルタのタイムアウトを設定する
func WithFilterTimeout(timeout time.Duration) SearchServiceOption {
	return func(o *searchServiceOptions) {
		o.filterTimeout = timeout
	}
}

// NewSearchService は新しいSearchServiceを作成する
func NewSearchService(repo Repository, embedder Embedder, opts ...SearchServiceOption) *SearchService {
	options := searchServiceOptions{
		filterTimeout: DefaultFilterTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.filterTimeout <= 0 {
		options.filterTimeout = DefaultFilterTimeout
	}

	return &SearchService{
		repo:          repo,
		embedder:      embedder,
		filter:        options.filter,
		filterTimeout: options.filterTimeout,
		logger:        options.logger,
	}
}

// SearchParams は検索パラメータを表す
type SearchParams struct {
	Query  string
	Limit  int
	Filter *SearchFilter
}

// Search はクエリに基づいてシーンのベクトル検索と関連性選別を実行する
func (s *SearchService) Search(ctx context.Context, params SearchParams) ([]*SearchHit, error) {
	// バリデーション
	if params.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	// クエリをEmbeddingに変換
	queryVector, err := s.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// デフォルトのLimit設定
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	// フィルタの準備
	filter := SearchFilter{}
	if params.Filter != nil {
		filter = *params.Filter
	}

	hits, err := s.repo.SearchScenes(ctx, queryVector, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if s.filter == nil || len(hits) == 0 {
		return hits, nil
	}

	// LLMによる関連性選別。失敗時はベクトル検索の結果をそのまま返す
	filterCtx, cancel := context.WithTimeout(ctx, s.filterTimeout)
	defer cancel()

	selected, err := s.filter.FilterRelevant(filterCtx, params.Query, hits)
	if err != nil {
		s.logger.Warn("関連性フィルタに失敗。ベクトル検索結果をそのまま使用",
			"query", params.Query,
			"candidates", len(hits),
			"error", err,
		)
		return hits, nil
	}

	filtered := applyRelevanceSelection(hits, selected)

	s.logger.Info("検索が完了",
		"query", params.Query,
		"candidates", len(hits),
		"selected", len(filtered),
	)

	return filtered, nil
}

// BuildTimelines は検索結果を動画ごとの時間範囲にまとめる
//
// 動画の出現順は検索結果（類似度降順）で最初に現れた順を保ち、
// 各動画の範囲はヒットしたシーンの最小開始時刻から最大終了時刻まで
func BuildTimelines(hits []*SearchHit) []*Timeline {
	if len(hits) == 0 {
		return nil
	}

	order := make([]uuid.UUID, 0)
	byVideo := make(map[uuid.UUID]*Timeline)

	for _, hit := range hits {
		tl, ok := byVideo[hit.VideoID]
		if !ok {
			start := hit.StartTime
			if start < 0 {
				start = 0
			}
			byVideo[hit.VideoID] = &Timeline{
				VideoID:    hit.VideoID,
				VideoTitle: hit.VideoTitle,
				StartTime:  start,
				EndTime:    hit.EndTime,
				SceneCount: 1,
			}
			order = append(order, hit.VideoID)
			continue
		}

		if hit.StartTime < tl.StartTime {
			tl.StartTime = hit.StartTime
			if tl.StartTime < 0 {
				tl.StartTime = 0
			}
		}
		if hit.EndTime > tl.EndTime {
			tl.EndTime = hit.EndTime
		}
		tl.SceneCount++
	}

	timelines := make([]*Timeline, 0, len(order))
	for _, videoID := range order {
		tl := byVideo[videoID]
		tl.StartFormatted = scene.FormatTime(tl.StartTime)
		tl.EndFormatted = scene.FormatTime(tl.EndTime)
		timelines = append(timelines, tl)
	}

	return timelines
}
