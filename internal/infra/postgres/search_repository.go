package postgres

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
	"github.com/Bharath-2656/video-analytics/internal/core/search"
)

// SearchRepository は core/search.Repository を実装する PostgreSQL リポジトリ。
type SearchRepository struct {
	db DBTX
}

// NewSearchRepository は新しい SearchRepository を返す。
func NewSearchRepository(db DBTX) *SearchRepository {
	return &SearchRepository{db: db}
}

var _ search.Repository = (*SearchRepository)(nil)

// SearchScenes はコサイン類似度の降順でシーンを検索する
// 対象は取り込みが完了した動画の、埋め込みを持つシーンのみ
func (r *SearchRepository) SearchScenes(ctx context.Context, queryVector []float32, limit int, filter search.SearchFilter) ([]*search.SearchHit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.video_id, v.title, v.file_path, s.scene_number,
		       s.start_time, s.end_time, s.transcript, s.visual_context,
		       s.combined_context, s.image_path,
		       1 - (s.embedding <=> $1) AS score
		FROM scenes s
		JOIN videos v ON v.id = s.video_id
		WHERE s.embedding IS NOT NULL
		  AND v.status = 'completed'
		  AND ($2::uuid IS NULL OR s.video_id = $2)
		  AND ($3::float8 IS NULL OR 1 - (s.embedding <=> $1) >= $3)
		ORDER BY s.embedding <=> $1
		LIMIT $4`,
		pgvector.NewVector(queryVector),
		UUIDPtrToPgtype(filter.VideoID),
		Float64PtrToPgfloat(filter.MinScore),
		int32(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search scenes: %w", err)
	}
	defer rows.Close()

	hits := make([]*search.SearchHit, 0, limit)
	for rows.Next() {
		var hit search.SearchHit
		if err := rows.Scan(
			&hit.SceneID,
			&hit.VideoID,
			&hit.VideoTitle,
			&hit.VideoPath,
			&hit.SceneNumber,
			&hit.StartTime,
			&hit.EndTime,
			&hit.Transcript,
			&hit.VisualContext,
			&hit.CombinedContext,
			&hit.ImagePath,
			&hit.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		hit.StartTimeFormatted = scene.FormatTime(hit.StartTime)
		hit.EndTimeFormatted = scene.FormatTime(hit.EndTime)
		hits = append(hits, &hit)
	}
	return hits, rows.Err()
}
