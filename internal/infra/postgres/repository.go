package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/Bharath-2656/video-analytics/internal/core/ingestion"
	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

// DBTX はクエリ実行に必要な最小のデータベースインターフェース
// pgxpool.Pool とトランザクション（pgx.Tx）の両方を受け付ける
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Repository は ingestion.Repository インターフェースを実装する PostgreSQL リポジトリです
type Repository struct {
	db DBTX
}

// NewRepository は新しい Repository を作成します
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// コンパイル時の型チェック
var _ ingestion.Repository = (*Repository)(nil)

// === Video ===

const videoColumns = `id, title, file_path, duration, status, error_message, created_at, updated_at, processed_at`

func (r *Repository) scanVideo(row pgx.Row) (*ingestion.Video, error) {
	var v ingestion.Video
	var status string
	err := row.Scan(
		&v.ID,
		&v.Title,
		&v.FilePath,
		&v.Duration,
		&status,
		&v.ErrorMessage,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Status = ingestion.VideoStatus(status)
	return &v, nil
}

func (r *Repository) GetVideoByID(ctx context.Context, id uuid.UUID) (mo.Option[*ingestion.Video], error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)

	video, err := r.scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*ingestion.Video](), nil
		}
		return mo.None[*ingestion.Video](), fmt.Errorf("failed to get video: %w", err)
	}
	return mo.Some(video), nil
}

func (r *Repository) GetVideoByFilePath(ctx context.Context, filePath string) (mo.Option[*ingestion.Video], error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE file_path = $1`, filePath)

	video, err := r.scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*ingestion.Video](), nil
		}
		return mo.None[*ingestion.Video](), fmt.Errorf("failed to get video by path: %w", err)
	}
	return mo.Some(video), nil
}

func (r *Repository) ListVideos(ctx context.Context) ([]*ingestion.VideoWithStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT v.id, v.title, v.file_path, v.duration, v.status, v.error_message,
		       v.created_at, v.updated_at, v.processed_at,
		       COUNT(s.id) AS scene_count
		FROM videos v
		LEFT JOIN scenes s ON s.video_id = v.id
		GROUP BY v.id
		ORDER BY v.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := make([]*ingestion.VideoWithStats, 0)
	for rows.Next() {
		var v ingestion.VideoWithStats
		var status string
		if err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.FilePath,
			&v.Duration,
			&status,
			&v.ErrorMessage,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.ProcessedAt,
			&v.SceneCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		v.Status = ingestion.VideoStatus(status)
		videos = append(videos, &v)
	}
	return videos, rows.Err()
}

func (r *Repository) CreateVideo(ctx context.Context, title string, filePath string, duration float64) (*ingestion.Video, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO videos (id, title, file_path, duration, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+videoColumns,
		uuid.New(), title, filePath, duration, string(ingestion.VideoStatusQueued))

	video, err := r.scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return video, nil
}

func (r *Repository) UpdateVideoStatus(ctx context.Context, id uuid.UUID, status ingestion.VideoStatus, errorMessage *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE videos
		SET status = $2, error_message = $3, updated_at = now()
		WHERE id = $1`,
		id, string(status), errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("video not found: %s", id)
	}
	return nil
}

func (r *Repository) MarkVideoCompleted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE videos
		SET status = $2, error_message = NULL, processed_at = now(), updated_at = now()
		WHERE id = $1`,
		id, string(ingestion.VideoStatusCompleted))
	if err != nil {
		return fmt.Errorf("failed to mark video completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("video not found: %s", id)
	}
	return nil
}

func (r *Repository) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// === Scene ===

func (r *Repository) ListScenesByVideo(ctx context.Context, videoID uuid.UUID) ([]*scene.Scene, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, video_id, scene_number, start_time, end_time,
		       transcript, visual_context, combined_context, image_path
		FROM scenes
		WHERE video_id = $1
		ORDER BY scene_number`,
		videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	defer rows.Close()

	scenes := make([]*scene.Scene, 0)
	for rows.Next() {
		var sc scene.Scene
		if err := rows.Scan(
			&sc.ID,
			&sc.VideoID,
			&sc.Number,
			&sc.StartTime,
			&sc.EndTime,
			&sc.Transcript,
			&sc.VisualContext,
			&sc.CombinedContext,
			&sc.ImagePath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		sc.StartTimeFormatted = scene.FormatTime(sc.StartTime)
		sc.EndTimeFormatted = scene.FormatTime(sc.EndTime)
		scenes = append(scenes, &sc)
	}
	return scenes, rows.Err()
}

func (r *Repository) BatchCreateScenes(ctx context.Context, scenes []*scene.Scene) error {
	if len(scenes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, sc := range scenes {
		var embedding any
		if sc.Embedding != nil {
			embedding = pgvector.NewVector(sc.Embedding)
		}
		batch.Queue(`
			INSERT INTO scenes (id, video_id, scene_number, start_time, end_time,
			                    transcript, visual_context, combined_context, image_path, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			sc.ID, sc.VideoID, sc.Number, sc.StartTime, sc.EndTime,
			sc.Transcript, sc.VisualContext, sc.CombinedContext, sc.ImagePath, embedding)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range scenes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch create scenes: %w", err)
		}
	}
	return nil
}

func (r *Repository) DeleteScenesByVideoID(ctx context.Context, videoID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM scenes WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to delete scenes: %w", err)
	}
	return nil
}
