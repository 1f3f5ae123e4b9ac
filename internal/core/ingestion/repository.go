package ingestion

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

// ErrVideoAlreadyProcessing は処理中動画への二重取り込みエラー
var ErrVideoAlreadyProcessing = errors.New("video is already being processed")

// Repository は動画・シーン関連の全データアクセスを統合するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// Video
	GetVideoByID(ctx context.Context, id uuid.UUID) (mo.Option[*Video], error)
	GetVideoByFilePath(ctx context.Context, filePath string) (mo.Option[*Video], error)
	ListVideos(ctx context.Context) ([]*VideoWithStats, error)
	CreateVideo(ctx context.Context, title string, filePath string, duration float64) (*Video, error)
	UpdateVideoStatus(ctx context.Context, id uuid.UUID, status VideoStatus, errorMessage *string) error
	MarkVideoCompleted(ctx context.Context, id uuid.UUID) error
	DeleteVideo(ctx context.Context, id uuid.UUID) error

	// Scene
	ListScenesByVideo(ctx context.Context, videoID uuid.UUID) ([]*scene.Scene, error)
	BatchCreateScenes(ctx context.Context, scenes []*scene.Scene) error
	DeleteScenesByVideoID(ctx context.Context, videoID uuid.UUID) error
}
