package ingestion

import (
	"time"

	"github.com/google/uuid"
)

// === Video ===

// Video は取り込み対象の講義動画を表す
type Video struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	FilePath     string      `json:"filePath"`
	Duration     float64     `json:"duration"`
	Status       VideoStatus `json:"status"`
	ErrorMessage *string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	ProcessedAt  *time.Time  `json:"processedAt,omitempty"`
}

// VideoWithStats は動画とシーン統計を含む構造体
type VideoWithStats struct {
	Video
	SceneCount int `json:"sceneCount"`
}

// VideoStatus は動画処理のライフサイクル状態を表す
type VideoStatus string

const (
	VideoStatusQueued     VideoStatus = "queued"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// === Processing ===

// ProcessParams は動画取り込みの共通パラメータ
type ProcessParams struct {
	Title            string  // 動画タイトル
	FilePath         string  // 動画ファイルのパス
	Threshold        int     // 遷移検出しきい値（0ならデフォルト）
	MinSceneDuration float64 // 最小シーン長（秒、負ならデフォルト）
}

// ProcessResult は動画取り込み処理の結果を表す
type ProcessResult struct {
	VideoID       uuid.UUID
	SceneCount    int
	VideoDuration float64
	Duration      time.Duration
}
