package ingestion

import (
	"context"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

// MediaProbe は動画ファイルのメタデータを取得するインターフェース
type MediaProbe interface {
	// ProbeDuration は動画の長さ（秒）を返す
	ProbeDuration(ctx context.Context, videoPath string) (float64, error)
}

// FrameSampler は動画からフレームをサンプリングするインターフェース
type FrameSampler interface {
	MediaProbe

	// SampleFingerprints は動画を1秒間隔でサンプリングし、
	// 各フレームの知覚ハッシュを時系列で返す
	SampleFingerprints(ctx context.Context, videoPath string) ([]scene.Fingerprint, error)

	// SaveFrame は指定時刻のフレームを画像として保存しパスを返す
	SaveFrame(ctx context.Context, videoPath string, timestamp float64, outputPath string) error
}

// Transcriber は動画の音声を時刻付きテキストに変換するインターフェース
type Transcriber interface {
	// Transcribe は動画の音声を文字起こしし、時刻付き区間の列を返す
	Transcribe(ctx context.Context, videoPath string) ([]scene.TranscriptSegment, error)
}

// Captioner はシーン代表フレームの視覚的説明を生成するインターフェース
type Captioner interface {
	// Caption はフレーム画像の内容説明（表示テキスト・図・概念）を生成する
	Caption(ctx context.Context, imagePath string) (string, error)
}

// Embedder はテキストをベクトル表現に変換するインターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed はバッチでEmbeddingを生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName はモデル名を返す
	ModelName() string

	// MaxBatchSize は1回のAPI呼び出しで送信できる最大テキスト数を返す
	MaxBatchSize() int
}
