package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openai/openai-go/v3"

	"github.com/Bharath-2656/video-analytics/internal/core/ingestion"
	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

const (
	// DefaultTranscriptionModel は文字起こしに使うモデル
	DefaultTranscriptionModel = "whisper-1"
)

// AudioExtractor は動画から音声トラックを抽出するインターフェース
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath string, outputPath string) error
}

// Transcriber は OpenAI Whisper API で音声を時刻付きテキストに変換する
type Transcriber struct {
	client    *Client
	extractor AudioExtractor
	model     string
}

// NewTranscriber は新しい Transcriber を作成する
// model が空の場合はデフォルトモデルを使う
func NewTranscriber(client *Client, extractor AudioExtractor, model string) *Transcriber {
	if model == "" {
		model = DefaultTranscriptionModel
	}
	return &Transcriber{
		client:    client,
		extractor: extractor,
		model:     model,
	}
}

// verboseTranscription は verbose_json レスポンスのうち利用する部分
type verboseTranscription struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe は動画の音声を抽出して文字起こしし、時刻付き区間の列を返す
func (t *Transcriber) Transcribe(ctx context.Context, videoPath string) ([]scene.TranscriptSegment, error) {
	tempDir, err := os.MkdirTemp("", "transcribe-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := t.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, fmt.Errorf("audio extraction failed: %w", err)
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open extracted audio: %w", err)
	}
	defer f.Close()

	resp, err := t.client.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:                   openai.File(f, "audio.mp3", "audio/mpeg"),
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	// verbose_json のセグメント情報はレスポンスの生JSONから取り出す
	var verbose verboseTranscription
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil {
		return nil, fmt.Errorf("failed to parse transcription segments: %w", err)
	}

	segments := make([]scene.TranscriptSegment, 0, len(verbose.Segments))
	for _, seg := range verbose.Segments {
		segments = append(segments, scene.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	return segments, nil
}

// インターフェース実装の確認
var _ ingestion.Transcriber = (*Transcriber)(nil)
