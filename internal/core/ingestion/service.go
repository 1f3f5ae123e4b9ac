package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

// ProcessService は動画取り込みのユースケースを提供する
type ProcessService struct {
	repository     Repository
	sampler        FrameSampler
	transcriber    Transcriber
	captioner      Captioner
	embedder       Embedder
	pipelineConfig *PipelineConfig
	framesDir      string
	logger         *slog.Logger
}

type processServiceOptions struct {
	pipelineConfig *PipelineConfig
	logger         *slog.Logger
}

// ProcessServiceOption は ProcessService のオプション設定
type ProcessServiceOption func(*processServiceOptions)

// WithProcessLogger は ProcessService にロガーを設定する
func WithProcessLogger(logger *slog.Logger) ProcessServiceOption {
	return func(o *processServiceOptions) {
		o.logger = logger
	}
}

// WithProcessPipelineConfig はパイプライン設定を上書きする
func WithProcessPipelineConfig(cfg *PipelineConfig) ProcessServiceOption {
	return func(o *processServiceOptions) {
		o.pipelineConfig = cfg
	}
}

// NewProcessService は新しいProcessServiceを作成する
func NewProcessService(
	repo Repository,
	sampler FrameSampler,
	transcriber Transcriber,
	captioner Captioner,
	embedder Embedder,
	framesDir string,
	opts ...ProcessServiceOption,
) *ProcessService {
	options := processServiceOptions{
		pipelineConfig: DefaultPipelineConfig(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.pipelineConfig == nil {
		options.pipelineConfig = DefaultPipelineConfig()
	}

	return &ProcessService{
		repository:     repo,
		sampler:        sampler,
		transcriber:    transcriber,
		captioner:      captioner,
		embedder:       embedder,
		pipelineConfig: options.pipelineConfig,
		framesDir:      framesDir,
		logger:         options.logger,
	}
}

// ProcessVideo は動画をシーン分割・解析してインデックス化する
func (s *ProcessService) ProcessVideo(ctx context.Context, params ProcessParams) (*ProcessResult, error) {
	startTime := time.Now()

	s.logger.Info("動画の取り込みを開始",
		"title", params.Title,
		"filePath", params.FilePath,
	)

	// パラメータのバリデーション
	if err := s.validateParams(params); err != nil {
		return nil, fmt.Errorf("パラメータのバリデーションエラー: %w", err)
	}

	// 動画の長さを取得
	duration, err := s.sampler.ProbeDuration(ctx, params.FilePath)
	if err != nil {
		return nil, fmt.Errorf("動画メタデータの取得に失敗: %w", err)
	}

	// 動画レコードを取得または作成
	video, err := s.prepareVideo(ctx, params, duration)
	if err != nil {
		return nil, err
	}

	if err := s.repository.UpdateVideoStatus(ctx, video.ID, VideoStatusProcessing, nil); err != nil {
		return nil, fmt.Errorf("処理状態の更新に失敗: %w", err)
	}

	scenes, err := s.analyzeVideo(ctx, video, params, duration)
	if err != nil {
		s.markFailed(ctx, video.ID, err)
		return nil, err
	}

	if err := s.repository.BatchCreateScenes(ctx, scenes); err != nil {
		err = fmt.Errorf("シーンの保存に失敗: %w", err)
		s.markFailed(ctx, video.ID, err)
		return nil, err
	}

	if err := s.repository.MarkVideoCompleted(ctx, video.ID); err != nil {
		return nil, fmt.Errorf("完了状態の更新に失敗: %w", err)
	}

	elapsed := time.Since(startTime)

	s.logger.Info("動画の取り込みが完了",
		"videoID", video.ID,
		"sceneCount", len(scenes),
		"videoDuration", duration,
		"duration", elapsed,
	)

	return &ProcessResult{
		VideoID:       video.ID,
		SceneCount:    len(scenes),
		VideoDuration: duration,
		Duration:      elapsed,
	}, nil
}

// prepareVideo は動画レコードを取得または作成し、再取り込み時は既存シーンを破棄する
func (s *ProcessService) prepareVideo(ctx context.Context, params ProcessParams, duration float64) (*Video, error) {
	existingOpt, err := s.repository.GetVideoByFilePath(ctx, params.FilePath)
	if err != nil {
		return nil, fmt.Errorf("既存動画の確認に失敗: %w", err)
	}

	if existingOpt.IsPresent() {
		existing := existingOpt.MustGet()
		if existing.Status == VideoStatusProcessing {
			return nil, fmt.Errorf("動画 %s: %w", existing.ID, ErrVideoAlreadyProcessing)
		}

		s.logger.Info("既存の動画を再取り込み",
			"videoID", existing.ID,
			"previousStatus", existing.Status,
		)
		if err := s.repository.DeleteScenesByVideoID(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("既存シーンの削除に失敗: %w", err)
		}
		return existing, nil
	}

	video, err := s.repository.CreateVideo(ctx, params.Title, params.FilePath, duration)
	if err != nil {
		return nil, fmt.Errorf("動画レコードの作成に失敗: %w", err)
	}
	return video, nil
}

// analyzeVideo はシーン検出から埋め込み生成までの解析本体
func (s *ProcessService) analyzeVideo(ctx context.Context, video *Video, params ProcessParams, duration float64) ([]*scene.Scene, error) {
	// フレームをサンプリングして知覚ハッシュを取得
	fingerprints, err := s.sampler.SampleFingerprints(ctx, params.FilePath)
	if err != nil {
		return nil, fmt.Errorf("フレームサンプリングに失敗: %w", err)
	}

	minSceneDuration := params.MinSceneDuration
	if minSceneDuration < 0 {
		minSceneDuration = scene.DefaultMinSceneDuration
	}

	// シーン遷移の検出と統合
	transitions := scene.DetectTransitions(fingerprints, params.Threshold)
	transitions = scene.Consolidate(transitions, minSceneDuration)
	transitions = scene.AnchorTransitions(transitions)
	intervals := scene.BuildSceneList(transitions, duration)

	s.logger.Info("シーン分割が完了",
		"videoID", video.ID,
		"sampleCount", len(fingerprints),
		"transitionCount", len(transitions),
		"sceneCount", len(intervals),
	)

	// 文字起こし（失敗しても視覚情報のみで続行する）
	var segments []scene.TranscriptSegment
	segments, err = s.transcriber.Transcribe(ctx, params.FilePath)
	if err != nil {
		s.logger.Warn("文字起こしに失敗。視覚情報のみで続行",
			"videoID", video.ID,
			"error", err,
		)
		segments = nil
	}
	transcripts := scene.AlignTranscript(intervals, segments)

	// シーン代表フレームを保存
	imagePaths := s.saveFrames(ctx, video.ID, params.FilePath, intervals)

	// キャプションを並行生成
	pipeline := NewCaptionPipeline(s.captioner, s.pipelineConfig, s.logger)
	captions, failedCaptions := pipeline.CaptionFrames(ctx, imagePaths)
	if failedCaptions > 0 {
		s.logger.Warn("一部シーンのキャプション生成に失敗",
			"videoID", video.ID,
			"failed", failedCaptions,
			"total", len(intervals),
		)
	}

	// 検索用の結合コンテキストを組み立てて埋め込みを生成
	combined := make([]string, len(intervals))
	for i := range intervals {
		combined[i] = combineContext(transcripts[i], captions[i])
	}

	embeddings, err := s.batchEmbed(ctx, combined)
	if err != nil {
		return nil, fmt.Errorf("埋め込み生成に失敗: %w", err)
	}

	scenes := make([]*scene.Scene, 0, len(intervals))
	for i, iv := range intervals {
		sc := &scene.Scene{
			ID:                 uuid.New(),
			VideoID:            video.ID,
			Number:             i + 1,
			StartTime:          iv.Start,
			EndTime:            iv.End,
			StartTimeFormatted: scene.FormatTime(iv.Start),
			EndTimeFormatted:   scene.FormatTime(iv.End),
			Transcript:         transcripts[i],
			CombinedContext:    combined[i],
			Embedding:          embeddings[i],
		}
		if captions[i] != "" {
			caption := captions[i]
			sc.VisualContext = &caption
		}
		if imagePaths[i] != "" {
			path := imagePaths[i]
			sc.ImagePath = &path
		}
		scenes = append(scenes, sc)
	}

	return scenes, nil
}

// saveFrames は各シーンの開始時刻のフレームを画像として保存する
// 個々の保存失敗は致命的ではなく、該当シーンは画像なしで続行する
func (s *ProcessService) saveFrames(ctx context.Context, videoID uuid.UUID, videoPath string, intervals []scene.Interval) []string {
	imagePaths := make([]string, len(intervals))

	videoFramesDir := filepath.Join(s.framesDir, videoID.String())
	if err := os.MkdirAll(videoFramesDir, 0o755); err != nil {
		s.logger.Warn("フレーム保存ディレクトリの作成に失敗",
			"dir", videoFramesDir,
			"error", err,
		)
		return imagePaths
	}

	for i, iv := range intervals {
		outputPath := filepath.Join(videoFramesDir, fmt.Sprintf("Scene-%03d.jpg", i+1))
		if err := s.sampler.SaveFrame(ctx, videoPath, iv.Start, outputPath); err != nil {
			s.logger.Warn("代表フレームの保存に失敗",
				"videoID", videoID,
				"timestamp", iv.Start,
				"error", err,
			)
			continue
		}
		imagePaths[i] = outputPath
	}

	return imagePaths
}

// batchEmbed は結合コンテキストの埋め込みをバッチ生成する
func (s *ProcessService) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := s.pipelineConfig.EmbeddingBatchSize
	if max := s.embedder.MaxBatchSize(); max > 0 && batchSize > max {
		batchSize = max
	}
	if batchSize <= 0 {
		batchSize = MinBatchSize
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedder.BatchEmbed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("埋め込みベクトル数が入力と一致しません: expected=%d actual=%d", end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// markFailed は動画を失敗状態に遷移させる（遷移自体の失敗はログのみ）
func (s *ProcessService) markFailed(ctx context.Context, videoID uuid.UUID, cause error) {
	message := cause.Error()
	if err := s.repository.UpdateVideoStatus(ctx, videoID, VideoStatusFailed, &message); err != nil {
		s.logger.Error("失敗状態の更新に失敗",
			"videoID", videoID,
			"error", err,
		)
	}
}

// validateParams は取り込みパラメータをバリデートする
func (s *ProcessService) validateParams(params ProcessParams) error {
	if params.Title == "" {
		return fmt.Errorf("title は必須です")
	}
	if params.FilePath == "" {
		return fmt.Errorf("file path は必須です")
	}
	if _, err := os.Stat(params.FilePath); err != nil {
		return fmt.Errorf("動画ファイルにアクセスできません: %w", err)
	}
	return nil
}

// combineContext は文字起こしと視覚コンテキストを検索用テキストに結合する
func combineContext(transcript, visual string) string {
	if visual == "" {
		return transcript
	}
	return fmt.Sprintf("%s | Visual Context: %s", transcript, visual)
}

// ListVideos は登録済み動画の一覧をシーン数付きで返す
func (s *ProcessService) ListVideos(ctx context.Context) ([]*VideoWithStats, error) {
	return s.repository.ListVideos(ctx)
}

// GetVideoDetail は動画とそのシーン一覧を返す
func (s *ProcessService) GetVideoDetail(ctx context.Context, videoID uuid.UUID) (*Video, []*scene.Scene, error) {
	videoOpt, err := s.repository.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("動画の取得に失敗: %w", err)
	}
	if videoOpt.IsAbsent() {
		return nil, nil, fmt.Errorf("動画が見つかりません: %s", videoID)
	}

	scenes, err := s.repository.ListScenesByVideo(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("シーン一覧の取得に失敗: %w", err)
	}
	return videoOpt.MustGet(), scenes, nil
}

// DeleteVideo は動画・シーン・保存済みフレーム画像を削除する
func (s *ProcessService) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	if err := s.repository.DeleteScenesByVideoID(ctx, videoID); err != nil {
		return fmt.Errorf("シーンの削除に失敗: %w", err)
	}
	if err := s.repository.DeleteVideo(ctx, videoID); err != nil {
		return fmt.Errorf("動画の削除に失敗: %w", err)
	}

	videoFramesDir := filepath.Join(s.framesDir, videoID.String())
	if err := os.RemoveAll(videoFramesDir); err != nil {
		s.logger.Warn("フレーム画像の削除に失敗",
			"dir", videoFramesDir,
			"error", err,
		)
	}

	return nil
}
