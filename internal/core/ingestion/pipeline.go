package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	// DefaultCaptionWorkerCount はデフォルトのキャプション生成ワーカー数（I/O バウンド）
	DefaultCaptionWorkerCount = 5
	// DefaultEmbeddingBatchSize はEmbedding APIのデフォルトバッチサイズ
	DefaultEmbeddingBatchSize = 100
	// MinBatchSize は最小バッチサイズ（MaxBatchSize()が0を返した場合のフォールバック）
	MinBatchSize = 1
)

// PipelineConfig はパイプライン処理の設定
type PipelineConfig struct {
	// CaptionWorkerCount はキャプション生成ワーカー数
	CaptionWorkerCount int
	// EmbeddingBatchSize はEmbeddingバッチサイズ（Embedder.MaxBatchSize()でクリップされる）
	EmbeddingBatchSize int
}

// DefaultPipelineConfig はデフォルトのパイプライン設定を返す
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		CaptionWorkerCount: DefaultCaptionWorkerCount,
		EmbeddingBatchSize: DefaultEmbeddingBatchSize,
	}
}

// captionTask はキャプション生成タスク
// Index は呼び出し元のシーン列における位置で、結果の再結合に使う
type captionTask struct {
	Index     int
	ImagePath string
}

// CaptionPipeline は代表フレームのキャプション生成を並行実行する
type CaptionPipeline struct {
	captioner Captioner
	config    *PipelineConfig
	logger    *slog.Logger
}

// NewCaptionPipeline は新しいCaptionPipelineを作成する
func NewCaptionPipeline(captioner Captioner, config *PipelineConfig, logger *slog.Logger) *CaptionPipeline {
	if config == nil {
		config = DefaultPipelineConfig()
	}
	if config.CaptionWorkerCount <= 0 {
		config.CaptionWorkerCount = DefaultCaptionWorkerCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptionPipeline{
		captioner: captioner,
		config:    config,
		logger:    logger,
	}
}

// CaptionFrames は画像パス列のキャプションを並行生成し、入力と同じ順序で返す
//
// 個々のキャプション生成の失敗は致命的ではない。失敗したシーンには
// 空文字列が入り、文字起こしテキストのみでインデックス化が継続される。
// 戻り値の failed は失敗したシーン数を表す。
func (p *CaptionPipeline) CaptionFrames(ctx context.Context, imagePaths []string) (captions []string, failed int) {
	captions = make([]string, len(imagePaths))
	if len(imagePaths) == 0 {
		return captions, 0
	}

	taskChan := make(chan captionTask, len(imagePaths))
	var failedCount atomic.Int64

	var wg sync.WaitGroup
	wg.Add(p.config.CaptionWorkerCount)
	for i := 0; i < p.config.CaptionWorkerCount; i++ {
		go func() {
			defer wg.Done()
			for task := range taskChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				caption, err := p.captioner.Caption(ctx, task.ImagePath)
				if err != nil {
					p.logger.Warn("キャプション生成に失敗",
						"imagePath", task.ImagePath,
						"error", err,
					)
					failedCount.Add(1)
					continue
				}
				// 各ワーカーは互いに異なるインデックスにのみ書き込む
				captions[task.Index] = caption
			}
		}()
	}

	for i, path := range imagePaths {
		if path == "" {
			continue
		}
		taskChan <- captionTask{Index: i, ImagePath: path}
	}
	close(taskChan)

	wg.Wait()

	return captions, int(failedCount.Load())
}
