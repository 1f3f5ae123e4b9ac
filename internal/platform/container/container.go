package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreingestion "github.com/Bharath-2656/video-analytics/internal/core/ingestion"
	coremerge "github.com/Bharath-2656/video-analytics/internal/core/merge"
	coresearch "github.com/Bharath-2656/video-analytics/internal/core/search"
	"github.com/Bharath-2656/video-analytics/internal/infra/ffmpeg"
	"github.com/Bharath-2656/video-analytics/internal/infra/openai"
	"github.com/Bharath-2656/video-analytics/internal/infra/postgres"
	"github.com/Bharath-2656/video-analytics/internal/platform/database"
	"github.com/Bharath-2656/video-analytics/pkg/config"
)

// ServiceContainer はアプリケーション全体の依存関係を保持する。
type ServiceContainer struct {
	ProcessService *coreingestion.ProcessService
	SearchService  *coresearch.SearchService
	Assembler      *coremerge.Assembler
	IngestionRepo  coreingestion.Repository // 動画/シーン操作用

	logger   *slog.Logger
	database *database.Database
}

type containerOptions struct {
	logger      *slog.Logger
	embedder    coreingestion.Embedder
	sampler     coreingestion.FrameSampler
	transcriber coreingestion.Transcriber
	captioner   coreingestion.Captioner
	filter      coresearch.RelevanceFilter
	media       coremerge.MediaTool
}

// ContainerOption は ServiceContainer 構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerEmbedder はカスタム Embedder を注入する
func WithContainerEmbedder(embedder coreingestion.Embedder) ContainerOption {
	return func(opts *containerOptions) {
		opts.embedder = embedder
	}
}

// WithContainerFrameSampler は FrameSampler を差し替える
func WithContainerFrameSampler(sampler coreingestion.FrameSampler) ContainerOption {
	return func(opts *containerOptions) {
		opts.sampler = sampler
	}
}

// WithContainerTranscriber は Transcriber を差し替える
func WithContainerTranscriber(transcriber coreingestion.Transcriber) ContainerOption {
	return func(opts *containerOptions) {
		opts.transcriber = transcriber
	}
}

// WithContainerCaptioner は Captioner を差し替える
func WithContainerCaptioner(captioner coreingestion.Captioner) ContainerOption {
	return func(opts *containerOptions) {
		opts.captioner = captioner
	}
}

// WithContainerRelevanceFilter は検索結果の関連性フィルタを差し替える
func WithContainerRelevanceFilter(filter coresearch.RelevanceFilter) ContainerOption {
	return func(opts *containerOptions) {
		opts.filter = filter
	}
}

// WithContainerMediaTool は動画結合用の MediaTool を差し替える
func WithContainerMediaTool(media coremerge.MediaTool) ContainerOption {
	return func(opts *containerOptions) {
		opts.media = media
	}
}

// NewContainer は設定からコンテナを生成する。
func NewContainer(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
	}

	return NewContainerWithDB(cfg, db, opts...)
}

// NewContainerWithDB は既存の Database を受け取りコンテナを生成する。
func NewContainerWithDB(cfg *config.Config, db *database.Database, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	// ffmpeg実行環境（サンプリング・クリップ抽出・音声抽出を兼ねる）
	var executor *ffmpeg.Executor
	needsExecutor := options.sampler == nil || options.transcriber == nil || options.media == nil
	if needsExecutor {
		var err error
		executor, err = ffmpeg.NewExecutor(options.logger)
		if err != nil {
			return nil, fmt.Errorf("ffmpeg初期化に失敗しました: %w", err)
		}
	}

	sampler := options.sampler
	if sampler == nil {
		sampler = executor
	}

	media := options.media
	if media == nil {
		media = executor
	}

	// OpenAIクライアント（Vision/フィルタ/Whisperで共有）
	var client *openai.Client
	needsClient := options.captioner == nil || options.filter == nil || options.transcriber == nil
	if needsClient {
		var err error
		client, err = openai.NewClientWithAPIKey(cfg.OpenAI.APIKey, cfg.OpenAI.CaptionModel)
		if err != nil {
			return nil, fmt.Errorf("OpenAIクライアント初期化に失敗しました: %w", err)
		}
	}

	embedder := options.embedder
	if embedder == nil {
		embedder = openai.NewEmbedder(
			cfg.OpenAI.APIKey,
			openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
			openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
		)
	}

	captioner := options.captioner
	if captioner == nil {
		captioner = openai.NewCaptioner(client, cfg.OpenAI.CaptionModel)
	}

	transcriber := options.transcriber
	if transcriber == nil {
		transcriber = openai.NewTranscriber(client, executor, cfg.OpenAI.TranscriptionModel)
	}

	filter := options.filter
	if filter == nil {
		filter = openai.NewRelevanceFilter(client, cfg.OpenAI.FilterModel)
	}

	// Repository (PostgreSQL)
	txProvider := database.NewTransactionProvider(db.Pool())
	ingestionRepo := newTxAwareRepository(postgres.NewRepository(db.Pool()), txProvider)
	searchRepo := postgres.NewSearchRepository(db.Pool())

	// ProcessService
	processService := coreingestion.NewProcessService(
		ingestionRepo,
		sampler,
		transcriber,
		captioner,
		embedder,
		cfg.Storage.FramesDir,
		coreingestion.WithProcessLogger(options.logger),
		coreingestion.WithProcessPipelineConfig(&coreingestion.PipelineConfig{
			CaptionWorkerCount: cfg.Processing.CaptionWorkers,
			EmbeddingBatchSize: coreingestion.DefaultEmbeddingBatchSize,
		}),
	)

	// SearchService
	searchService := coresearch.NewSearchService(
		searchRepo,
		embedder,
		coresearch.WithSearchLogger(options.logger),
		coresearch.WithRelevanceFilter(filter),
		coresearch.WithFilterTimeout(time.Duration(cfg.Processing.FilterTimeoutSec)*time.Second),
	)

	// Assembler（検索結果の動画結合）
	assembler := coremerge.NewAssembler(
		media,
		cfg.Storage.OutputDir,
		coremerge.WithAssemblerLogger(options.logger),
	)

	return &ServiceContainer{
		ProcessService: processService,
		SearchService:  searchService,
		Assembler:      assembler,
		IngestionRepo:  ingestionRepo,
		logger:         options.logger,
		database:       db,
	}, nil
}

// Close は内部リソースを解放する。
func (c *ServiceContainer) Close() {
	if c != nil && c.database != nil {
		c.database.Close()
	}
}

// Logger はロガーを返す。
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Database はデータベースを返す。
func (c *ServiceContainer) Database() *database.Database {
	if c == nil {
		return nil
	}
	return c.database
}
