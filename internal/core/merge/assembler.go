package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNoPlayableVideos は結合対象の動画ファイルが1つも存在しないエラー
var ErrNoPlayableVideos = errors.New("no playable source videos found")

// MediaTool は動画の切り出し・結合を行うインターフェース
// テスト時のモック用に消費者側で定義
type MediaTool interface {
	// ExtractClip は動画の指定区間を再エンコードして切り出す
	ExtractClip(ctx context.Context, srcPath string, start, end float64, outputPath string) error

	// Concat は複数の動画ファイルを順に結合する
	Concat(ctx context.Context, inputPaths []string, outputPath string) error

	// TitleCard は動画タイトルを表示する短いカードを生成する
	TitleCard(ctx context.Context, title string, outputPath string) error
}

// Assembler は検索結果から結合動画を組み立てる
type Assembler struct {
	media      MediaTool
	outputDir  string
	titleCards bool
	onStatus   func(MergeStatus)
	logger     *slog.Logger
}

type assemblerOptions struct {
	titleCards bool
	onStatus   func(MergeStatus)
	logger     *slog.Logger
}

// AssemblerOption は Assembler のオプション設定
type AssemblerOption func(*assemblerOptions)

// WithAssemblerLogger は Assembler にロガーを設定する
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(o *assemblerOptions) {
		o.logger = logger
	}
}

// WithTitleCards は動画ごとのタイトルカード挿入を有効化する
func WithTitleCards(enabled bool) AssemblerOption {
	return func(o *assemblerOptions) {
		o.titleCards = enabled
	}
}

// WithStatusCallback は状態遷移の通知コールバックを設定する
func WithStatusCallback(fn func(MergeStatus)) AssemblerOption {
	return func(o *assemblerOptions) {
		o.onStatus = fn
	}
}

// NewAssembler は新しいAssemblerを作成する
func NewAssembler(media MediaTool, outputDir string, opts ...AssemblerOption) *Assembler {
	options := assemblerOptions{
		titleCards: true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Assembler{
		media:      media,
		outputDir:  outputDir,
		titleCards: options.titleCards,
		onStatus:   options.onStatus,
		logger:     options.logger,
	}
}

// Assemble は区間グループ列から1本の結合動画を生成する
//
// 処理は pending → extracting → concatenating → done の順に進み、
// 途中で失敗した場合は failed に遷移して部分生成物を削除する。
// ソース動画ファイルが見つからないグループは警告の上で除外し、
// 全グループが除外された場合のみエラーになる
func (a *Assembler) Assemble(ctx context.Context, query string, groups []*SegmentGroup) (*MergeResult, error) {
	result := &MergeResult{Status: MergeStatusPending}
	a.setStatus(result, MergeStatusPending)

	// 存在しないソース動画を除外する
	playable := make([]*SegmentGroup, 0, len(groups))
	for _, group := range groups {
		if _, err := os.Stat(group.VideoPath); err != nil {
			a.logger.Warn("ソース動画が見つからないため除外",
				"videoID", group.VideoID,
				"videoPath", group.VideoPath,
				"error", err,
			)
			continue
		}
		playable = append(playable, group)
	}
	if len(playable) == 0 {
		a.setStatus(result, MergeStatusFailed)
		return result, ErrNoPlayableVideos
	}

	result.Groups = playable
	for _, group := range playable {
		result.SegmentCount += len(group.Segments)
		result.TotalDuration += group.TotalDuration()
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		a.setStatus(result, MergeStatusFailed)
		return result, fmt.Errorf("出力ディレクトリの作成に失敗: %w", err)
	}

	tempDir, err := os.MkdirTemp(a.outputDir, "merge-")
	if err != nil {
		a.setStatus(result, MergeStatusFailed)
		return result, fmt.Errorf("作業ディレクトリの作成に失敗: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			a.logger.Warn("作業ディレクトリの削除に失敗",
				"dir", tempDir,
				"error", err,
			)
		}
	}()

	// 区間の切り出し
	a.setStatus(result, MergeStatusExtracting)
	parts, err := a.extractParts(ctx, playable, tempDir)
	if err != nil {
		a.setStatus(result, MergeStatusFailed)
		return result, err
	}

	// 結合
	a.setStatus(result, MergeStatusConcatenating)
	outputPath := filepath.Join(a.outputDir, MergedFilename(query, result.SegmentCount, result.TotalDuration))
	if err := a.media.Concat(ctx, parts, outputPath); err != nil {
		a.setStatus(result, MergeStatusFailed)
		if removeErr := os.Remove(outputPath); removeErr != nil && !os.IsNotExist(removeErr) {
			a.logger.Warn("部分生成物の削除に失敗",
				"path", outputPath,
				"error", removeErr,
			)
		}
		return result, fmt.Errorf("動画の結合に失敗: %w", err)
	}

	result.OutputPath = outputPath
	a.setStatus(result, MergeStatusDone)

	a.logger.Info("結合動画を生成",
		"outputPath", outputPath,
		"videoCount", len(playable),
		"segmentCount", result.SegmentCount,
		"totalDuration", result.TotalDuration,
	)

	return result, nil
}

// extractParts は各グループのタイトルカードと区間クリップを順に生成する
func (a *Assembler) extractParts(ctx context.Context, groups []*SegmentGroup, tempDir string) ([]string, error) {
	parts := make([]string, 0)
	partIndex := 0

	for _, group := range groups {
		// タイトルカードの失敗は致命的ではない
		if a.titleCards && group.VideoTitle != "" {
			cardPath := filepath.Join(tempDir, fmt.Sprintf("part_%03d.mp4", partIndex))
			if err := a.media.TitleCard(ctx, group.VideoTitle, cardPath); err != nil {
				a.logger.Warn("タイトルカードの生成に失敗。スキップして続行",
					"videoTitle", group.VideoTitle,
					"error", err,
				)
			} else {
				parts = append(parts, cardPath)
				partIndex++
			}
		}

		for _, seg := range group.Segments {
			clipPath := filepath.Join(tempDir, fmt.Sprintf("part_%03d.mp4", partIndex))
			if err := a.media.ExtractClip(ctx, group.VideoPath, seg.Start, seg.End, clipPath); err != nil {
				return nil, fmt.Errorf("区間の切り出しに失敗 (video=%s, start=%.1f, end=%.1f): %w",
					group.VideoID, seg.Start, seg.End, err)
			}
			parts = append(parts, clipPath)
			partIndex++
		}
	}

	return parts, nil
}

func (a *Assembler) setStatus(result *MergeResult, status MergeStatus) {
	result.Status = status
	if a.onStatus != nil {
		a.onStatus(status)
	}
}
