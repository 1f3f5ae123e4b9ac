package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	coremerge "github.com/Bharath-2656/video-analytics/internal/core/merge"
	"github.com/Bharath-2656/video-analytics/internal/platform/logger"
	"github.com/Bharath-2656/video-analytics/pkg/config"
)

// CleanupAction は保持期限を過ぎた結合動画を削除するコマンドのアクション
func CleanupAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	// DB接続は不要なため、設定とロガーのみ初期化する
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	appLogger := logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	maxAgeHours := int(cmd.Int("max-age-hours"))
	if maxAgeHours <= 0 {
		maxAgeHours = cfg.Processing.CleanupMaxAgeHour
	}
	maxAge := time.Duration(maxAgeHours) * time.Hour

	slog.Info("結合動画のクリーンアップを開始",
		"outputDir", cfg.Storage.OutputDir,
		"maxAge", maxAge,
	)

	result, err := coremerge.CleanupMergedVideos(cfg.Storage.OutputDir, maxAge, appLogger)
	if err != nil {
		slog.Error("クリーンアップに失敗しました", "error", err)
		return err
	}

	fmt.Printf("クリーンアップが完了しました\n")
	fmt.Printf("  走査ファイル数: %d\n", result.ScannedFiles)
	fmt.Printf("  削除ファイル数: %d\n", result.Removed)
	fmt.Printf("  解放容量: %dバイト\n", result.FreedBytes)
	if len(result.FailedPaths) > 0 {
		fmt.Printf("  削除に失敗: %d件\n", len(result.FailedPaths))
	}

	return nil
}
