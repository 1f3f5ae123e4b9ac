package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	coreingestion "github.com/Bharath-2656/video-analytics/internal/core/ingestion"
)

// VideoAddAction は動画を取り込んでインデックス化するコマンドのアクション
func VideoAddAction(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	filePath := cmd.String("file")
	envFile := cmd.String("env")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	threshold := int(cmd.Int("threshold"))
	if threshold <= 0 {
		threshold = appCtx.Config.Processing.Threshold
	}
	minDuration := cmd.Float("min-duration")
	if minDuration < 0 {
		minDuration = appCtx.Config.Processing.MinSceneDuration
	}

	slog.Info("動画取り込みを開始",
		"title", title,
		"file", filePath,
		"threshold", threshold,
		"minDuration", minDuration,
	)

	result, err := appCtx.Container.ProcessService.ProcessVideo(ctx, coreingestion.ProcessParams{
		Title:            title,
		FilePath:         filePath,
		Threshold:        threshold,
		MinSceneDuration: minDuration,
	})
	if err != nil {
		slog.Error("動画取り込みに失敗しました", "error", err)
		return err
	}

	fmt.Printf("動画を取り込みました: %s\n", result.VideoID)
	fmt.Printf("  シーン数: %d\n", result.SceneCount)
	fmt.Printf("  動画の長さ: %.1f秒\n", result.VideoDuration)
	fmt.Printf("  処理時間: %s\n", result.Duration)

	return nil
}

// VideoListAction は取り込み済み動画の一覧を表示するコマンドのアクション
func VideoListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	videos, err := appCtx.Container.ProcessService.ListVideos(ctx)
	if err != nil {
		slog.Error("動画一覧の取得に失敗しました", "error", err)
		return err
	}

	if len(videos) == 0 {
		fmt.Println("取り込み済みの動画はありません")
		return nil
	}

	for _, v := range videos {
		fmt.Printf("%s  %-30s  %-10s  %4dシーン  %.1f秒\n",
			v.ID, v.Title, v.Status, v.SceneCount, v.Duration)
	}

	return nil
}

// VideoShowAction は動画の詳細とシーン一覧を表示するコマンドのアクション
func VideoShowAction(ctx context.Context, cmd *cli.Command) error {
	idStr := cmd.String("id")
	envFile := cmd.String("env")

	videoID, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("動画IDの形式が不正です: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	video, scenes, err := appCtx.Container.ProcessService.GetVideoDetail(ctx, videoID)
	if err != nil {
		slog.Error("動画詳細の取得に失敗しました", "error", err)
		return err
	}

	fmt.Printf("ID:        %s\n", video.ID)
	fmt.Printf("タイトル:  %s\n", video.Title)
	fmt.Printf("ファイル:  %s\n", video.FilePath)
	fmt.Printf("長さ:      %.1f秒\n", video.Duration)
	fmt.Printf("ステータス: %s\n", video.Status)
	if video.ErrorMessage != nil {
		fmt.Printf("エラー:    %s\n", *video.ErrorMessage)
	}

	if len(scenes) > 0 {
		fmt.Println("\n--- シーン一覧 ---")
		for _, sc := range scenes {
			fmt.Printf("[%3d] %s - %s  %s\n",
				sc.Number, sc.StartTimeFormatted, sc.EndTimeFormatted, truncateLine(sc.Transcript, 60))
		}
	}

	return nil
}

// VideoDeleteAction は動画とそのシーンを削除するコマンドのアクション
func VideoDeleteAction(ctx context.Context, cmd *cli.Command) error {
	idStr := cmd.String("id")
	envFile := cmd.String("env")

	videoID, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("動画IDの形式が不正です: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := appCtx.Container.ProcessService.DeleteVideo(ctx, videoID); err != nil {
		slog.Error("動画の削除に失敗しました", "videoID", videoID, "error", err)
		return err
	}

	fmt.Printf("動画を削除しました: %s\n", videoID)
	return nil
}

// truncateLine は一覧表示用に文字列を切り詰める
func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
