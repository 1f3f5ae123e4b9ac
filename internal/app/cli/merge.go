package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	coremerge "github.com/Bharath-2656/video-analytics/internal/core/merge"
	coresearch "github.com/Bharath-2656/video-analytics/internal/core/search"
)

// MergeAction は検索にヒットしたシーンを1本の動画に結合するコマンドのアクション
func MergeAction(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	envFile := cmd.String("env")

	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("検索クエリを指定してください")
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	gap := cmd.Float("gap")
	if !cmd.IsSet("gap") {
		gap = appCtx.Config.Processing.MergeGap
	}

	filter, err := buildSearchFilter(cmd)
	if err != nil {
		return err
	}

	slog.Info("シーン結合を開始", "query", query, "limit", limit, "gap", gap)

	// 1. 検索でシーンを収集
	hits, err := appCtx.Container.SearchService.Search(ctx, coresearch.SearchParams{
		Query:  query,
		Limit:  limit,
		Filter: filter,
	})
	if err != nil {
		slog.Error("シーン検索に失敗しました", "error", err)
		return err
	}
	if len(hits) == 0 {
		fmt.Println("該当するシーンが見つかりませんでした")
		return nil
	}

	// 2. 近接セグメントを動画単位でまとめる
	groups := coremerge.MergeHits(hits, gap)

	// 3. ffmpegで抽出・結合
	result, err := appCtx.Container.Assembler.Assemble(ctx, query, groups)
	if err != nil {
		slog.Error("動画結合に失敗しました", "error", err)
		return err
	}

	fmt.Printf("結合動画を生成しました: %s\n", result.OutputPath)
	fmt.Printf("  セグメント数: %d\n", result.SegmentCount)
	fmt.Printf("  合計時間: %.1f秒\n", result.TotalDuration)
	for _, group := range result.Groups {
		fmt.Printf("  - %s (%dセグメント)\n", group.VideoTitle, len(group.Segments))
	}

	return nil
}
