package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	coresearch "github.com/Bharath-2656/video-analytics/internal/core/search"
)

// SearchAction はシーンのセマンティック検索を実行するコマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	showTimelines := cmd.Bool("timelines")
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

	filter, err := buildSearchFilter(cmd)
	if err != nil {
		return err
	}

	slog.Info("シーン検索を開始", "query", query, "limit", limit)

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

	for i, hit := range hits {
		fmt.Printf("[%d] %s  シーン%d (%s - %s)  スコア: %.4f\n",
			i+1, hit.VideoTitle, hit.SceneNumber,
			hit.StartTimeFormatted, hit.EndTimeFormatted, hit.Score)
		fmt.Printf("    %s\n", truncateLine(hit.CombinedContext, 100))
	}

	if showTimelines {
		timelines := coresearch.BuildTimelines(hits)
		fmt.Println("\n--- 動画別タイムライン ---")
		for _, tl := range timelines {
			fmt.Printf("%s  %s - %s  (%dシーン)\n",
				tl.VideoTitle, tl.StartFormatted, tl.EndFormatted, tl.SceneCount)
		}
	}

	return nil
}

// buildSearchFilter はコマンドフラグから検索フィルタを組み立てる
func buildSearchFilter(cmd *cli.Command) (*coresearch.SearchFilter, error) {
	filter := &coresearch.SearchFilter{}
	hasFilter := false

	if idStr := cmd.String("video-id"); idStr != "" {
		videoID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("動画IDの形式が不正です: %w", err)
		}
		filter.VideoID = &videoID
		hasFilter = true
	}

	if cmd.IsSet("min-score") {
		minScore := cmd.Float("min-score")
		filter.MinScore = &minScore
		hasFilter = true
	}

	if !hasFilter {
		return nil, nil
	}
	return filter, nil
}
