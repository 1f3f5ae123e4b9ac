package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/Bharath-2656/video-analytics/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "video-analytics",
		Usage: "講義動画のシーン分割・セマンティック検索・結合システム",
		Commands: []*cli.Command{
			{
				Name:  "video",
				Usage: "動画管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "動画を取り込んでインデックス化",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "title",
								Usage:    "動画タイトル",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "file",
								Usage:    "動画ファイルパス",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "threshold",
								Usage: "シーン転換の検出閾値（省略時は設定値）",
							},
							&cli.FloatFlag{
								Name:  "min-duration",
								Usage: "シーンの最小継続時間（秒、省略時は設定値）",
								Value: -1,
							},
						},
						Action: appcli.VideoAddAction,
					},
					{
						Name:  "list",
						Usage: "取り込み済み動画の一覧を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
						},
						Action: appcli.VideoListAction,
					},
					{
						Name:  "show",
						Usage: "動画の詳細とシーン一覧を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "id",
								Usage:    "動画ID",
								Required: true,
							},
						},
						Action: appcli.VideoShowAction,
					},
					{
						Name:  "delete",
						Usage: "動画とそのシーンを削除",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "id",
								Usage:    "動画ID",
								Required: true,
							},
						},
						Action: appcli.VideoDeleteAction,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "シーンのセマンティック検索",
				ArgsUsage: "<クエリ>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "最大ヒット件数",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "video-id",
						Usage: "特定の動画に絞り込み",
					},
					&cli.FloatFlag{
						Name:  "min-score",
						Usage: "類似度スコアの下限",
					},
					&cli.BoolFlag{
						Name:  "timelines",
						Usage: "動画別のタイムラインも表示",
					},
				},
				Action: appcli.SearchAction,
			},
			{
				Name:      "merge",
				Usage:     "検索にヒットしたシーンを1本の動画に結合",
				ArgsUsage: "<クエリ>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "最大ヒット件数",
						Value: 10,
					},
					&cli.FloatFlag{
						Name:  "gap",
						Usage: "結合するセグメント間の許容間隔（秒、省略時は設定値）",
					},
					&cli.StringFlag{
						Name:  "video-id",
						Usage: "特定の動画に絞り込み",
					},
					&cli.FloatFlag{
						Name:  "min-score",
						Usage: "類似度スコアの下限",
					},
				},
				Action: appcli.MergeAction,
			},
			{
				Name:  "cleanup",
				Usage: "保持期限を過ぎた結合動画を削除",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.IntFlag{
						Name:  "max-age-hours",
						Usage: "結合動画の保持時間（時間単位、省略時は設定値）",
					},
				},
				Action: appcli.CleanupAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
